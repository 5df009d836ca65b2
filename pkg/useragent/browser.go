package useragent

import (
	"regexp"
	"strings"
)

// BrowserPattern detects one browser family in a lower-cased user agent.
type BrowserPattern struct {
	Family    string
	Keywords  []string
	Excludes  []string
	AnyOf     bool // match when any keyword is present instead of all
	Regex     *regexp.Regexp
	OrderHint int
}

func (p BrowserPattern) matches(lowerUA string) bool {
	if p.AnyOf {
		for _, kw := range p.Keywords {
			if strings.Contains(lowerUA, kw) {
				return true
			}
		}
		return false
	}
	for _, kw := range p.Keywords {
		if !strings.Contains(lowerUA, kw) {
			return false
		}
	}
	for _, ex := range p.Excludes {
		if strings.Contains(lowerUA, ex) {
			return false
		}
	}
	return true
}

// Checked in OrderHint order, see init.go.
var browserPatterns = []BrowserPattern{
	{Family: BrowserEdge, Keywords: []string{"edg/", "edge/", "edga/", "edgios/"}, AnyOf: true, Regex: regexp.MustCompile(`(?:edge|edg|edga|edgios)/([\d.]+)`), OrderHint: 10},
	{Family: BrowserSamsung, Keywords: []string{"samsungbrowser"}, Regex: regexp.MustCompile(`samsungbrowser[/\s]([\d.]+)`), OrderHint: 20},
	{Family: BrowserUC, Keywords: []string{"ucbrowser"}, Regex: regexp.MustCompile(`ucbrowser[/\s]([\d.]+)`), OrderHint: 30},
	{Family: BrowserQQ, Keywords: []string{"qqbrowser"}, Regex: regexp.MustCompile(`qqbrowser[/\s]([\d.]+)`), OrderHint: 40},
	{Family: BrowserHuawei, Keywords: []string{"huaweibrowser"}, Regex: regexp.MustCompile(`huaweibrowser[/\s]([\d.]+)`), OrderHint: 50},
	{Family: BrowserVivo, Keywords: []string{"vivobrowser"}, Regex: regexp.MustCompile(`vivobrowser[/\s]([\d.]+)`), OrderHint: 60},
	{Family: BrowserMIUI, Keywords: []string{"miuibrowser"}, Regex: regexp.MustCompile(`miuibrowser[/\s]([\d.]+)`), OrderHint: 70},
	{Family: BrowserYandex, Keywords: []string{"yabrowser", "yandexbrowser"}, AnyOf: true, Regex: regexp.MustCompile(`(?:yabrowser|yandexbrowser)[/\s]([\d.]+)`), OrderHint: 80},
	{Family: BrowserVivaldi, Keywords: []string{"vivaldi"}, Regex: regexp.MustCompile(`vivaldi[/\s]([\d.]+)`), OrderHint: 90},
	{Family: BrowserBrave, Keywords: []string{"brave"}, Regex: regexp.MustCompile(`brave[/\s]([\d.]+)`), OrderHint: 100},
	{Family: BrowserOpera, Keywords: []string{"opr/", "opera"}, AnyOf: true, Regex: regexp.MustCompile(`(?:opr|opera)[/\s]([\d.]+)`), OrderHint: 110},
	{Family: BrowserChrome, Keywords: []string{"chrome/"}, Regex: regexp.MustCompile(`chrome/([\d.]+)`), OrderHint: 120},
	{Family: BrowserChrome, Keywords: []string{"crios/"}, Regex: regexp.MustCompile(`crios/([\d.]+)`), OrderHint: 125},
	{Family: BrowserFirefox, Keywords: []string{"firefox"}, Regex: regexp.MustCompile(`firefox/([\d.]+)`), OrderHint: 130},
	{Family: BrowserSafari, Keywords: []string{"safari"}, Excludes: []string{"chrome", "firefox", "android"}, Regex: regexp.MustCompile(`version/([\d.]+)`), OrderHint: 140},
	{Family: BrowserIE, Keywords: []string{"msie"}, Regex: regexp.MustCompile(`msie ([\d.]+)`), OrderHint: 150},
	{Family: BrowserIE, Keywords: []string{"trident/"}, Regex: regexp.MustCompile(`rv:([\d.]+)`), OrderHint: 160},
}

// parseBrowser returns the browser part of a match. Unknown browsers are
// reported as FamilyOther without version.
func parseBrowser(lowerUA string) Agent {
	for _, p := range browserPatterns {
		if !p.matches(lowerUA) {
			continue
		}
		a := Agent{Family: p.Family}
		if p.Regex != nil {
			if m := p.Regex.FindStringSubmatch(lowerUA); len(m) > 1 {
				seg := splitVersion(m[1], ".")
				a.Major, a.Minor, a.Patch, a.PatchMinor = seg[0], seg[1], seg[2], seg[3]
			}
		}
		return a
	}
	return Agent{Family: FamilyOther}
}

// splitVersion splits v into at most four segments. Segments after the
// first empty one are absent.
func splitVersion(v, sep string) [4]Field {
	var out [4]Field
	if len(v) > 32 {
		v = v[:32]
	}
	for i, part := range strings.SplitN(v, sep, 5) {
		if i == len(out) || part == "" {
			break
		}
		out[i] = Some(part)
	}
	return out
}
