package uaregex

import (
	"errors"
	"regexp"
	"strings"

	"github.com/dmitrymomot/uakit/pkg/useragent"
)

// database is the on-disk layout of regexes.yaml. Sections are pointers so
// that a missing section can be told apart from an empty one.
type database struct {
	UserAgentParsers *[]rule `yaml:"user_agent_parsers"`
	OSParsers        *[]rule `yaml:"os_parsers"`
	DeviceParsers    *[]rule `yaml:"device_parsers"`
}

type rule struct {
	Regex     string `yaml:"regex"`
	RegexFlag string `yaml:"regex_flag"`

	FamilyReplacement *string `yaml:"family_replacement"`
	V1Replacement     *string `yaml:"v1_replacement"`
	V2Replacement     *string `yaml:"v2_replacement"`
	V3Replacement     *string `yaml:"v3_replacement"`

	OSReplacement   *string `yaml:"os_replacement"`
	OSV1Replacement *string `yaml:"os_v1_replacement"`
	OSV2Replacement *string `yaml:"os_v2_replacement"`
	OSV3Replacement *string `yaml:"os_v3_replacement"`

	DeviceReplacement *string `yaml:"device_replacement"`
}

func (r rule) compile() (*regexp.Regexp, error) {
	if r.Regex == "" {
		return nil, errors.New("missing regex")
	}
	pattern := r.Regex
	if r.RegexFlag == "i" {
		pattern = "(?i)" + pattern
	}
	return regexp.Compile(pattern)
}

type agentRule struct {
	re                 *regexp.Regexp
	family, v1, v2, v3 *string
}

func (r agentRule) match(ua string) (useragent.Agent, bool) {
	g := r.re.FindStringSubmatch(ua)
	if g == nil {
		return useragent.Agent{}, false
	}
	family := group(g, 1)
	if r.family != nil {
		family = expand(*r.family, g)
	}
	if family == "" {
		return useragent.Agent{}, false
	}
	return useragent.Agent{
		Family:     family,
		Major:      pick(r.v1, g, 2),
		Minor:      pick(r.v2, g, 3),
		Patch:      pick(r.v3, g, 4),
		PatchMinor: useragent.Optional(group(g, 5)),
	}, true
}

type osRule struct {
	re                 *regexp.Regexp
	family, v1, v2, v3 *string
}

func (r osRule) match(ua string) (useragent.OS, bool) {
	g := r.re.FindStringSubmatch(ua)
	if g == nil {
		return useragent.OS{}, false
	}
	family := pick(r.family, g, 1)
	if !family.IsSet() {
		return useragent.OS{}, false
	}
	return useragent.OS{
		Family:     family,
		Major:      pick(r.v1, g, 2),
		Minor:      pick(r.v2, g, 3),
		Patch:      pick(r.v3, g, 4),
		PatchMinor: useragent.Optional(group(g, 5)),
	}, true
}

type deviceRule struct {
	re     *regexp.Regexp
	device *string
}

func (r deviceRule) match(ua string) (string, bool) {
	g := r.re.FindStringSubmatch(ua)
	if g == nil {
		return "", false
	}
	device := group(g, 1)
	if r.device != nil {
		device = expand(*r.device, g)
	}
	return device, device != ""
}

var placeholder = regexp.MustCompile(`\$\d`)

// expand substitutes $N references in tmpl with capture groups of g.
// Missing groups expand to "" and the result is trimmed.
func expand(tmpl string, g []string) string {
	if !strings.Contains(tmpl, "$") {
		return tmpl
	}
	out := placeholder.ReplaceAllStringFunc(tmpl, func(ref string) string {
		return group(g, int(ref[1]-'0'))
	})
	return strings.TrimSpace(out)
}

func group(g []string, i int) string {
	if i < len(g) {
		return g[i]
	}
	return ""
}

func pick(tmpl *string, g []string, i int) useragent.Field {
	if tmpl != nil {
		return useragent.Optional(expand(*tmpl, g))
	}
	return useragent.Optional(group(g, i))
}
