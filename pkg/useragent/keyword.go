package useragent

import (
	"context"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// KeywordMatcher is a Matcher built on keyword sets and a handful of
// pre-compiled expressions. It is less precise than a full pattern database
// but needs no external artifact and is safe for concurrent use.
type KeywordMatcher struct {
	strict bool
}

// KeywordOption configures a KeywordMatcher.
type KeywordOption func(*KeywordMatcher)

// WithStrict makes the matcher fail with ErrMalformedUserAgent when neither
// browser, OS nor device class can be recognized, instead of reporting
// FamilyOther for all of them.
func WithStrict() KeywordOption {
	return func(m *KeywordMatcher) { m.strict = true }
}

// NewKeywordMatcher returns a ready to use KeywordMatcher.
func NewKeywordMatcher(opts ...KeywordOption) *KeywordMatcher {
	m := &KeywordMatcher{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Parse classifies ua. Bots are reported with their name as the family and
// DeviceSpider as the device.
func (m *KeywordMatcher) Parse(_ context.Context, ua string) (Match, error) {
	if ua == "" {
		return Match{}, &ParseError{Input: ua, Err: ErrEmptyUserAgent}
	}

	lowerUA := strings.ToLower(ua)
	class := DeviceClass(lowerUA)

	res := Match{
		UserAgent: parseBrowser(lowerUA),
		OS:        parseOS(lowerUA),
		Device:    Some(deviceLabel(lowerUA, class)),
	}

	if class == DeviceTypeBot {
		res.UserAgent = Agent{Family: botName(ua, lowerUA)}
	}

	if m.strict && class == DeviceTypeUnknown &&
		res.UserAgent.Family == FamilyOther && res.OS.Family.Or(FamilyOther) == FamilyOther {
		return Match{}, &ParseError{Input: ua, Err: ErrMalformedUserAgent}
	}

	return res, nil
}

// Direct mapping for the most common crawlers.
var botNames = []struct{ keyword, name string }{
	{"googlebot", "Googlebot"},
	{"bingbot", "bingbot"},
	{"yandexbot", "YandexBot"},
	{"baiduspider", "Baiduspider"},
	{"duckduckbot", "DuckDuckBot"},
	{"twitterbot", "Twitterbot"},
	{"facebookexternalhit", "FacebookBot"},
	{"linkedinbot", "LinkedInBot"},
	{"slackbot", "Slackbot"},
	{"telegrambot", "TelegramBot"},
	{"adsbot-google", "AdsBot-Google"},
	{"applebot", "Applebot"},
}

var botNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)([a-z0-9\-_]+bot)`),
	regexp.MustCompile(`(?i)(google-structured-data)`),
	regexp.MustCompile(`(?i)([a-z0-9\-_]+spider)`),
	regexp.MustCompile(`(?i)([a-z0-9\-_]+crawler)`),
}

// botName extracts a display name for a crawler. A Caser is not safe for
// concurrent use, so one is created per call.
func botName(ua, lowerUA string) string {
	for _, b := range botNames {
		if strings.Contains(lowerUA, b.keyword) {
			return b.name
		}
	}
	for _, p := range botNamePatterns {
		if sub := p.FindStringSubmatch(ua); len(sub) > 1 {
			return cases.Title(language.English).String(strings.ToLower(sub[1]))
		}
	}
	return DeviceSpider
}
