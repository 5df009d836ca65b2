package uaregex

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/uakit/pkg/logger"
	"github.com/dmitrymomot/uakit/pkg/useragent"
)

//go:embed regexes.yaml
var defaultRegexes []byte

// RuleCount is the number of compiled rules per section.
type RuleCount struct {
	UserAgent int `json:"user_agent"`
	OS        int `json:"os"`
	Device    int `json:"device"`
}

// Parser is a compiled pattern database. It implements useragent.Matcher.
type Parser struct {
	agents  []agentRule
	oses    []osRule
	devices []deviceRule
}

var _ useragent.Matcher = (*Parser)(nil)

var defaultParser = sync.OnceValues(func() (*Parser, error) {
	return Load(bytes.NewReader(defaultRegexes))
})

// Default returns the parser for the embedded database. It is compiled once.
func Default() (*Parser, error) {
	return defaultParser()
}

// Load reads and compiles a regexes.yaml database from r.
func Load(r io.Reader, opts ...Option) (*Parser, error) {
	o := newOptions(opts)

	var db database
	if err := yaml.NewDecoder(r).Decode(&db); err != nil {
		return nil, errors.Join(ErrInvalidDatabase, err)
	}

	var missing []error
	for _, s := range []struct {
		name  string
		rules *[]rule
	}{
		{"user_agent_parsers", db.UserAgentParsers},
		{"os_parsers", db.OSParsers},
		{"device_parsers", db.DeviceParsers},
	} {
		if s.rules == nil {
			missing = append(missing, fmt.Errorf("%w: %s", ErrMissingSection, s.name))
		}
	}
	if len(missing) > 0 {
		return nil, errors.Join(append([]error{ErrInvalidDatabase}, missing...)...)
	}

	p := &Parser{}
	c := compiler{log: o.log, skipInvalid: o.skipInvalid}

	for i, r := range *db.UserAgentParsers {
		if re := c.compile("user_agent_parsers", i, r); re != nil {
			p.agents = append(p.agents, agentRule{re: re, family: r.FamilyReplacement, v1: r.V1Replacement, v2: r.V2Replacement, v3: r.V3Replacement})
		}
	}
	for i, r := range *db.OSParsers {
		if re := c.compile("os_parsers", i, r); re != nil {
			p.oses = append(p.oses, osRule{re: re, family: r.OSReplacement, v1: r.OSV1Replacement, v2: r.OSV2Replacement, v3: r.OSV3Replacement})
		}
	}
	for i, r := range *db.DeviceParsers {
		if re := c.compile("device_parsers", i, r); re != nil {
			p.devices = append(p.devices, deviceRule{re: re, device: r.DeviceReplacement})
		}
	}

	if len(c.errs) > 0 {
		return nil, errors.Join(append([]error{ErrInvalidRegex}, c.errs...)...)
	}
	return p, nil
}

// Open loads a database from ref. See OpenSource for the accepted references.
func Open(ctx context.Context, ref string, opts ...Option) (*Parser, error) {
	rc, err := OpenSource(ctx, ref, opts...)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return Load(rc, opts...)
}

// Rules returns the number of compiled rules per section.
func (p *Parser) Rules() RuleCount {
	return RuleCount{UserAgent: len(p.agents), OS: len(p.oses), Device: len(p.devices)}
}

// Parse classifies ua. Sections that no rule matches fall back to "Other".
func (p *Parser) Parse(ctx context.Context, ua string) (useragent.Match, error) {
	if ua == "" {
		return useragent.Match{}, &useragent.ParseError{Input: ua, Err: useragent.ErrEmptyUserAgent}
	}
	if err := ctx.Err(); err != nil {
		return useragent.Match{}, err
	}
	return useragent.Match{
		UserAgent: p.parseAgent(ua),
		OS:        p.parseOS(ua),
		Device:    useragent.Some(p.parseDevice(ua)),
	}, nil
}

func (p *Parser) parseAgent(ua string) useragent.Agent {
	for _, r := range p.agents {
		if a, ok := r.match(ua); ok {
			return a
		}
	}
	return useragent.Agent{Family: useragent.FamilyOther}
}

func (p *Parser) parseOS(ua string) useragent.OS {
	for _, r := range p.oses {
		if o, ok := r.match(ua); ok {
			return o
		}
	}
	return useragent.OS{Family: useragent.Some(useragent.FamilyOther)}
}

func (p *Parser) parseDevice(ua string) string {
	for _, r := range p.devices {
		if d, ok := r.match(ua); ok {
			return d
		}
	}
	return useragent.FamilyOther
}

type compiler struct {
	log         *slog.Logger
	skipInvalid bool
	errs        []error
}

func (c *compiler) compile(section string, idx int, r rule) *regexp.Regexp {
	re, err := r.compile()
	if err == nil {
		return re
	}
	if c.skipInvalid && r.Regex != "" {
		c.log.Warn("skipping pattern rule",
			logger.Component("uaregex"),
			slog.String("section", section),
			slog.Int("index", idx),
			logger.Error(err),
		)
		return nil
	}
	c.errs = append(c.errs, fmt.Errorf("%s[%d]: %w", section, idx, err))
	return nil
}
