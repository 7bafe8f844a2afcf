package cleaner

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// errUnknownRuleType marks a config entry whose type this build does
// not implement.
var errUnknownRuleType = errors.New("unknown rule type")

// Rule is one compiled cleaning operation. Rules are pure string
// transforms applied in configuration order.
type Rule interface {
	Apply(content string) string
	Description() string
}

// RuleConfig is the YAML shape of a single rule. Which fields matter
// depends on Type; compile reports unused-field mistakes only where
// they make a rule inoperative.
type RuleConfig struct {
	Type        string   `yaml:"type"`
	Description string   `yaml:"description"`
	Pattern     string   `yaml:"pattern"`
	Flags       []string `yaml:"flags"`
	// MaxRemove bounds how many occurrences are removed. Left unset it
	// defaults to 1 for exact_match and unlimited for regex.
	MaxRemove   *int   `yaml:"max_remove"`
	StartMarker string `yaml:"start_marker"`
	EndMarker   string `yaml:"end_marker"`
	// Inclusive controls whether the marker lines themselves are
	// removed by section_boundary rules. Defaults to true.
	Inclusive *bool `yaml:"inclusive"`
	KeepFirst bool  `yaml:"keep_first"`
	KeepLast  bool  `yaml:"keep_last"`
}

func (rc RuleConfig) compile() (Rule, error) {
	switch rc.Type {
	case "exact_match":
		maxRemove := 1
		if rc.MaxRemove != nil {
			maxRemove = *rc.MaxRemove
		}
		return &exactRule{desc: rc.Description, pattern: rc.Pattern, maxRemove: maxRemove}, nil

	case "regex":
		re, err := compilePattern(rc.Pattern, rc.Flags)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", rc.Description, err)
		}
		maxRemove := 0
		if rc.MaxRemove != nil {
			maxRemove = *rc.MaxRemove
		}
		return &regexRule{desc: rc.Description, re: re, maxRemove: maxRemove}, nil

	case "line_pattern":
		re, err := compilePattern(rc.Pattern, rc.Flags)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", rc.Description, err)
		}
		return &linePatternRule{desc: rc.Description, re: re}, nil

	case "section_boundary":
		inclusive := true
		if rc.Inclusive != nil {
			inclusive = *rc.Inclusive
		}
		return &sectionBoundaryRule{
			desc:      rc.Description,
			start:     rc.StartMarker,
			end:       rc.EndMarker,
			inclusive: inclusive,
		}, nil

	case "repeating_pattern":
		return &repeatingRule{
			desc:      rc.Description,
			pattern:   rc.Pattern,
			keepFirst: rc.KeepFirst,
			keepLast:  rc.KeepLast,
		}, nil

	default:
		return nil, fmt.Errorf("%w %q", errUnknownRuleType, rc.Type)
	}
}

// compilePattern maps the configuration flag names onto inline regexp
// flags. Unknown flag names are ignored so configs stay portable.
func compilePattern(pattern string, flags []string) (*regexp.Regexp, error) {
	var prefix strings.Builder
	for _, f := range flags {
		switch f {
		case "IGNORECASE":
			prefix.WriteString("(?i)")
		case "MULTILINE":
			prefix.WriteString("(?m)")
		case "DOTALL":
			prefix.WriteString("(?s)")
		}
	}
	return regexp.Compile(prefix.String() + pattern)
}

// exactRule removes literal text occurrences, up to maxRemove of them
// (-1 removes all).
type exactRule struct {
	desc      string
	pattern   string
	maxRemove int
}

func (r *exactRule) Description() string { return r.desc }

func (r *exactRule) Apply(content string) string {
	if r.pattern == "" {
		return content
	}
	return strings.Replace(content, r.pattern, "", r.maxRemove)
}

// regexRule removes regexp matches, up to maxRemove of them (0 removes
// all).
type regexRule struct {
	desc      string
	re        *regexp.Regexp
	maxRemove int
}

func (r *regexRule) Description() string { return r.desc }

func (r *regexRule) Apply(content string) string {
	if r.maxRemove <= 0 {
		return r.re.ReplaceAllString(content, "")
	}
	for i := 0; i < r.maxRemove; i++ {
		loc := r.re.FindStringIndex(content)
		if loc == nil {
			break
		}
		content = content[:loc[0]] + content[loc[1]:]
	}
	return content
}

// linePatternRule drops every line containing a match.
type linePatternRule struct {
	desc string
	re   *regexp.Regexp
}

func (r *linePatternRule) Description() string { return r.desc }

func (r *linePatternRule) Apply(content string) string {
	lines := strings.Split(content, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if !r.re.MatchString(line) {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// sectionBoundaryRule drops the lines between a start and an end
// marker. Markers are plain substrings; inclusive controls whether the
// marker lines go too. An unclosed section runs to the end of the
// document.
type sectionBoundaryRule struct {
	desc      string
	start     string
	end       string
	inclusive bool
}

func (r *sectionBoundaryRule) Description() string { return r.desc }

func (r *sectionBoundaryRule) Apply(content string) string {
	if r.start == "" || r.end == "" {
		return content
	}
	lines := strings.Split(content, "\n")
	kept := lines[:0]
	inSection := false
	for _, line := range lines {
		switch {
		case !inSection && strings.Contains(line, r.start):
			inSection = true
			if !r.inclusive {
				kept = append(kept, line)
			}
		case inSection && strings.Contains(line, r.end):
			inSection = false
			if !r.inclusive {
				kept = append(kept, line)
			}
		case !inSection:
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// repeatingRule deduplicates a literal that appears more than once:
// keep the first occurrence, the last, or none. A single occurrence is
// left alone.
type repeatingRule struct {
	desc      string
	pattern   string
	keepFirst bool
	keepLast  bool
}

func (r *repeatingRule) Description() string { return r.desc }

func (r *repeatingRule) Apply(content string) string {
	if r.pattern == "" {
		return content
	}
	count := strings.Count(content, r.pattern)
	if count <= 1 {
		return content
	}
	switch {
	case r.keepFirst:
		first := strings.Index(content, r.pattern)
		head := content[:first+len(r.pattern)]
		return head + strings.ReplaceAll(content[first+len(r.pattern):], r.pattern, "")
	case r.keepLast:
		last := strings.LastIndex(content, r.pattern)
		return strings.ReplaceAll(content[:last], r.pattern, "") + content[last:]
	default:
		return strings.ReplaceAll(content, r.pattern, "")
	}
}
