// Package cleaner strips site-specific boilerplate from scraped
// markdown before it is chunked: navigation blocks, cookie banners,
// repeated footers. Rules are declarative, loaded from a per-site YAML
// file, and applied in order to the document body while the
// frontmatter block passes through untouched.
package cleaner

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"pagemill/internal/frontmatter"
)

// Config is a parsed rule file.
type Config struct {
	Site  string       `yaml:"site"`
	Rules []RuleConfig `yaml:"rules"`
}

// LoadConfig reads and parses a rule file. Rule regexes are not
// compiled here; New does that so a bad pattern is reported with its
// rule description.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading cleaning rules: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing cleaning rules %s: %w", path, err)
	}
	return &cfg, nil
}

// Stats accumulates cleaning totals over a run.
type Stats struct {
	Files        int
	BytesRemoved int
}

// Cleaner applies a compiled rule set.
type Cleaner struct {
	site   string
	rules  []Rule
	logger *slog.Logger
	stats  Stats
}

// New compiles cfg's rules. Unknown rule types are skipped with a
// warning so one stale entry does not take the whole site config down;
// an invalid regex is a hard error.
func New(cfg *Config, logger *slog.Logger) (*Cleaner, error) {
	c := &Cleaner{site: cfg.Site, logger: logger}
	for _, rc := range cfg.Rules {
		rule, err := rc.compile()
		if err != nil {
			if errors.Is(err, errUnknownRuleType) {
				logger.Warn("skipping cleaning rule", "site", cfg.Site, "error", err)
				continue
			}
			return nil, err
		}
		c.rules = append(c.rules, rule)
	}
	logger.Debug("cleaning rules loaded", "site", cfg.Site, "rules", len(c.rules))
	return c, nil
}

// Site reports which site this rule set targets.
func (c *Cleaner) Site() string { return c.site }

// Clean runs every rule over the document body and normalizes the
// remaining whitespace. Frontmatter is carried through verbatim.
func (c *Cleaner) Clean(content string) string {
	block, body := frontmatter.Extract(content)
	for _, rule := range c.rules {
		body = rule.Apply(body)
	}
	cleaned := block + normalizeWhitespace(body)
	c.stats.Files++
	if removed := len(content) - len(cleaned); removed > 0 {
		c.stats.BytesRemoved += removed
		c.logger.Debug("cleaned document", "site", c.site, "bytes_removed", removed)
	}
	return cleaned
}

// Stats reports how many documents Clean has processed and how many
// bytes the rules removed in total.
func (c *Cleaner) Stats() Stats { return c.stats }

// normalizeWhitespace strips trailing space from every line, collapses
// runs of blank lines to at most two, and ends the document with a
// single newline.
func normalizeWhitespace(content string) string {
	lines := strings.Split(content, "\n")
	normalized := make([]string, 0, len(lines))
	blanks := 0
	for _, line := range lines {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			blanks++
			if blanks > 2 {
				continue
			}
		} else {
			blanks = 0
		}
		normalized = append(normalized, line)
	}
	result := strings.TrimRight(strings.Join(normalized, "\n"), "\n")
	if result == "" {
		return ""
	}
	return result + "\n"
}
