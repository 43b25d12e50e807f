// Package classify assigns sitemap priority and change frequency to routes
// from an ordered rule table.
package classify

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/romangod6/route-sitemap/internal/models"
)

const (
	// HomeKey is the rule key for the site root.
	HomeKey = ""
	// DefaultKey is the rule key used when nothing else matches.
	DefaultKey = "default"
)

// decimalPattern admits plain decimals only: no sign, exponent or hex form.
var decimalPattern = regexp.MustCompile(`^\d*\.?\d+$`)

var (
	ErrMissingDefault    = errors.New("route table has no default rule")
	ErrDuplicateKey      = errors.New("duplicate route key")
	ErrInvalidPriority   = errors.New("priority must be a decimal between 0.0 and 1.0")
	ErrInvalidChangeFreq = errors.New("invalid changefreq")
)

// Rule maps a route key (exact route or prefix) to its classification.
type Rule struct {
	Key        string `mapstructure:"key" json:"key"`
	Priority   string `mapstructure:"priority" json:"priority"`
	ChangeFreq string `mapstructure:"changefreq" json:"changefreq"`
}

type entry struct {
	key   string
	class models.Classification
}

// Table is an immutable, validated route table. Rule order is kept because
// the first matching prefix wins.
type Table struct {
	entries []entry
	exact   map[string]models.Classification
	home    models.Classification
	hasHome bool
	def     models.Classification
}

// DefaultRules returns the built-in table.
func DefaultRules() []Rule {
	return []Rule{
		{Key: HomeKey, Priority: "1.0", ChangeFreq: "daily"},
		{Key: "about", Priority: "0.7", ChangeFreq: "monthly"},
		{Key: "login", Priority: "0.6", ChangeFreq: "monthly"},
		{Key: "signup", Priority: "0.6", ChangeFreq: "monthly"},
		{Key: "forgot-password", Priority: "0.5", ChangeFreq: "monthly"},
		{Key: "terms", Priority: "0.5", ChangeFreq: "monthly"},
		{Key: "privacy", Priority: "0.5", ChangeFreq: "monthly"},
		{Key: DefaultKey, Priority: "0.5", ChangeFreq: "weekly"},
	}
}

// NewTable validates rules and builds a table from them.
func NewTable(rules []Rule) (*Table, error) {
	t := &Table{exact: make(map[string]models.Classification, len(rules))}
	hasDefault := false

	for _, r := range rules {
		key := strings.Trim(r.Key, "/")
		if _, dup := t.exact[key]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, key)
		}

		class, err := r.classification()
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", key, err)
		}

		t.exact[key] = class
		switch key {
		case HomeKey:
			t.home, t.hasHome = class, true
		case DefaultKey:
			t.def, hasDefault = class, true
		default:
			t.entries = append(t.entries, entry{key: key, class: class})
		}
	}

	if !hasDefault {
		return nil, ErrMissingDefault
	}
	if !t.hasHome {
		t.home = t.def
	}

	return t, nil
}

// Classify returns the classification for route. It never fails: routes
// that match no rule get the default.
func (t *Table) Classify(route string) models.Classification {
	if route == "" {
		return t.home
	}

	if class, ok := t.exact[route]; ok {
		return class
	}

	for _, e := range t.entries {
		if strings.HasPrefix(route, e.key) {
			return e.class
		}
	}

	return t.def
}

// Default returns the fallback classification.
func (t *Table) Default() models.Classification {
	return t.def
}

// Len is the number of rules in the table, home and default included.
func (t *Table) Len() int {
	return len(t.exact)
}

func (r Rule) classification() (models.Classification, error) {
	if !decimalPattern.MatchString(r.Priority) {
		return models.Classification{}, fmt.Errorf("%w: %q", ErrInvalidPriority, r.Priority)
	}
	p, err := strconv.ParseFloat(r.Priority, 64)
	if err != nil || p < 0 || p > 1 {
		return models.Classification{}, fmt.Errorf("%w: %q", ErrInvalidPriority, r.Priority)
	}

	freq := models.ChangeFreq(strings.ToLower(r.ChangeFreq))
	if !freq.Valid() {
		return models.Classification{}, fmt.Errorf("%w: %q", ErrInvalidChangeFreq, r.ChangeFreq)
	}

	return models.Classification{Priority: r.Priority, ChangeFreq: freq}, nil
}
