// Package catalog provides the rule catalog: the mapping from rule group
// codes to their member rule identifiers. The catalog is read-only input
// for policy resolution; rulescope ships an embedded default modeled on
// common Python linter groups, and users may supply their own.
package catalog

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/rulescope/rulescope/pkg/errors"
	"github.com/rulescope/rulescope/pkg/logging"
)

// Group is one named bundle of related rules
type Group struct {
	Code  string   `koanf:"code" toml:"code" yaml:"code" json:"code"`
	Label string   `koanf:"label" toml:"label" yaml:"label" json:"label"`
	Rules []string `koanf:"rules" toml:"rules" yaml:"rules" json:"rules"`
}

// Kind classifies an identifier looked up in the catalog
type Kind int

const (
	// KindUnknown means the identifier is neither a group code nor a rule id
	KindUnknown Kind = iota
	// KindGroup means the identifier is a group code
	KindGroup
	// KindRule means the identifier is a member rule id
	KindRule
)

// Catalog is an immutable group-to-rules lookup table
type Catalog struct {
	groups    []Group
	byCode    map[string]int // group code -> index into groups
	ruleGroup map[string]int // rule id -> index of owning group
	ruleOrder map[string]int // rule id -> position in catalog order
	rules     []string       // all rule ids in catalog order
}

// catalogDoc is the on-disk catalog file shape
type catalogDoc struct {
	Groups []Group `toml:"groups"`
}

// New builds and validates a catalog from an ordered group list
func New(groups []Group) (*Catalog, error) {
	c := &Catalog{
		groups:    groups,
		byCode:    make(map[string]int, len(groups)),
		ruleGroup: make(map[string]int),
		ruleOrder: make(map[string]int),
	}

	for i, g := range groups {
		if g.Code == "" {
			return nil, errors.Newf(errors.ErrCatalogValid, "group %d has empty code", i)
		}
		if _, dup := c.byCode[g.Code]; dup {
			return nil, errors.Newf(errors.ErrCatalogValid, "duplicate group code %q", g.Code)
		}
		if len(g.Rules) == 0 {
			return nil, errors.Newf(errors.ErrCatalogValid, "group %q has no rules", g.Code)
		}
		c.byCode[g.Code] = i

		for _, id := range g.Rules {
			if id == "" {
				return nil, errors.Newf(errors.ErrCatalogValid, "group %q contains an empty rule id", g.Code)
			}
			if prev, dup := c.ruleGroup[id]; dup {
				return nil, errors.Newf(errors.ErrCatalogValid,
					"rule %q listed under both %q and %q", id, groups[prev].Code, g.Code)
			}
			c.ruleGroup[id] = i
			c.ruleOrder[id] = len(c.rules)
			c.rules = append(c.rules, id)
		}
	}

	// A code that is both a group and a rule would make select/ignore
	// entries ambiguous.
	for code := range c.byCode {
		if _, clash := c.ruleGroup[code]; clash {
			return nil, errors.Newf(errors.ErrCatalogValid,
				"identifier %q is both a group code and a rule id", code)
		}
	}

	return c, nil
}

// LoadFile reads a catalog from a TOML file
func LoadFile(path string) (*Catalog, error) {
	logger := logging.GetLogger("catalog")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrCatalogLoad, "failed to read catalog %q", path)
	}

	var doc catalogDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, errors.ErrCatalogLoad, "failed to parse catalog %q", path)
	}

	c, err := New(doc.Groups)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("path", path).
		Int("groups", len(c.groups)).
		Int("rules", len(c.rules)).
		Msg("Loaded catalog")

	return c, nil
}

// Kind reports whether id is a group code, a rule id, or unknown
func (c *Catalog) Kind(id string) Kind {
	if _, ok := c.byCode[id]; ok {
		return KindGroup
	}
	if _, ok := c.ruleGroup[id]; ok {
		return KindRule
	}
	return KindUnknown
}

// Expand resolves an identifier to rule ids: a group code expands to its
// members, a rule id to itself. Unknown identifiers expand to nil.
func (c *Catalog) Expand(id string) []string {
	if i, ok := c.byCode[id]; ok {
		out := make([]string, len(c.groups[i].Rules))
		copy(out, c.groups[i].Rules)
		return out
	}
	if _, ok := c.ruleGroup[id]; ok {
		return []string{id}
	}
	return nil
}

// Groups returns all groups in catalog order
func (c *Catalog) Groups() []Group {
	out := make([]Group, len(c.groups))
	copy(out, c.groups)
	return out
}

// Group returns one group by code
func (c *Catalog) Group(code string) (Group, bool) {
	i, ok := c.byCode[code]
	if !ok {
		return Group{}, false
	}
	return c.groups[i], true
}

// GroupOf returns the code of the group owning a rule id
func (c *Catalog) GroupOf(rule string) (string, bool) {
	i, ok := c.ruleGroup[rule]
	if !ok {
		return "", false
	}
	return c.groups[i].Code, true
}

// Rules returns every rule id in catalog order
func (c *Catalog) Rules() []string {
	out := make([]string, len(c.rules))
	copy(out, c.rules)
	return out
}

// RuleIndex returns the stable catalog-order position of a rule id,
// used to keep resolved rule sets in a canonical order. Unknown ids
// sort last.
func (c *Catalog) RuleIndex(id string) int {
	if i, ok := c.ruleOrder[id]; ok {
		return i
	}
	return len(c.rules)
}

// Len returns the total number of rules in the catalog
func (c *Catalog) Len() int {
	return len(c.rules)
}
