package policy

import (
	"sort"

	"github.com/rulescope/rulescope/pkg/catalog"
	"github.com/rulescope/rulescope/pkg/errors"
	"github.com/rulescope/rulescope/pkg/logging"
)

// Override is one path-scoped suppression entry: every rule or group in
// Ignore is additionally suppressed for files matching Pattern.
// Overrides only subtract; there is no re-enable operation.
type Override struct {
	Pattern string   `koanf:"pattern" yaml:"pattern" json:"pattern"`
	Ignore  []string `koanf:"ignore" yaml:"ignore" json:"ignore"`
}

// Status classifies why a rule is or is not active for a path
type Status int

const (
	// StatusNotSelected means the rule is not in the selected set at all
	StatusNotSelected Status = iota
	// StatusGloballyIgnored means a global ignore entry suppresses the rule
	StatusGloballyIgnored
	// StatusOverridden means a path override suppresses the rule
	StatusOverridden
	// StatusActive means the rule survives all subtractions
	StatusActive
)

// String returns the stable textual form used in diagnostics
func (s Status) String() string {
	switch s {
	case StatusNotSelected:
		return "not-selected"
	case StatusGloballyIgnored:
		return "globally-ignored"
	case StatusOverridden:
		return "overridden"
	case StatusActive:
		return "active"
	default:
		return "unknown"
	}
}

// Decision explains the resolution of one rule for one path
type Decision struct {
	Rule   string `yaml:"rule" json:"rule"`
	Status Status `yaml:"-" json:"-"`
	// StatusText mirrors Status for serialized output
	StatusText string `yaml:"status" json:"status"`
	// Pattern is the first matching override pattern when Status is
	// StatusOverridden, in override-list order.
	Pattern string `yaml:"pattern,omitempty" json:"pattern,omitempty"`
}

// compiledOverride pairs a compiled pattern with its expanded suppression set
type compiledOverride struct {
	pattern  *globPattern
	suppress map[string]struct{}
}

// Policy is the immutable result of Load. It is safe for concurrent use.
type Policy struct {
	cat       *catalog.Catalog
	selected  map[string]struct{} // expansion of the select list
	ignored   map[string]struct{} // expansion of the global ignore list
	base      []string            // selected minus ignored, catalog order
	baseSet   map[string]struct{}
	overrides []compiledOverride
}

// Load validates a lint configuration against a catalog and builds an
// immutable Policy. Validation is all-or-nothing: any unknown identifier
// or malformed pattern fails the whole load with a config error naming
// the offender.
func Load(selected, ignored []string, overrides []Override, cat *catalog.Catalog) (*Policy, error) {
	logger := logging.GetLogger("policy")

	if cat == nil {
		return nil, errors.New(errors.ErrInvalidInput, "catalog is required")
	}

	p := &Policy{cat: cat}

	var err error
	if p.selected, err = expandEntries(cat, selected, "lint.select"); err != nil {
		return nil, err
	}
	if p.ignored, err = expandEntries(cat, ignored, "lint.ignore"); err != nil {
		return nil, err
	}

	// The globally-filtered set never changes per path, so it is computed
	// once here. Ignore wins over select at the same scope.
	p.baseSet = make(map[string]struct{}, len(p.selected))
	for id := range p.selected {
		if _, ign := p.ignored[id]; !ign {
			p.baseSet[id] = struct{}{}
		}
	}
	p.base = sortedByCatalog(cat, p.baseSet)

	p.overrides = make([]compiledOverride, 0, len(overrides))
	for _, o := range overrides {
		g, err := compilePattern(o.Pattern)
		if err != nil {
			return nil, err
		}

		suppress, err := expandEntries(cat, o.Ignore, "lint.per-file-ignores["+o.Pattern+"]")
		if err != nil {
			return nil, err
		}

		p.overrides = append(p.overrides, compiledOverride{pattern: g, suppress: suppress})
	}

	logger.Debug().
		Int("selected", len(p.selected)).
		Int("ignored", len(p.ignored)).
		Int("overrides", len(p.overrides)).
		Int("base", len(p.base)).
		Msg("Loaded policy")

	return p, nil
}

// Resolve computes the effective rule set for one file path. The result
// is a fresh slice in stable catalog order; identical inputs always
// produce identical output.
func (p *Policy) Resolve(path string) []string {
	candidate := NormalizePath(path)

	var suppressed map[string]struct{}
	for _, o := range p.overrides {
		if !o.pattern.Match(candidate) {
			continue
		}
		if suppressed == nil {
			suppressed = make(map[string]struct{}, len(o.suppress))
		}
		// All matching overrides apply; their suppressions union.
		for id := range o.suppress {
			suppressed[id] = struct{}{}
		}
	}

	if len(suppressed) == 0 {
		out := make([]string, len(p.base))
		copy(out, p.base)
		return out
	}

	out := make([]string, 0, len(p.base))
	for _, id := range p.base {
		if _, drop := suppressed[id]; !drop {
			out = append(out, id)
		}
	}
	return out
}

// Active reports whether a single rule is active for a path
func (p *Policy) Active(path, rule string) bool {
	return p.Explain(path, rule).Status == StatusActive
}

// Explain reports why a rule is or is not active for a path. When several
// overrides suppress the same rule, the first matching one in
// override-list order is reported, keeping diagnostics stable.
func (p *Policy) Explain(path, rule string) Decision {
	d := Decision{Rule: rule}

	if _, ok := p.selected[rule]; !ok {
		d.Status = StatusNotSelected
		d.StatusText = d.Status.String()
		return d
	}

	if _, ok := p.ignored[rule]; ok {
		d.Status = StatusGloballyIgnored
		d.StatusText = d.Status.String()
		return d
	}

	candidate := NormalizePath(path)
	for _, o := range p.overrides {
		if _, drop := o.suppress[rule]; !drop {
			continue
		}
		if o.pattern.Match(candidate) {
			d.Status = StatusOverridden
			d.StatusText = d.Status.String()
			d.Pattern = o.pattern.String()
			return d
		}
	}

	d.Status = StatusActive
	d.StatusText = d.Status.String()
	return d
}

// Catalog returns the catalog the policy was loaded against
func (p *Policy) Catalog() *catalog.Catalog {
	return p.cat
}

// BaseRules returns the globally-filtered rule set, the result for any
// path no override matches.
func (p *Policy) BaseRules() []string {
	out := make([]string, len(p.base))
	copy(out, p.base)
	return out
}

// Overrides returns the loaded override patterns in list order
func (p *Policy) Overrides() []string {
	out := make([]string, 0, len(p.overrides))
	for _, o := range p.overrides {
		out = append(out, o.pattern.String())
	}
	return out
}

// expandEntries expands a group-or-rule identifier list into a rule set,
// failing on the first identifier the catalog does not know.
func expandEntries(cat *catalog.Catalog, entries []string, source string) (map[string]struct{}, error) {
	out := make(map[string]struct{}, len(entries))
	for _, id := range entries {
		members := cat.Expand(id)
		if members == nil {
			return nil, errors.Newf(errors.ErrUnknownRule,
				"unknown rule or group %q in %s", id, source).
				WithDetail("identifier", id).
				WithDetail("source", source)
		}
		for _, m := range members {
			out[m] = struct{}{}
		}
	}
	return out, nil
}

// sortedByCatalog orders a rule set by catalog position
func sortedByCatalog(cat *catalog.Catalog, set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		return cat.RuleIndex(out[i]) < cat.RuleIndex(out[j])
	})
	return out
}
