package policy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulescope/rulescope/pkg/catalog"
	"github.com/rulescope/rulescope/pkg/errors"
	"github.com/rulescope/rulescope/pkg/policy"
)

// testCatalog matches the shape used throughout: E -> {E1,E2}, F -> {F1},
// S -> {S1,S2,S3}.
func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	c, err := catalog.New([]catalog.Group{
		{Code: "E", Label: "errors", Rules: []string{"E1", "E2"}},
		{Code: "F", Label: "flakes", Rules: []string{"F1"}},
		{Code: "S", Label: "security", Rules: []string{"S1", "S2", "S3"}},
	})
	require.NoError(t, err)
	return c
}

func TestResolveSelectedGroups(t *testing.T) {
	p, err := policy.Load([]string{"E", "F"}, nil, nil, testCatalog(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"E1", "E2", "F1"}, p.Resolve("a.py"))
}

func TestResolveWithOverride(t *testing.T) {
	overrides := []policy.Override{
		{Pattern: "**/tests/*.py", Ignore: []string{"F1"}},
	}

	p, err := policy.Load([]string{"E", "F"}, nil, overrides, testCatalog(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"E1", "E2"}, p.Resolve("app/tests/x.py"))
	assert.Equal(t, []string{"E1", "E2", "F1"}, p.Resolve("app/x.py"))
}

func TestGlobalIgnoreWinsOverSelect(t *testing.T) {
	p, err := policy.Load([]string{"E"}, []string{"E1"}, nil, testCatalog(t))
	require.NoError(t, err)

	for _, path := range []string{"a.py", "deep/tree/b.py", "tests/c.py"} {
		assert.Equal(t, []string{"E2"}, p.Resolve(path), "path %s", path)
	}
}

func TestEmptySelect(t *testing.T) {
	overrides := []policy.Override{
		{Pattern: "*.py", Ignore: []string{"E"}},
	}

	p, err := policy.Load(nil, nil, overrides, testCatalog(t))
	require.NoError(t, err)

	assert.Empty(t, p.Resolve("a.py"))
	assert.Empty(t, p.Resolve("app/tests/x.py"))
}

func TestSelectBareRule(t *testing.T) {
	p, err := policy.Load([]string{"E2", "F1"}, nil, nil, testCatalog(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"E2", "F1"}, p.Resolve("a.py"))
}

func TestIgnoreGroupEntry(t *testing.T) {
	p, err := policy.Load([]string{"E", "F", "S"}, []string{"S"}, nil, testCatalog(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"E1", "E2", "F1"}, p.Resolve("a.py"))
}

func TestOverrideGroupExpansion(t *testing.T) {
	overrides := []policy.Override{
		{Pattern: "tests/", Ignore: []string{"S"}},
	}

	p, err := policy.Load([]string{"E", "S"}, nil, overrides, testCatalog(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"E1", "E2"}, p.Resolve("tests/test_a.py"))
	assert.Equal(t, []string{"E1", "E2", "S1", "S2", "S3"}, p.Resolve("app/a.py"))
}

func TestOverridesAreCumulative(t *testing.T) {
	overrides := []policy.Override{
		{Pattern: "app/*.py", Ignore: []string{"E1"}},
		{Pattern: "*.py", Ignore: []string{"F1"}},
	}

	p, err := policy.Load([]string{"E", "F"}, nil, overrides, testCatalog(t))
	require.NoError(t, err)

	// Both overrides match app/x.py; suppressions union.
	assert.Equal(t, []string{"E2"}, p.Resolve("app/x.py"))
}

func TestOverrideOrderIsNoOp(t *testing.T) {
	a := []policy.Override{
		{Pattern: "app/*.py", Ignore: []string{"E1"}},
		{Pattern: "*.py", Ignore: []string{"F1"}},
		{Pattern: "tests/", Ignore: []string{"S"}},
	}
	b := []policy.Override{
		{Pattern: "tests/", Ignore: []string{"S"}},
		{Pattern: "*.py", Ignore: []string{"F1"}},
		{Pattern: "app/*.py", Ignore: []string{"E1"}},
	}

	cat := testCatalog(t)
	p1, err := policy.Load([]string{"E", "F", "S"}, nil, a, cat)
	require.NoError(t, err)
	p2, err := policy.Load([]string{"E", "F", "S"}, nil, b, cat)
	require.NoError(t, err)

	for _, path := range []string{"app/x.py", "tests/y.py", "z.py", "other/deep/w.py"} {
		assert.Equal(t, p1.Resolve(path), p2.Resolve(path), "path %s", path)
	}
}

func TestDuplicatePatternsUnion(t *testing.T) {
	overrides := []policy.Override{
		{Pattern: "*.py", Ignore: []string{"E1"}},
		{Pattern: "*.py", Ignore: []string{"F1"}},
	}

	p, err := policy.Load([]string{"E", "F"}, nil, overrides, testCatalog(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"E2"}, p.Resolve("a.py"))
}

func TestResolveDeterminism(t *testing.T) {
	overrides := []policy.Override{
		{Pattern: "**/tests/*.py", Ignore: []string{"S", "F1"}},
	}

	p, err := policy.Load([]string{"E", "F", "S"}, []string{"E1"}, overrides, testCatalog(t))
	require.NoError(t, err)

	first := p.Resolve("app/tests/x.py")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, p.Resolve("app/tests/x.py"))
	}
}

func TestResolveIsSubsetOfSelected(t *testing.T) {
	overrides := []policy.Override{
		{Pattern: "a/*.py", Ignore: []string{"E1"}},
	}

	p, err := policy.Load([]string{"E", "F"}, []string{"F1"}, overrides, testCatalog(t))
	require.NoError(t, err)

	selected := map[string]bool{"E1": true, "E2": true, "F1": true}
	for _, path := range []string{"a/x.py", "b/y.py", "z.py"} {
		for _, rule := range p.Resolve(path) {
			assert.True(t, selected[rule], "rule %s for %s escaped the selected set", rule, path)
		}
	}
}

func TestResolveNormalizesSeparators(t *testing.T) {
	overrides := []policy.Override{
		{Pattern: "**/tests/*.py", Ignore: []string{"F1"}},
	}

	p, err := policy.Load([]string{"E", "F"}, nil, overrides, testCatalog(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"E1", "E2"}, p.Resolve(`app\tests\x.py`))
	assert.Equal(t, []string{"E1", "E2"}, p.Resolve("./app/tests/x.py"))
}

func TestResolveReturnsFreshSlice(t *testing.T) {
	p, err := policy.Load([]string{"E"}, nil, nil, testCatalog(t))
	require.NoError(t, err)

	got := p.Resolve("a.py")
	got[0] = "mutated"
	assert.Equal(t, []string{"E1", "E2"}, p.Resolve("a.py"))
}

func TestLoadUnknownIdentifiers(t *testing.T) {
	cat := testCatalog(t)

	tests := []struct {
		name      string
		selected  []string
		ignored   []string
		overrides []policy.Override
		wantIn    string
	}{
		{
			name:     "unknown_in_select",
			selected: []string{"Z"},
			wantIn:   "Z",
		},
		{
			name:     "unknown_in_ignore",
			selected: []string{"E"},
			ignored:  []string{"Q9"},
			wantIn:   "Q9",
		},
		{
			name:     "unknown_in_override",
			selected: []string{"E"},
			overrides: []policy.Override{
				{Pattern: "*.py", Ignore: []string{"NOPE"}},
			},
			wantIn: "NOPE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := policy.Load(tt.selected, tt.ignored, tt.overrides, cat)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrUnknownRule), "got %v", err)
			assert.Contains(t, err.Error(), tt.wantIn, "error must name the offending identifier")
		})
	}
}

func TestLoadInvalidPattern(t *testing.T) {
	_, err := policy.Load([]string{"E"}, nil, []policy.Override{
		{Pattern: "   ", Ignore: []string{"E1"}},
	}, testCatalog(t))

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidPattern), "got %v", err)
}

func TestLoadNilCatalog(t *testing.T) {
	_, err := policy.Load([]string{"E"}, nil, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestExplain(t *testing.T) {
	overrides := []policy.Override{
		{Pattern: "**/tests/*.py", Ignore: []string{"F1"}},
		{Pattern: "*.py", Ignore: []string{"F1", "S1"}},
	}

	p, err := policy.Load([]string{"E", "F", "S"}, []string{"E1"}, overrides, testCatalog(t))
	require.NoError(t, err)

	tests := []struct {
		name        string
		path        string
		rule        string
		wantStatus  policy.Status
		wantPattern string
	}{
		{"active", "app/x.py", "E2", policy.StatusActive, ""},
		{"not_selected", "app/x.py", "E999", policy.StatusNotSelected, ""},
		{"globally_ignored", "app/x.py", "E1", policy.StatusGloballyIgnored, ""},
		// Both overrides suppress F1 for tests paths; the first in list
		// order must be reported.
		{"overridden_first_match", "app/tests/x.py", "F1", policy.StatusOverridden, "**/tests/*.py"},
		{"overridden_second_only", "app/x.py", "F1", policy.StatusOverridden, "*.py"},
		{"override_not_matching", "app/x.txt", "F1", policy.StatusActive, ""},
		{"s1_overridden", "app/x.py", "S1", policy.StatusOverridden, "*.py"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := p.Explain(tt.path, tt.rule)
			assert.Equal(t, tt.wantStatus, d.Status)
			assert.Equal(t, tt.wantStatus.String(), d.StatusText)
			assert.Equal(t, tt.wantPattern, d.Pattern)
			assert.Equal(t, tt.rule, d.Rule)
		})
	}
}

func TestExplainGlobalIgnoreBeatsOverride(t *testing.T) {
	overrides := []policy.Override{
		{Pattern: "*.py", Ignore: []string{"E1"}},
	}

	p, err := policy.Load([]string{"E"}, []string{"E1"}, overrides, testCatalog(t))
	require.NoError(t, err)

	d := p.Explain("a.py", "E1")
	assert.Equal(t, policy.StatusGloballyIgnored, d.Status)
}

func TestActive(t *testing.T) {
	overrides := []policy.Override{
		{Pattern: "tests/", Ignore: []string{"S"}},
	}

	p, err := policy.Load([]string{"E", "S"}, nil, overrides, testCatalog(t))
	require.NoError(t, err)

	assert.True(t, p.Active("app/a.py", "S1"))
	assert.False(t, p.Active("tests/a.py", "S1"))
	assert.True(t, p.Active("tests/a.py", "E1"))
	assert.False(t, p.Active("app/a.py", "Z"))
}

func TestBaseRulesAndOverrides(t *testing.T) {
	overrides := []policy.Override{
		{Pattern: "*.py", Ignore: []string{"F1"}},
		{Pattern: "tests/", Ignore: []string{"S"}},
	}

	p, err := policy.Load([]string{"E", "F", "S"}, []string{"S2"}, overrides, testCatalog(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"E1", "E2", "F1", "S1", "S3"}, p.BaseRules())
	assert.Equal(t, []string{"*.py", "tests/"}, p.Overrides())
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "not-selected", policy.StatusNotSelected.String())
	assert.Equal(t, "globally-ignored", policy.StatusGloballyIgnored.String())
	assert.Equal(t, "overridden", policy.StatusOverridden.String())
	assert.Equal(t, "active", policy.StatusActive.String())
}
