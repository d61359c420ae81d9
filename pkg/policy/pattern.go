package policy

import (
	"regexp"
	"strings"

	"github.com/rulescope/rulescope/pkg/errors"
)

// globPattern is the compiled form of one override pattern. Compilation
// picks the cheapest strategy that preserves the documented semantics:
// exact comparison, then segment-wise wildcard matching, then a regexp
// fallback for "**" and character classes.
type globPattern struct {
	// raw is the original pattern source
	raw string
	// exact is set for patterns without glob meta
	exact string
	// segs is set for wildcard patterns without "**" or char classes
	segs []segment
	// re is the fallback matcher for everything else
	re *regexp.Regexp
	// anchored means the pattern starts with "/"
	anchored bool
	// dirOnly means the pattern ends with "/" and scopes a subtree
	dirOnly bool
	// hasSlash means the pattern matches full paths rather than basenames
	hasSlash bool
}

// segment is one precompiled slash-separated pattern segment
type segment struct {
	text     string
	wildcard bool
}

// compilePattern compiles one override pattern
func compilePattern(raw string) (*globPattern, error) {
	p := normalizePattern(raw)
	if p == "" {
		return nil, errors.New(errors.ErrInvalidPattern, "empty pattern")
	}

	g := &globPattern{
		raw:      raw,
		anchored: strings.HasPrefix(p, "/"),
		dirOnly:  strings.HasSuffix(p, "/"),
	}

	p = strings.Trim(p, "/")
	if p == "" {
		return nil, errors.Newf(errors.ErrInvalidPattern, "pattern %q is empty after normalization", raw)
	}

	// Anchored patterns always match from the root, even without an
	// explicit slash after trimming.
	g.hasSlash = strings.Contains(p, "/") || g.anchored

	switch {
	case !hasGlobMeta(p):
		g.exact = p
	case !strings.Contains(p, "**") && !hasCharClass(p):
		g.segs = splitSegments(p)
	default:
		re, err := compileGlobRegexp(p, g.anchored, g.dirOnly, g.hasSlash)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidPattern, "cannot compile pattern %q", raw)
		}
		g.re = re
	}

	return g, nil
}

// Match reports whether the compiled pattern matches a normalized,
// slash-separated relative file path.
func (g *globPattern) Match(candidate string) bool {
	if candidate == "" {
		return false
	}

	if !g.hasSlash {
		if g.dirOnly {
			return g.matchAnyDirComponent(candidate)
		}
		return g.matchComponent(pathBase(candidate))
	}

	switch {
	case g.exact != "":
		return g.matchExactPath(candidate)
	case len(g.segs) > 0:
		return g.matchSegments(candidate)
	default:
		return g.re != nil && g.re.MatchString(candidate)
	}
}

// String returns the original pattern source
func (g *globPattern) String() string {
	return g.raw
}

// matchComponent matches one path component against a slash-less pattern
func (g *globPattern) matchComponent(component string) bool {
	switch {
	case g.exact != "":
		return component == g.exact
	case len(g.segs) > 0:
		return matchWildcard(g.segs[0].text, component)
	default:
		return g.re != nil && g.re.MatchString(component)
	}
}

// matchAnyDirComponent matches dir-only basename patterns against every
// directory component of the candidate. The final component is the file
// itself and never counts as a directory.
func (g *globPattern) matchAnyDirComponent(candidate string) bool {
	start := 0
	for i := 0; i < len(candidate); i++ {
		if candidate[i] != '/' {
			continue
		}
		if i > start && g.matchComponent(candidate[start:i]) {
			return true
		}
		start = i + 1
	}
	return false
}

// matchExactPath matches slash-containing literal patterns without regexp
func (g *globPattern) matchExactPath(candidate string) bool {
	if g.anchored {
		if g.dirOnly {
			return strings.HasPrefix(candidate, g.exact+"/")
		}
		return candidate == g.exact
	}

	if g.dirOnly {
		return containsDirPath(g.exact, candidate)
	}

	return candidate == g.exact || strings.HasSuffix(candidate, "/"+g.exact)
}

// matchSegments matches wildcard patterns without "**" segment by segment
func (g *globPattern) matchSegments(candidate string) bool {
	if g.anchored {
		end, ok := matchSegmentsAt(g.segs, candidate, 0)
		if !ok {
			return false
		}
		if g.dirOnly {
			return end < len(candidate) && candidate[end] == '/'
		}
		return end == len(candidate)
	}

	// Unanchored slash patterns may match at any segment boundary,
	// emulating a "(^|.*/)" prefix.
	for start := 0; ; {
		end, ok := matchSegmentsAt(g.segs, candidate, start)
		if ok {
			if g.dirOnly {
				if end < len(candidate) && candidate[end] == '/' {
					return true
				}
			} else if end == len(candidate) {
				return true
			}
		}

		next := strings.IndexByte(candidate[start:], '/')
		if next < 0 {
			return false
		}
		start += next + 1
	}
}

// matchSegmentsAt matches all pattern segments starting at a candidate
// boundary index, returning the end position of the match.
func matchSegmentsAt(segs []segment, candidate string, start int) (int, bool) {
	if start >= len(candidate) {
		return 0, false
	}

	idx := start
	for i, seg := range segs {
		end := idx
		for end < len(candidate) && candidate[end] != '/' {
			end++
		}
		if end == idx {
			return 0, false
		}

		if seg.wildcard {
			if !matchWildcard(seg.text, candidate[idx:end]) {
				return 0, false
			}
		} else if candidate[idx:end] != seg.text {
			return 0, false
		}

		idx = end
		if i == len(segs)-1 {
			return idx, true
		}

		if idx >= len(candidate) || candidate[idx] != '/' {
			return 0, false
		}
		idx++
	}

	return idx, true
}

// matchWildcard matches a "*"/"?" pattern against one path segment using
// iterative backtracking.
func matchWildcard(pattern, input string) bool {
	pIdx, sIdx := 0, 0
	star, starInput := -1, 0

	for sIdx < len(input) {
		switch {
		case pIdx < len(pattern) && (pattern[pIdx] == '?' || pattern[pIdx] == input[sIdx]):
			pIdx++
			sIdx++
		case pIdx < len(pattern) && pattern[pIdx] == '*':
			star = pIdx
			pIdx++
			starInput = sIdx
		case star >= 0:
			// Mismatch after a star: let the star consume one more byte
			// and retry from the token after it.
			pIdx = star + 1
			starInput++
			sIdx = starInput
		default:
			return false
		}
	}

	for pIdx < len(pattern) && pattern[pIdx] == '*' {
		pIdx++
	}

	return pIdx == len(pattern)
}

// containsDirPath reports whether candidate has pattern as a directory
// path on a segment boundary with at least one following component.
func containsDirPath(pattern, candidate string) bool {
	for start := 0; start < len(candidate); {
		idx := strings.Index(candidate[start:], pattern)
		if idx < 0 {
			return false
		}

		idx += start
		after := idx + len(pattern)
		beforeOK := idx == 0 || candidate[idx-1] == '/'
		afterOK := after < len(candidate) && candidate[after] == '/'
		if beforeOK && afterOK {
			return true
		}

		start = idx + 1
	}
	return false
}

// splitSegments precompiles a slash pattern into per-segment matchers
func splitSegments(pattern string) []segment {
	parts := strings.Split(pattern, "/")
	segs := make([]segment, 0, len(parts))
	for _, part := range parts {
		segs = append(segs, segment{
			text:     part,
			wildcard: strings.ContainsAny(part, "*?"),
		})
	}
	return segs
}

// hasGlobMeta reports whether the pattern contains supported glob meta
func hasGlobMeta(pattern string) bool {
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '*', '?':
			return true
		case '[':
			if findClassEnd(pattern, i) >= 0 {
				return true
			}
		}
	}
	return false
}

// hasCharClass reports whether the pattern contains a valid "[...]" class
func hasCharClass(pattern string) bool {
	for i := 0; i < len(pattern); i++ {
		if pattern[i] == '[' && findClassEnd(pattern, i) >= 0 {
			return true
		}
	}
	return false
}

// findClassEnd locates the closing bracket of a glob char class
func findClassEnd(pattern string, start int) int {
	idx := start + 1
	if idx < len(pattern) && (pattern[idx] == '!' || pattern[idx] == '^') {
		idx++
	}
	// A leading "]" is a literal member of the class.
	if idx < len(pattern) && pattern[idx] == ']' {
		idx++
	}

	for ; idx < len(pattern); idx++ {
		if pattern[idx] == ']' {
			return idx
		}
	}
	return -1
}

// compileGlobRegexp builds the regexp fallback for patterns with "**" or
// character classes.
func compileGlobRegexp(pattern string, anchored, dirOnly, hasSlash bool) (*regexp.Regexp, error) {
	var b strings.Builder

	if hasSlash {
		if anchored {
			b.WriteString(`^`)
		} else {
			b.WriteString(`(?:^|.*/)`)
		}
	} else {
		b.WriteString(`^`)
	}

	for i := 0; i < len(pattern); i++ {
		// "**/" matches zero or more whole directories.
		if hasSlash && pattern[i] == '*' && i+2 < len(pattern) && pattern[i+1] == '*' && pattern[i+2] == '/' {
			b.WriteString(`(?:.*/)?`)
			i += 2
			continue
		}

		if pattern[i] == '[' {
			if end := findClassEnd(pattern, i); end >= 0 {
				writeClassRegexp(&b, pattern[i:end+1])
				i = end
				continue
			}
		}

		switch c := pattern[i]; c {
		case '*':
			if i+1 < len(pattern) && pattern[i+1] == '*' {
				i++
				if hasSlash {
					b.WriteString(`.*`)
				} else {
					// "**" collapses to "*" within a single component.
					b.WriteString(`[^/]*`)
				}
				continue
			}
			b.WriteString(`[^/]*`)
		case '?':
			b.WriteString(`[^/]`)
		case '.', '+', '(', ')', '|', '{', '}', '[', ']', '^', '$', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}

	if hasSlash && dirOnly {
		b.WriteString(`/.*$`)
	} else {
		b.WriteString(`$`)
	}

	return regexp.Compile(b.String())
}

// writeClassRegexp converts one glob char class (including brackets) to
// its regexp equivalent.
func writeClassRegexp(b *strings.Builder, class string) {
	b.WriteByte('[')

	inner := class[1 : len(class)-1]
	if strings.HasPrefix(inner, "!") {
		b.WriteByte('^')
		inner = inner[1:]
	} else if strings.HasPrefix(inner, "^") {
		b.WriteString(`\^`)
		inner = inner[1:]
	}

	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' {
			b.WriteString(`\\`)
			continue
		}
		b.WriteByte(inner[i])
	}

	b.WriteByte(']')
}
