// Package policy implements effective lint-rule resolution: given a
// selected/ignored rule configuration with path-scoped overrides, it
// answers which rules are active for a given file and why.
//
// A Policy is built once with Load and is immutable afterwards; it may be
// shared across goroutines without synchronization. Resolve and Explain
// are pure functions of (policy, path) and never fail on any path string.
// All validation happens up front in Load.
//
// Override patterns use gitignore-style glob semantics: "*" matches
// within one path segment, "**" across segments, "?" one character, and
// "[...]" character classes. Patterns without a slash match the file's
// basename anywhere in the tree; a leading "/" anchors a pattern at the
// root, and a trailing "/" scopes it to everything under matching
// directories.
package policy
