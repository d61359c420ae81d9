package resolve

// Message constants
const (
	MsgShort = "Compute the active rule set for one or more files"
	MsgLong  = `Resolve applies the configured selection, global ignores, and
per-file ignore patterns to each path and prints the rules that remain
active for it.

Paths are interpreted relative to the project root. Separators are
normalized, so both forward and backward slashes work.`

	MsgExample = `  # Rules active for a single file
  rulescope resolve app/main.py

  # Several files at once
  rulescope resolve app/main.py tests/test_api.py

  # Machine-readable output
  rulescope resolve --format json app/main.py`
)
