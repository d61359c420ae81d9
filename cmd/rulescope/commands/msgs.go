package commands

// Message constants for the root command
const (
	MsgRootShort = "Resolve which lint rules apply to which files"
	MsgRootLong  = `rulescope computes effective lint rule sets from a declarative
configuration: selected rule groups, globally ignored rules, and
per-file ignore patterns.

Given a configuration and a file path, rulescope answers two questions:
which rules are active for this file, and why is a particular rule
active or suppressed.`

	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig  = "Config file (default: rulescope.toml discovery)"
	MsgFlagFormat  = "Output format: auto, term, text, json, yaml"
)
