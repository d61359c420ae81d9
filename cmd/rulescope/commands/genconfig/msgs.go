package genconfig

// Message constants
const (
	MsgShort = "Generate a default configuration file"
	MsgLong  = `Output the builtin default configuration to stdout, or write it to
rulescope.toml in the current directory with -w. An existing file is
never overwritten.`

	MsgExample = `  rulescope gen-config           # Print to stdout
  rulescope gen-config -w        # Write ./rulescope.toml`
)
