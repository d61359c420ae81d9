package docs

// Message constants
const (
	MsgShort = "Browse builtin documentation topics"
	MsgLong  = `Docs renders the builtin documentation in the terminal. Without
arguments it lists the available topics.`

	MsgExample = `  rulescope docs
  rulescope docs configuration
  rulescope docs patterns`
)
