package rules

// Message constants
const (
	MsgShort = "List rule groups, or the rules in one group"
	MsgLong  = `Without arguments, rules lists every rule group in the builtin
catalog with its label and rule count. With a group code it lists the
individual rules in that group.`

	MsgExample = `  # All groups
  rulescope rules

  # Rules in the pycodestyle error group
  rulescope rules E

  # Group as JSON
  rulescope rules --format json F`
)
