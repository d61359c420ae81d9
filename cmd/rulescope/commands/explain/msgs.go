package explain

// Message constants
const (
	MsgShort = "Explain why a rule is active or suppressed for a file"
	MsgLong  = `Explain reports the status of a single rule for a single file:

  active            the rule applies to the file
  not-selected      the rule is not part of the configured selection
  globally-ignored  the rule is suppressed for every file
  overridden        a per-file pattern suppresses the rule; the first
                    matching pattern is reported`

	MsgExample = `  rulescope explain app/main.py E501
  rulescope explain tests/test_api.py F401
  rulescope explain --format json migrations/0001_init.py E101`
)
