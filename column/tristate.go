package column

// Tristate is an optional boolean. Unset means "inherit" and is what lets a
// lower-priority source fill a flag without overriding an explicit choice.
type Tristate int8

const (
	Unset Tristate = iota
	False
	True
)

// TristateOf converts b to False or True.
func TristateOf(b bool) Tristate {
	if b {
		return True
	}

	return False
}

// IsSet reports whether t carries an explicit value.
func (t Tristate) IsSet() bool {
	return t != Unset
}

// IsTrue reports whether t is explicitly True.
func (t Tristate) IsTrue() bool {
	return t == True
}

// Or returns t when set, otherwise fallback.
func (t Tristate) Or(fallback bool) bool {
	if t == Unset {
		return fallback
	}

	return t == True
}

// String returns "unset", "false" or "true".
func (t Tristate) String() string {
	switch t {
	case False:
		return "false"
	case True:
		return "true"
	default:
		return "unset"
	}
}
