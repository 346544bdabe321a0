package diag

// Code is the compiler's diagnostic identifier, e.g. "M0223".
type Code string

const (
	UnknownCode Code = ""

	// RedundantTypeInstantiation: explicit type arguments the compiler can infer.
	RedundantTypeInstantiation Code = "M0223"
	// DotNotationAvailable: `M.f(x, ...)` can be written as `x.f(...)`.
	DotNotationAvailable Code = "M0236"
	// RedundantImplicitArgument: an argument the compiler supplies implicitly.
	RedundantImplicitArgument Code = "M0237"
)

var codeDescription = map[Code]string{
	UnknownCode:                "unknown diagnostic",
	RedundantTypeInstantiation: "redundant explicit type instantiation",
	DotNotationAvailable:       "dot notation available",
	RedundantImplicitArgument:  "redundant explicit implicit argument",
}

// ID returns the code as printed by the compiler.
func (c Code) ID() string {
	return string(c)
}

// Title returns a short description for known codes.
func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return string(c)
}
