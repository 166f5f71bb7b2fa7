package vm

// ErrorCode is a MOO error value such as E_TYPE or E_RANGE.
type ErrorCode int64

const (
	E_NONE ErrorCode = iota
	E_TYPE
	E_DIV
	E_PERM
	E_PROPNF
	E_VERBNF
	E_VARNF
	E_INVIND
	E_RECMOVE
	E_MAXREC
	E_RANGE
	E_ARGS
	E_NACC
	E_INVARG
	E_QUOTA
	E_FLOAT
	E_FILE
	E_EXEC
	E_INTRPT
)

type errorInfo struct {
	name    string
	message string
}

var errorTable = [...]errorInfo{
	E_NONE:    {"E_NONE", "No error"},
	E_TYPE:    {"E_TYPE", "Type mismatch"},
	E_DIV:     {"E_DIV", "Division by zero"},
	E_PERM:    {"E_PERM", "Permission denied"},
	E_PROPNF:  {"E_PROPNF", "Property not found"},
	E_VERBNF:  {"E_VERBNF", "Verb not found"},
	E_VARNF:   {"E_VARNF", "Variable not found"},
	E_INVIND:  {"E_INVIND", "Invalid indirection"},
	E_RECMOVE: {"E_RECMOVE", "Recursive move"},
	E_MAXREC:  {"E_MAXREC", "Too many verb calls"},
	E_RANGE:   {"E_RANGE", "Range error"},
	E_ARGS:    {"E_ARGS", "Incorrect number of arguments"},
	E_NACC:    {"E_NACC", "Move refused by destination"},
	E_INVARG:  {"E_INVARG", "Invalid argument"},
	E_QUOTA:   {"E_QUOTA", "Resource limit exceeded"},
	E_FLOAT:   {"E_FLOAT", "Floating-point arithmetic error"},
	E_FILE:    {"E_FILE", "File system error"},
	E_EXEC:    {"E_EXEC", "Exec error"},
	E_INTRPT:  {"E_INTRPT", "Interrupted"},
}

// Valid reports whether e is a known error code.
func (e ErrorCode) Valid() bool {
	return e >= 0 && int(e) < len(errorTable)
}

// Name returns the literal name of the error, e.g. "E_RANGE".
func (e ErrorCode) Name() string {
	if !e.Valid() {
		return "E_?"
	}
	return errorTable[e].name
}

// Message returns the human-readable description, e.g. "Range error".
func (e ErrorCode) Message() string {
	if !e.Valid() {
		return "Unknown error"
	}
	return errorTable[e].message
}

func (e ErrorCode) String() string { return e.Name() }

// ErrorByName looks up an error code by its literal name.
func ErrorByName(name string) (ErrorCode, bool) {
	for i, info := range errorTable {
		if info.name == name {
			return ErrorCode(i), true
		}
	}
	return E_NONE, false
}
