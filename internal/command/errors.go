package command

import "fmt"

// ErrorKind classifies the user-facing errors a routine may return. Only these
// are converted into a reply at the dispatch boundary; anything else propagates.
type ErrorKind int

const (
	ParameterError ErrorKind = iota + 1 // wrong argument count or shape
	SyntaxError                         // malformed quoting
	CommandError                        // invalid argument value or target
)

func (k ErrorKind) prefix() string {
	switch k {
	case ParameterError:
		return "Parameter error"
	case SyntaxError:
		return "Syntax error"
	case CommandError:
		return "Command error"
	default:
		return "Error"
	}
}

func (k ErrorKind) String() string {
	switch k {
	case ParameterError:
		return "parameter"
	case SyntaxError:
		return "syntax"
	case CommandError:
		return "command"
	default:
		return "unknown"
	}
}

// Error is a user-facing routine failure.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string { return e.Kind.String() + " error: " + e.Msg }

// Reply renders the message sent back to the invoker.
func (e *Error) Reply(syntax string) string {
	return fmt.Sprintf("%s: %s. Syntax: %s", e.Kind.prefix(), e.Msg, syntax)
}

func paramErr(msg string) error   { return &Error{Kind: ParameterError, Msg: msg} }
func syntaxErr(msg string) error  { return &Error{Kind: SyntaxError, Msg: msg} }
func commandErr(msg string) error { return &Error{Kind: CommandError, Msg: msg} }
