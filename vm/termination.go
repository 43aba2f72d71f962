package vm

import "fmt"

// Termination is the reason a machine stopped executing.
// None of them are errors; they differ only in how execution ended.
type Termination byte

const (
	Running Termination = iota

	// InstructionsExhausted means the program counter left the program image.
	InstructionsExhausted
	// UndefinedOpcode means the opcode byte at the program counter was 0.
	UndefinedOpcode
	// MissingParameter means the image ended after an opcode byte.
	MissingParameter
	// Halted means the program executed RET.
	Halted
)

// String returns the diagnostic line printed when execution ends.
func (t Termination) String() string {
	switch t {
	case Running:
		return "Running"
	case InstructionsExhausted:
		return "There are no more instructions"
	case UndefinedOpcode:
		return "Undefined instruction"
	case MissingParameter:
		return "No parameter provided for instruction"
	case Halted:
		return "Virtual machine finished working"
	}
	return fmt.Sprintf("unknown termination (%d)", byte(t))
}

// HaltError is returned by Exec and Run if the machine cannot carry out
// the instruction at Addr.
type HaltError struct {
	HaltCode
	Op   Op
	Addr int
	Err  error // underlying cause, if any
}

func (e HaltError) Error() string {
	s := fmt.Sprintf("%s executing %s at %.2x", e.HaltCode, e.Op, e.Addr)
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e HaltError) Unwrap() error { return e.Err }

// HaltCode signifies the type of condition that halted execution.
type HaltCode byte

const (
	// BadRegister is reported by IN when its parameter does not name
	// one of the 16 registers.
	BadRegister HaltCode = 0x01
	// WriteFailed is reported by OUT when the output rejects a byte.
	WriteFailed HaltCode = 0x02
)

func (c HaltCode) String() string {
	if s, ok := map[HaltCode]string{
		BadRegister: "bad register",
		WriteFailed: "write failed",
	}[c]; ok {
		return s
	}
	return fmt.Sprintf("unknown (%.2x)", byte(c))
}
