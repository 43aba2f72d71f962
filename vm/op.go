package vm

import "fmt"

// Op represents an opcode, the first byte of every instruction.
type Op byte

const (
	INC  Op = 0x01
	DEC  Op = 0x02
	MOV  Op = 0x03
	MOVC Op = 0x04
	LSL  Op = 0x05
	LSR  Op = 0x06
	JMP  Op = 0x07
	JZ   Op = 0x08
	JNZ  Op = 0x09
	JFE  Op = 0x0a
	RET  Op = 0x0b
	ADD  Op = 0x0c
	SUB  Op = 0x0d
	XOR  Op = 0x0e
	OR   Op = 0x0f
	IN   Op = 0x10
	OUT  Op = 0x11
)

var opNames = [...]string{
	INC:  "INC",
	DEC:  "DEC",
	MOV:  "MOV",
	MOVC: "MOVC",
	LSL:  "LSL",
	LSR:  "LSR",
	JMP:  "JMP",
	JZ:   "JZ",
	JNZ:  "JNZ",
	JFE:  "JFE",
	RET:  "RET",
	ADD:  "ADD",
	SUB:  "SUB",
	XOR:  "XOR",
	OR:   "OR",
	IN:   "IN",
	OUT:  "OUT",
}

func (op Op) String() string {
	if int(op) < len(opNames) && opNames[op] != "" {
		return opNames[op]
	}
	return fmt.Sprintf("???(%.2x)", byte(op))
}

// WritesRegister reports whether the flag is recomputed from the register
// written by op. Every other opcode clears the flag.
func (op Op) WritesRegister() bool {
	switch op {
	case INC, DEC, MOV, MOVC, LSL, LSR, ADD, SUB, XOR, OR:
		return true
	}
	return false
}

