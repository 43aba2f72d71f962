// Package vm provides Machine, a 16-register CPU that executes fixed-width
// two-byte instructions from a 256-byte program image.
package vm

import "io"

// Machine holds the complete state of one program execution.
type Machine struct {
	Reg  [16]byte
	Mem  [256]byte
	PC   int
	Flag byte // 1 if the last register written was zero

	// InputExhausted is set to 1 by the first IN that finds no input
	// and is never cleared.
	InputExhausted byte

	size int // bytes of Mem holding the program image
	in   *Input
	out  [1]byte
}

// NewMachine returns a Machine with rom loaded at address 0 and input
// available to IN. Only the first 256 bytes of rom are used, and fetches
// beyond len(rom) report InstructionsExhausted or MissingParameter.
// Callers wanting a zero-filled image should pass a full 256 byte rom.
func NewMachine(rom, input []byte) *Machine {
	m := &Machine{in: NewInput(input)}
	m.size = copy(m.Mem[:], rom)
	return m
}

// Run executes instructions until the machine terminates, writing the bytes
// emitted by OUT to w. It only returns a non-nil error if an instruction
// cannot be carried out, in which case the Termination is Running.
func (m *Machine) Run(w io.Writer) (Termination, error) {
	for {
		t, err := m.Exec(w)
		if err != nil || t != Running {
			return t, err
		}
	}
}

// Exec executes the instruction at m.PC. It returns Running if execution
// may continue, and otherwise the reason it stopped.
func (m *Machine) Exec(w io.Writer) (Termination, error) {
	if m.PC < 0 || m.PC >= m.size {
		return InstructionsExhausted, nil
	}
	op := Op(m.Mem[m.PC])
	if op == 0 {
		return UndefinedOpcode, nil
	}
	if m.PC+1 >= m.size {
		return MissingParameter, nil
	}
	var (
		param = m.Mem[m.PC+1]
		addr  = m.PC
		rx    = param & 0xf
		ry    = param >> 4 & 0xf
	)
	m.PC += 2

	switch op {
	case INC:
		m.Reg[rx]++
	case DEC:
		m.Reg[rx]--
	case MOV:
		m.Reg[rx] = m.Reg[ry]
	case MOVC:
		m.Reg[0] = param
	case LSL:
		m.Reg[rx] <<= 1
	case LSR:
		m.Reg[rx] >>= 1
	case JMP:
		m.jump(addr, param)
	case JZ:
		if m.Flag == 1 {
			m.jump(addr, param)
		}
	case JNZ:
		if m.Flag == 0 {
			m.jump(addr, param)
		}
	case JFE:
		if m.InputExhausted == 1 {
			m.jump(addr, param)
		}
	case RET:
		m.Flag = 0
		return Halted, nil
	case ADD:
		m.Reg[rx] += m.Reg[ry]
	case SUB:
		m.Reg[rx] -= m.Reg[ry]
	case XOR:
		m.Reg[rx] ^= m.Reg[ry]
	case OR:
		m.Reg[rx] |= m.Reg[ry]
	case IN:
		// Unlike every other opcode, IN names its register with the
		// whole parameter byte.
		if !m.in.More() {
			m.InputExhausted = 1
		} else if int(param) >= len(m.Reg) {
			return Running, HaltError{HaltCode: BadRegister, Op: op, Addr: addr}
		} else {
			m.Reg[param], _ = m.in.Next()
		}
	case OUT:
		m.out[0] = m.Reg[rx]
		if _, err := w.Write(m.out[:]); err != nil {
			return Running, HaltError{HaltCode: WriteFailed, Op: op, Addr: addr, Err: err}
		}
	}

	m.Flag = 0
	if op.WritesRegister() {
		r := rx
		if op == MOVC {
			r = 0
		}
		if m.Reg[r] == 0 {
			m.Flag = 1
		}
	}
	return Running, nil
}

// jump moves the program counter relative to the jump instruction at addr.
// Parameters above 127 are negative displacements.
func (m *Machine) jump(addr int, param byte) {
	m.PC = addr + int(int8(param))
}
