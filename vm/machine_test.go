package vm

import (
	"bytes"
	"fmt"
	"testing"
)

// prog assembles instructions given as alternating opcode/parameter pairs.
func prog(ins ...byte) []byte { return ins }

func TestRun(t *testing.T) {
	for _, c := range []struct {
		name  string
		rom   []byte
		input []byte
		out   []byte
		term  Termination
	}{
		{
			name: "empty",
			term: InstructionsExhausted,
		},
		{
			name: "dangling opcode",
			rom:  prog(byte(INC)),
			term: MissingParameter,
		},
		{
			name: "zero opcode",
			rom:  prog(0x00),
			term: UndefinedOpcode,
		},
		{
			name: "zero filled image",
			rom:  append(prog(byte(MOVC), 1), make([]byte, 254)...),
			term: UndefinedOpcode,
		},
		{
			name: "runs off the end",
			rom:  prog(byte(INC), 0x00, byte(INC), 0x00),
			term: InstructionsExhausted,
		},
		{
			name:  "emit A",
			rom:   prog(0x04, 0x41, 0x11, 0x00, 0x0b, 0x00),
			input: []byte("ignored"),
			out:   []byte("A"),
			term:  Halted,
		},
		{
			name: "skip next instruction",
			rom: prog(
				byte(MOVC), 'a',
				byte(JMP), 4,
				byte(OUT), 0x00,
				byte(INC), 0x00,
				byte(OUT), 0x00,
				byte(RET), 0x00,
			),
			out:  []byte("b"),
			term: Halted,
		},
		{
			name: "count down",
			rom: prog(
				byte(MOVC), 3,
				byte(OUT), 0x00, // loop:
				byte(DEC), 0x00,
				byte(JNZ), rel(-4),
				byte(RET), 0x00,
			),
			out:  []byte{3, 2, 1},
			term: Halted,
		},
		{
			name: "jump to zero flag",
			rom: prog(
				byte(MOVC), 0,
				byte(JZ), 4,
				byte(OUT), 0x00,
				byte(RET), 0x00,
			),
			term: Halted,
		},
		{
			name: "jump clears flag",
			rom: prog(
				byte(MOVC), 0,
				byte(JZ), 2,
				byte(JZ), 4, // not taken, flag cleared by previous jump
				byte(RET), 0x00,
				byte(OUT), 0x00,
			),
			term: Halted,
		},
		{
			name: "copy input until exhausted",
			rom: prog(
				byte(IN), 0x01, // loop:
				byte(JFE), 6,
				byte(OUT), 0x01,
				byte(JMP), rel(-6),
				byte(RET), 0x00, // done:
			),
			input: []byte("hello"),
			out:   []byte("hello"),
			term:  Halted,
		},
		{
			name: "shift and combine",
			rom: prog(
				byte(MOVC), 0x0f,
				byte(MOV), 0x01, // r1 = r0
				byte(LSL), 0x01,
				byte(LSL), 0x01,
				byte(LSL), 0x01,
				byte(LSL), 0x01, // r1 = 0xf0
				byte(LSR), 0x00, // r0 = 0x07
				byte(OR), 0x01, // r1 = 0xf7
				byte(OUT), 0x01,
				byte(XOR), 0x11, // r1 = 0
				byte(JZ), 4,
				byte(OUT), 0x00,
				byte(RET), 0x00,
			),
			out:  []byte{0xf7},
			term: Halted,
		},
		{
			name: "unknown opcodes are no-ops",
			rom: prog(
				byte(MOVC), 'x',
				0x12, 0x00,
				0xff, 0xff,
				byte(OUT), 0x00,
				byte(RET), 0x00,
			),
			out:  []byte("x"),
			term: Halted,
		},
		{
			name: "jump before start",
			rom:  prog(byte(JMP), rel(-2)),
			term: InstructionsExhausted,
		},
		{
			name: "jump past end",
			rom:  prog(byte(JMP), 0x7f),
			term: InstructionsExhausted,
		},
		{
			name: "odd jump",
			rom:  prog(byte(JMP), 3, 0x00, byte(INC)),
			term: MissingParameter,
		},
	} {
		t.Run(c.name, func(t *testing.T) {
			var out bytes.Buffer
			m := NewMachine(c.rom, c.input)
			term, err := m.Run(&out)
			if err != nil {
				t.Fatalf("Run returned error: %v", err)
			}
			if term != c.term {
				t.Errorf("got termination %q, want %q", term, c.term)
			}
			if g, w := out.Bytes(), c.out; !bytes.Equal(g, w) {
				t.Errorf("output is %q, want %q", g, w)
			}
		})
	}
}

func TestRunEmitsConstant(t *testing.T) {
	for k := 0; k < 256; k++ {
		var out bytes.Buffer
		m := NewMachine(prog(byte(MOVC), byte(k), byte(OUT), 0x00, byte(RET), 0x00), nil)
		term, err := m.Run(&out)
		if err != nil || term != Halted {
			t.Fatalf("k=%d: got (%v, %v), want (%v, nil)", k, term, err, Halted)
		}
		if g := out.Bytes(); len(g) != 1 || g[0] != byte(k) {
			t.Errorf("k=%d: output is % x", k, g)
		}
	}
}

func TestInputExhaustedIsPermanent(t *testing.T) {
	m := NewMachine(prog(
		byte(IN), 0x00,
		byte(IN), 0x01,
		byte(IN), 0x02,
		byte(IN), 0x03,
		byte(RET), 0x00,
	), []byte{7, 8})
	var out bytes.Buffer
	for i, want := range []byte{0, 0, 1, 1} {
		if _, err := m.Exec(&out); err != nil {
			t.Fatal(err)
		}
		if m.InputExhausted != want {
			t.Errorf("after IN %d InputExhausted is %d, want %d", i, m.InputExhausted, want)
		}
	}
	if g, w := m.Reg[:4], []byte{7, 8, 0, 0}; !bytes.Equal(g, w) {
		t.Errorf("registers are % x, want % x", g, w)
	}
}

func TestRunBadRegister(t *testing.T) {
	m := NewMachine(prog(byte(IN), 0x10, byte(RET), 0x00), []byte{1})
	_, err := m.Run(&bytes.Buffer{})
	want := HaltError{HaltCode: BadRegister, Op: IN, Addr: 0}
	if err != want {
		t.Fatalf("got error %v, want %v", err, want)
	}
	if g, w := fmt.Sprint(err), "bad register executing IN at 00"; g != w {
		t.Errorf("error text %q, want %q", g, w)
	}
}

func TestTerminationString(t *testing.T) {
	for term, want := range map[Termination]string{
		InstructionsExhausted: "There are no more instructions",
		UndefinedOpcode:       "Undefined instruction",
		MissingParameter:      "No parameter provided for instruction",
		Halted:                "Virtual machine finished working",
	} {
		if g := term.String(); g != want {
			t.Errorf("Termination(%d).String() = %q, want %q", term, g, want)
		}
	}
}
