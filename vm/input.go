package vm

// Input is a forward-only cursor over the bytes consumed by IN.
type Input struct {
	b   []byte
	pos int
}

// NewInput returns a cursor positioned at the first byte of b.
// The slice is not copied and must not be modified while in use.
func NewInput(b []byte) *Input { return &Input{b: b} }

// More reports whether a byte remains.
func (in *Input) More() bool { return in.pos < len(in.b) }

// Next consumes and returns the next byte, or reports false if the
// input is exhausted.
func (in *Input) Next() (byte, bool) {
	if !in.More() {
		return 0, false
	}
	b := in.b[in.pos]
	in.pos++
	return b, true
}
