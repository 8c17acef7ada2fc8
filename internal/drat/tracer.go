// Package drat implements the solver.DRATTracer sink in both the binary
// and text DRAT proof formats (spec §6 "DRAT tracer").
package drat

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/xDarkicex/parasat/solver"
)

// Tracer writes DRAT lines to an underlying writer, either in the
// human-readable text format or the compact binary format used by
// drat-trim and similar checkers.
type Tracer struct {
	w      *bufio.Writer
	binary bool
}

// NewText builds a text-format tracer.
func NewText(w io.Writer) *Tracer { return &Tracer{w: bufio.NewWriter(w)} }

// NewBinary builds a binary-format tracer.
func NewBinary(w io.Writer) *Tracer { return &Tracer{w: bufio.NewWriter(w), binary: true} }

// AddClause records a clause addition (an unprefixed line in the text
// format, a record tagged with the 'a' byte in binary). Satisfies
// solver.DRATTracer.
func (t *Tracer) AddClause(lits []solver.Lit) {
	dimacs := toDimacsSlice(lits)
	if t.binary {
		t.writeBinary(0, dimacs)
		return
	}
	t.writeText("", dimacs)
}

// DeleteClause records a clause deletion ("d" lines).
func (t *Tracer) DeleteClause(lits []solver.Lit) {
	dimacs := toDimacsSlice(lits)
	if t.binary {
		t.writeBinary('d', dimacs)
		return
	}
	t.writeText("d", dimacs)
}

// AddEmpty records the terminal empty-clause addition that closes an
// UNSAT proof.
func (t *Tracer) AddEmpty() {
	t.AddClause(nil)
}

func toDimacsSlice(lits []solver.Lit) []int32 {
	out := make([]int32, len(lits))
	for i, l := range lits {
		out[i] = l.ToDimacs()
	}
	return out
}

func (t *Tracer) writeText(prefix string, lits []int32) {
	if prefix != "" {
		fmt.Fprint(t.w, prefix, " ")
	}
	for _, l := range lits {
		fmt.Fprintf(t.w, "%d ", l)
	}
	fmt.Fprintln(t.w, "0")
}

// writeBinary emits one DRAT binary record: a single tag byte ('d' for a
// deletion, 'a' for an addition), then each literal zig-zag varint encoded
// ((lit<<1)|sign-style shift used by the binary DRAT spec, distinct from
// the solver's own Lit packing), then a zero byte.
func (t *Tracer) writeBinary(tag byte, lits []int32) {
	if tag != 0 {
		t.w.WriteByte(tag)
	} else {
		t.w.WriteByte('a')
	}
	for _, l := range lits {
		writeVarint(t.w, encodeBinaryLit(l))
	}
	t.w.WriteByte(0)
}

func encodeBinaryLit(l int32) uint32 {
	if l < 0 {
		return uint32(-l)<<1 | 1
	}
	return uint32(l) << 1
}

func writeVarint(w *bufio.Writer, v uint32) {
	for v >= 0x80 {
		w.WriteByte(byte(v) | 0x80)
		v >>= 7
	}
	w.WriteByte(byte(v))
}

// Flush pushes any buffered proof output to the underlying writer.
func (t *Tracer) Flush() error {
	if err := t.w.Flush(); err != nil {
		return errors.Wrap(err, "drat: flush")
	}
	return nil
}
