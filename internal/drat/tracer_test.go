package drat

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xDarkicex/parasat/solver"
)

func lits(xs ...int32) []solver.Lit {
	out := make([]solver.Lit, len(xs))
	for i, x := range xs {
		out[i] = solver.DimacsToLit(x)
	}
	return out
}

func TestTextTracerAddAndDelete(t *testing.T) {
	var buf bytes.Buffer
	tr := NewText(&buf)
	tr.AddClause(lits(1, -2))
	tr.DeleteClause(lits(1, -2))
	tr.AddEmpty()
	if err := tr.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	got := buf.String()
	if !strings.Contains(got, "1 -2 0\n") {
		t.Fatalf("missing add line in %q", got)
	}
	if !strings.Contains(got, "d 1 -2 0\n") {
		t.Fatalf("missing delete line in %q", got)
	}
	if !strings.HasSuffix(strings.TrimRight(got, "\n"), "0") {
		t.Fatalf("expected trailing empty-clause line in %q", got)
	}
}

func TestBinaryTracerFramesDeletionsDistinctly(t *testing.T) {
	var buf bytes.Buffer
	tr := NewBinary(&buf)
	tr.AddClause(lits(1))
	tr.DeleteClause(lits(1))
	if err := tr.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	data := buf.Bytes()
	if len(data) < 2 || data[0] != 'a' {
		t.Fatalf("expected addition record to start with 'a', got %v", data)
	}
	if !bytes.Contains(data, []byte{'d', 0x02, 0x00}) {
		t.Fatalf("expected a 'd'-tagged record for the deletion, got %v", data)
	}
}
