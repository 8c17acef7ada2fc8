// Package dimacs reads the DIMACS CNF format the core solver consumes
// (spec §6 "DIMACS reader"): a `p cnf n m` header, `c` comment lines, and
// clauses of signed, 1-based, space/newline-separated literals terminated
// by 0.
package dimacs

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Problem is a parsed CNF instance: the variable/clause counts from the
// header, the clauses (already literal-normalized), and any `c --opt=value`
// embedded option tokens comment lines carried (used to let a benchmark
// corpus pin per-instance solver tunables without a separate sidecar file).
type Problem struct {
	NVars   int
	NClauses int
	// Clauses holds signed, 1-based literals; parse-time normalization has
	// already deduplicated repeats and dropped tautological clauses. An
	// empty clause appears only where the input itself has a bare "0".
	Clauses [][]int32
	Options map[string]string
}

// Read parses a full DIMACS CNF document from r.
func Read(r io.Reader) (*Problem, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	p := &Problem{Options: map[string]string{}}
	headerSeen := false
	lineNo := 0
	var pending []int32

	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if line[0] == 'c' {
			if opt, val, ok := parseOptionComment(line); ok {
				p.Options[opt] = val
			}
			continue
		}
		if line[0] == 'p' {
			if headerSeen {
				return nil, errors.Errorf("dimacs: line %d: duplicate problem header", lineNo)
			}
			var format string
			n, err := fmt.Sscanf(line, "p %s %d %d", &format, &p.NVars, &p.NClauses)
			if err != nil || n != 3 {
				return nil, errors.Wrapf(err, "dimacs: line %d: malformed header %q", lineNo, line)
			}
			if format != "cnf" {
				return nil, errors.Errorf("dimacs: line %d: unsupported format %q", lineNo, format)
			}
			headerSeen = true
			p.Clauses = make([][]int32, 0, p.NClauses)
			continue
		}
		if !headerSeen {
			return nil, errors.Errorf("dimacs: line %d: clause literal before problem header", lineNo)
		}
		if err := parseClauseLine(p, &pending, line, lineNo); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "dimacs: scanning input")
	}
	if !headerSeen {
		return nil, errors.New("dimacs: missing problem header")
	}
	return p, nil
}

// parseClauseLine accumulates one clause's literals into *pending, which
// persists across calls since a clause's terminating 0 may not land on
// its first line.
func parseClauseLine(p *Problem, pending *[]int32, line string, lineNo int) error {
	for _, tok := range strings.Fields(line) {
		x, err := strconv.ParseInt(tok, 10, 32)
		if err != nil {
			return errors.Wrapf(err, "dimacs: line %d: bad literal %q", lineNo, tok)
		}
		lit := int32(x)
		if lit == 0 {
			if norm, tautology := normalizeClause(*pending); !tautology {
				p.Clauses = append(p.Clauses, norm)
			}
			*pending = nil
			continue
		}
		if int(abs32(lit)) > p.NVars {
			return errors.Errorf("dimacs: line %d: literal %d exceeds declared variable count %d", lineNo, lit, p.NVars)
		}
		*pending = append(*pending, lit)
	}
	return nil
}

// normalizeClause deduplicates literals and detects a tautology (both x
// and -x present). A tautological clause contributes no constraint and is
// reported via the tautology bool so the caller drops it entirely rather
// than keeping an empty slot indistinguishable from a genuine empty
// clause (which does constrain the formula: it makes it UNSAT).
func normalizeClause(lits []int32) (out []int32, tautology bool) {
	seen := map[int32]bool{}
	out = make([]int32, 0, len(lits))
	for _, l := range lits {
		if seen[l] {
			continue
		}
		if seen[-l] {
			return nil, true
		}
		seen[l] = true
		out = append(out, l)
	}
	return out, false
}

func abs32(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}

// parseOptionComment recognizes `c --key=value` or `c --flag` lines,
// letting a benchmark corpus pin per-instance tunables (§6's embedded
// option tokens).
func parseOptionComment(line string) (key, value string, ok bool) {
	rest := strings.TrimSpace(line[1:])
	if !strings.HasPrefix(rest, "--") {
		return "", "", false
	}
	rest = rest[2:]
	if eq := strings.IndexByte(rest, '='); eq >= 0 {
		return rest[:eq], rest[eq+1:], true
	}
	return rest, "true", rest != ""
}
