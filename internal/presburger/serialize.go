package presburger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dekarrin/rezi"

	"github.com/dekarrin/presburger/internal/automaton"
)

// Serialize renders lab in the line-based "@NFA-explicit" text format: a
// header, a "%Initial" line, a "%Final" line, then one "qS symbol qT" line
// per transition.
func Serialize(lab Labeled) string {
	var b strings.Builder
	b.WriteString("@NFA-explicit\n")
	b.WriteString("%Initial")
	for _, s := range lab.Initial() {
		b.WriteString(" ")
		b.WriteString(strconv.Itoa(int(s)))
	}
	b.WriteString("\n%Final")
	for _, s := range lab.Final() {
		b.WriteString(" ")
		b.WriteString(strconv.Itoa(int(s)))
	}
	b.WriteString("\n")
	for _, tr := range lab.AllTransitions() {
		b.WriteString(fmt.Sprintf("%d %d %d\n", tr.From, tr.Symbol, tr.To))
	}
	return b.String()
}

// Deserialize parses the "@NFA-explicit" text format into a Labeled
// automaton over the given variable order (width = len(order)).
func Deserialize(text string, order VarOrder) (Labeled, error) {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "@NFA-explicit" {
		return Labeled{}, ParseError{Message: "expected @NFA-explicit header"}
	}

	aut := automaton.New(len(order))
	lineNo := 1
	for _, line := range lines[1:] {
		lineNo++
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "%Initial"):
			ids, err := parseIDList(line, "%Initial", lineNo)
			if err != nil {
				return Labeled{}, err
			}
			for _, id := range ids {
				aut.SetInitial(automaton.State(id))
			}
		case strings.HasPrefix(line, "%Final"):
			ids, err := parseIDList(line, "%Final", lineNo)
			if err != nil {
				return Labeled{}, err
			}
			for _, id := range ids {
				aut.SetFinal(automaton.State(id), true)
			}
		default:
			fields := strings.Fields(line)
			if len(fields) != 3 {
				return Labeled{}, ParseError{Message: fmt.Sprintf("line %d: expected \"qS symbol qT\"", lineNo), Line: lineNo}
			}
			from, err1 := strconv.Atoi(fields[0])
			sym, err2 := strconv.Atoi(fields[1])
			to, err3 := strconv.Atoi(fields[2])
			if err1 != nil || err2 != nil || err3 != nil {
				return Labeled{}, ParseError{Message: fmt.Sprintf("line %d: malformed transition", lineNo), Line: lineNo}
			}
			aut.AddTransition(automaton.State(from), sym, automaton.State(to))
		}
	}

	return Labeled{Automaton: aut, Order: order}, nil
}

func parseIDList(line, prefix string, lineNo int) ([]int, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(line, prefix))
	if rest == "" {
		return nil, nil
	}
	fields := strings.Fields(rest)
	ids := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, ParseError{Message: fmt.Sprintf("line %d: expected state id, found %q", lineNo, f), Line: lineNo}
		}
		ids[i] = n
	}
	return ids, nil
}

// cacheRecord is the wire shape persisted by the automaton cache store
// (server/cache): the text serialization plus the variable order needed to
// reconstruct a Labeled automaton, encoded with rezi.
type cacheRecord struct {
	Text  string
	Order []string
}

// EncodeCache renders lab into the binary form the automaton cache store
// persists.
func EncodeCache(lab Labeled) []byte {
	rec := cacheRecord{Text: Serialize(lab), Order: []string(lab.Order)}
	return rezi.EncBinary(rec)
}

// DecodeCache is EncodeCache's inverse.
func DecodeCache(data []byte) (Labeled, error) {
	var rec cacheRecord
	n, err := rezi.DecBinary(data, &rec)
	if err != nil {
		return Labeled{}, InternalError{Message: "rezi decode of cached automaton: " + err.Error()}
	}
	if n != len(data) {
		return Labeled{}, InternalError{Message: "cached automaton record had trailing bytes"}
	}
	return Deserialize(rec.Text, VarOrder(rec.Order))
}
