package presburger

import (
	"regexp"
	"strconv"
	"strings"
)

// MacroDef is a single parameterized textual macro, "Name(p1,...,pk) = Body",
// declared at the top of an input.
type MacroDef struct {
	Name   string
	Params []string
	Body   string
	Line   int
}

var headerPattern = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9]*)\s*\(([^()]*)\)\s*=\s*(.+)$`)
var identPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`)

// ExpandMacros splits text into its leading macro-header block and trailing
// formula, validates every macro definition, and returns the formula text
// with every macro invocation textually expanded to its fully-inlined form,
// ready to hand to Parse.
//
// Each header line has the form "Name(p1,...,pk) = RHS". A body may invoke
// only macros defined earlier in the block; this, plus the requirement that
// RHS's free variables equal exactly the declared parameter set, is checked
// before any invocation is expanded.
func ExpandMacros(text string) (string, error) {
	lines := strings.Split(text, "\n")

	var defs []MacroDef
	bodyStart := 0
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			bodyStart = i + 1
			continue
		}
		m := headerPattern.FindStringSubmatch(line)
		if m == nil {
			bodyStart = i
			break
		}
		bodyStart = i + 1

		name := m[1]
		params := splitTopLevel(m[2], ',')
		for k := range params {
			params[k] = strings.TrimSpace(params[k])
		}
		if len(params) == 1 && params[0] == "" {
			params = nil
		}
		def := MacroDef{Name: name, Params: params, Body: strings.TrimSpace(m[3]), Line: i + 1}
		if err := validateMacroDef(def, defs); err != nil {
			return "", err
		}
		defs = append(defs, def)
	}

	known := map[string]MacroDef{}
	for _, d := range defs {
		known[d.Name] = d
	}

	formulaText := strings.TrimSpace(strings.Join(lines[bodyStart:], "\n"))
	return expandCalls(formulaText, known)
}

func validateMacroDef(def MacroDef, earlier []MacroDef) error {
	if IsReservedWord(def.Name) {
		return MacroError{Macro: def.Name, Message: "macro name collides with a reserved operator or quantifier"}
	}
	seenParam := map[string]bool{}
	for _, p := range def.Params {
		if !identPattern.MatchString(p) {
			return MacroError{Macro: def.Name, Message: "invalid parameter name " + strconv.Quote(p)}
		}
		if IsReservedWord(p) {
			return MacroError{Macro: def.Name, Message: "parameter " + strconv.Quote(p) + " collides with a reserved operator or quantifier"}
		}
		if seenParam[p] {
			return MacroError{Macro: def.Name, Message: "duplicate parameter " + strconv.Quote(p)}
		}
		seenParam[p] = true
	}
	for _, d := range earlier {
		if d.Name == def.Name {
			return MacroError{Macro: def.Name, Message: "macro redefined"}
		}
	}

	known := map[string]MacroDef{}
	for _, d := range earlier {
		known[d.Name] = d
	}
	expanded, err := expandCalls(def.Body, known)
	if err != nil {
		if me, ok := err.(MacroError); ok && me.Macro == "" {
			me.Macro = def.Name
			return me
		}
		return err
	}

	f, err := Parse(expanded)
	if err != nil {
		return MacroError{Macro: def.Name, Message: "body does not parse as a formula: " + err.Error()}
	}
	free := FreeVars(f)

	wantSet := map[string]bool{}
	for _, p := range def.Params {
		wantSet[p] = true
	}
	gotSet := map[string]bool{}
	for _, v := range free {
		gotSet[v] = true
	}
	if !setsEqual(wantSet, gotSet) {
		return MacroError{
			Macro: def.Name,
			Message: "free variables of body (" + joinVars(free) + ") do not match declared parameters (" +
				joinVars(def.Params) + ")",
		}
	}
	return nil
}

func setsEqual(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

// expandCalls recursively replaces every invocation of a macro in known with
// its body, with arguments substituted positionally and the whole expansion
// wrapped in one pair of parentheses.
func expandCalls(text string, known map[string]MacroDef) (string, error) {
	var out strings.Builder
	i := 0
	for i < len(text) {
		name, nameEnd, ok := matchIdentAt(text, i)
		if !ok {
			out.WriteByte(text[i])
			i++
			continue
		}
		j := nameEnd
		for j < len(text) && (text[j] == ' ' || text[j] == '\t') {
			j++
		}
		if j >= len(text) || text[j] != '(' {
			out.WriteString(name)
			i = nameEnd
			continue
		}
		closeIdx, err := matchingParen(text, j)
		if err != nil {
			return "", err
		}
		def, isMacro := known[name]
		if !isMacro {
			if IsReservedWord(name) {
				out.WriteString(name)
				i = nameEnd
				continue
			}
			return "", MacroError{Message: "call to undefined macro " + strconv.Quote(name) +
				" (only macros defined earlier in the header block may be invoked)"}
		}
		argText := text[j+1 : closeIdx]
		rawArgs := splitTopLevel(argText, ',')
		if len(rawArgs) == 1 && strings.TrimSpace(rawArgs[0]) == "" {
			rawArgs = nil
		}
		if len(rawArgs) != len(def.Params) {
			return "", MacroError{Macro: name, Message: "expected " + strconv.Itoa(len(def.Params)) +
				" argument(s), got " + strconv.Itoa(len(rawArgs))}
		}

		expandedArgs := make([]string, len(rawArgs))
		for k, a := range rawArgs {
			ea, err := expandCalls(strings.TrimSpace(a), known)
			if err != nil {
				return "", err
			}
			expandedArgs[k] = ea
		}

		substituted := substituteParams(def.Body, def.Params, expandedArgs)
		reExpanded, err := expandCalls(substituted, known)
		if err != nil {
			return "", err
		}
		out.WriteString("(")
		out.WriteString(reExpanded)
		out.WriteString(")")
		i = closeIdx + 1
	}
	return out.String(), nil
}

func substituteParams(body string, params, args []string) string {
	if len(params) == 0 {
		return body
	}
	var out strings.Builder
	i := 0
	for i < len(body) {
		name, end, ok := matchIdentAt(body, i)
		if !ok {
			out.WriteByte(body[i])
			i++
			continue
		}
		replaced := false
		for k, p := range params {
			if p == name {
				out.WriteString(args[k])
				replaced = true
				break
			}
		}
		if !replaced {
			out.WriteString(name)
		}
		i = end
	}
	return out.String()
}

// matchIdentAt reports whether an identifier (letter followed by
// letters/digits) starts at byte offset i in s, returning it and the byte
// offset just past it.
func matchIdentAt(s string, i int) (string, int, bool) {
	c := s[i]
	if !isLetter(c) {
		return "", i, false
	}
	j := i + 1
	for j < len(s) && (isLetter(s[j]) || isDigit(s[j])) {
		j++
	}
	return s[i:j], j, true
}

func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }

// matchingParen returns the index of the ')' matching the '(' at open.
func matchingParen(s string, open int) (int, error) {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return -1, MacroError{Message: "unbalanced parentheses in macro invocation"}
}

// splitTopLevel splits s on sep, ignoring occurrences nested inside
// parentheses.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}
