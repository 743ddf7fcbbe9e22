// Package input reads formula source lines for the pbi REPL, either
// directly from a plain io.Reader or interactively via GNU-readline-style
// line editing and history.
package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// FormulaReader reads one formula at a time from some source.
type FormulaReader interface {
	// ReadFormula blocks until a non-blank line is read. At end of input it
	// returns "", io.EOF.
	ReadFormula() (string, error)
	Close() error
}

// DirectFormulaReader reads formulas from any io.Reader, with no line
// editing or history; suitable for piped input or redirected files.
//
// DirectFormulaReader should not be used directly; instead, create one with
// [NewDirectReader].
type DirectFormulaReader struct {
	r *bufio.Reader
}

// InteractiveFormulaReader reads formulas from stdin using a Go
// implementation of GNU Readline, giving the user command history and
// in-line editing. This should only be used when directly connected to a
// TTY.
//
// InteractiveFormulaReader should not be used directly; instead, create one
// with [NewInteractiveReader].
type InteractiveFormulaReader struct {
	rl     *readline.Instance
	prompt string
}

// NewDirectReader creates a DirectFormulaReader reading from r.
func NewDirectReader(r io.Reader) *DirectFormulaReader {
	return &DirectFormulaReader{r: bufio.NewReader(r)}
}

// NewInteractiveReader creates an InteractiveFormulaReader prompting with
// prompt. The returned reader must have Close called on it before disposal
// to properly tear down readline's terminal state.
func NewInteractiveReader(prompt string) (*InteractiveFormulaReader, error) {
	rl, err := readline.NewEx(&readline.Config{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}

	return &InteractiveFormulaReader{rl: rl, prompt: prompt}, nil
}

// Close is a no-op, present so DirectFormulaReader implements FormulaReader.
func (dfr *DirectFormulaReader) Close() error {
	return nil
}

// Close tears down the underlying readline instance's terminal state.
func (ifr *InteractiveFormulaReader) Close() error {
	return ifr.rl.Close()
}

// ReadFormula reads the next non-blank line from the underlying reader.
func (dfr *DirectFormulaReader) ReadFormula() (string, error) {
	var line string
	var err error

	for line == "" {
		line, err = dfr.r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line == "" && err == io.EOF {
			return "", io.EOF
		}
	}

	return line, nil
}

// ReadFormula reads the next non-blank line via readline, recording it in
// the session's line history.
func (ifr *InteractiveFormulaReader) ReadFormula() (string, error) {
	var line string
	var err error

	for line == "" {
		line, err = ifr.rl.Readline()
		if err != nil { // io.EOF or readline.ErrInterrupt
			return "", io.EOF
		}
		line = strings.TrimSpace(line)
	}

	return line, nil
}

// SetPrompt updates the prompt text.
func (ifr *InteractiveFormulaReader) SetPrompt(p string) {
	ifr.prompt = p
	ifr.rl.SetPrompt(p)
}
