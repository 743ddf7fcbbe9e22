/*
Pbi starts an interactive Presburger-arithmetic session.

It reads a formula (from -f/--formula, from a file given with
-i/--input, or typed at an interactive prompt), compiles it to its
accepting automaton, and prints a sample of its satisfying solutions. An
optional -o/--out writes the automaton's DOT rendering to a file.

Usage:

	pbi [flags]

The flags are:

	-v, --version
	    Give the current version and then exit.

	-f, --formula TEXT
	    Compile the given formula immediately instead of prompting for one.

	-i, --input FILE
	    Read formula source (optionally macro-prefixed) from FILE instead of
	    stdin/prompt.

	-o, --out FILE
	    Write the compiled automaton's DOT rendering to FILE.

	-k, --count N
	    Maximum number of sample solutions to print (default 20).

	-d, --direct
	    Force reading directly from stdin instead of using GNU readline
	    based routines for the prompt even if launched in a tty.

Once a prompt is shown, each line is compiled and its solutions printed;
blank lines are skipped. Send EOF (Ctrl-D) to exit.
*/
package main

import (
	"fmt"
	"os"

	"github.com/dekarrin/rosed"
	"github.com/spf13/pflag"

	"github.com/dekarrin/presburger/internal/input"
	"github.com/dekarrin/presburger/internal/presburger"
	"github.com/dekarrin/presburger/internal/version"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitCompileError indicates a formula failed to compile.
	ExitCompileError

	// ExitInitError indicates an issue initializing the interpreter.
	ExitInitError
)

var (
	returnCode  = ExitSuccess
	flagVersion = pflag.BoolP("version", "v", false, "Gives the version info")
	formula     = pflag.StringP("formula", "f", "", "Compile the given formula immediately instead of prompting for one")
	inputFile   = pflag.StringP("input", "i", "", "Read formula source from FILE")
	outFile     = pflag.StringP("out", "o", "", "Write the compiled automaton's DOT rendering to FILE")
	count       = pflag.IntP("count", "k", 20, "Maximum number of sample solutions to print")
	forceDirect = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	switch {
	case *formula != "":
		if !compileAndReport(*formula) {
			returnCode = ExitCompileError
		}
	case *inputFile != "":
		data, err := os.ReadFile(*inputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
		if !compileAndReport(string(data)) {
			returnCode = ExitCompileError
		}
	default:
		if err := runPrompt(); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitInitError
		}
	}
}

func runPrompt() error {
	var reader input.FormulaReader
	if *forceDirect || !isTTY() {
		reader = input.NewDirectReader(os.Stdin)
	} else {
		rl, err := input.NewInteractiveReader("pbi> ")
		if err != nil {
			return err
		}
		reader = rl
	}
	defer reader.Close()

	for {
		line, err := reader.ReadFormula()
		if err != nil { // io.EOF
			return nil
		}
		compileAndReport(line)
	}
}

func isTTY() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// compileAndReport compiles text and prints its sample solutions and/or
// writes its DOT rendering. It returns false if compilation failed.
func compileAndReport(text string) bool {
	lab, err := presburger.BuildFromText(text)
	if err != nil {
		if pe, ok := err.(presburger.ParseError); ok {
			fmt.Fprintln(os.Stderr, pe.FullMessage())
		} else {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		}
		return false
	}

	sols := presburger.EnumerateSolutions(lab, *count, nil)
	fmt.Println(solutionTable(lab.Order, sols))

	if *outFile != "" {
		dot := presburger.ToDot(lab, nil)
		if err := os.WriteFile(*outFile, []byte(dot), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: could not write DOT file: %s\n", err.Error())
			return false
		}
		fmt.Printf("wrote automaton to %s\n", *outFile)
	}

	return true
}

func solutionTable(order presburger.VarOrder, sols []presburger.Solution) string {
	if len(sols) == 0 {
		return "(no solutions found within the sampled bound)"
	}

	data := [][]string{append([]string{}, []string(order)...)}
	for _, s := range sols {
		row := make([]string, len(order))
		for i, v := range order {
			row[i] = fmt.Sprintf("%d", s.VarInts[v])
		}
		data = append(data, row)
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, 80, rosed.Options{
			TableBorders: true,
		}).
		String()
}
