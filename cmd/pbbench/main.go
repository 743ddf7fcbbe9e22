/*
Pbbench runs a batch of Presburger formulas through the build and
solution-enumeration pipeline, under a per-formula timeout, and prints a
pass/fail/timeout summary table. It is the Go rendering of the original
project's benchmark_formulas.py and run_tests.py scripts.

Usage:

	pbbench [flags] FORMULA_FILE

FORMULA_FILE is a text file with one formula per line. Blank lines and
lines starting with "#" are skipped. A line may end with a trailing
"# expect=N" comment giving the expected number of solutions within the
sampled bound (see --count); if present, pbbench marks the line
"fail (expected N)" when the actual count differs.

The flags are:

	-v, --version
	    Give the current version and then exit.

	-t, --timeout DURATION
	    Per-formula wall-clock timeout (default 5s).

	-k, --count N
	    Maximum number of sample solutions enumerated per formula
	    (default 20).
*/
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dekarrin/rosed"
	"github.com/spf13/pflag"

	"github.com/dekarrin/presburger/internal/presburger"
	"github.com/dekarrin/presburger/internal/version"
	"github.com/dekarrin/presburger/internal/worker"
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version and then exit.")
	flagTimeout = pflag.DurationP("timeout", "t", 5*time.Second, "Per-formula wall-clock timeout.")
	flagCount   = pflag.IntP("count", "k", 20, "Maximum number of sample solutions enumerated per formula.")
)

type formulaCase struct {
	line     int
	text     string
	expected int // -1 if no "# expect=N" comment was present
}

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	args := pflag.Args()
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "usage: pbbench [flags] FORMULA_FILE\n")
		os.Exit(1)
	}

	cases, err := readFormulaCases(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		os.Exit(1)
	}

	subs := make([]worker.Submission, len(cases))
	for i, c := range cases {
		c := c
		subs[i] = worker.Submission{
			Name:    fmt.Sprintf("line %d", c.line),
			Timeout: *flagTimeout,
			Job: func(ctx context.Context) (interface{}, error) {
				lab, err := presburger.BuildFromText(c.text)
				if err != nil {
					return nil, err
				}
				sols := presburger.EnumerateSolutions(lab, *flagCount, nil)
				return len(sols), nil
			},
		}
	}

	results := worker.RunAll(context.Background(), subs)

	failures := 0
	table := [][]string{{"line", "formula", "status", "solutions", "duration"}}
	for i, res := range results {
		c := cases[i]
		status := res.Status.String()
		solCount := "-"
		if res.Status == worker.StatusOK {
			n := res.Value.(int)
			solCount = strconv.Itoa(n)
			if c.expected >= 0 && n != c.expected {
				status = "fail (expected " + strconv.Itoa(c.expected) + ")"
			}
		}
		if status != "ok" {
			failures++
		}
		table = append(table, []string{
			strconv.Itoa(c.line), c.text, status, solCount, res.Duration.Round(time.Millisecond).String(),
		})
	}

	fmt.Println(rosed.Edit("").
		InsertTableOpts(0, table, 120, rosed.Options{TableBorders: true}).
		String())
	fmt.Printf("%d/%d passed\n", len(cases)-failures, len(cases))

	if failures > 0 {
		os.Exit(1)
	}
}

func readFormulaCases(path string) ([]formulaCase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open formula file: %w", err)
	}
	defer f.Close()

	var cases []formulaCase
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		expected := -1
		if idx := strings.Index(line, "# expect="); idx >= 0 {
			n, convErr := strconv.Atoi(strings.TrimSpace(line[idx+len("# expect="):]))
			if convErr == nil {
				expected = n
			}
			line = strings.TrimSpace(line[:idx])
		}

		cases = append(cases, formulaCase{line: lineNo, text: line, expected: expected})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read formula file: %w", err)
	}

	return cases, nil
}
