// Command ucanalyze is the command-line front end for the Micro-C
// static analyzer: it lexes and parses a source file, builds its
// Program Graph, runs the four dataflow analyses, and prints the PG and
// their reports to stdout. Flag handling and the stdin/stdout/stderr
// plumbing follow the teacher's engine/cli.Run shape (godoctor).
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ucanalyze/ucanalyze/ast"
	"github.com/ucanalyze/ucanalyze/dataflow"
	"github.com/ucanalyze/ucanalyze/dot"
	"github.com/ucanalyze/ucanalyze/parse"
	"github.com/ucanalyze/ucanalyze/pg"
	"github.com/ucanalyze/ucanalyze/report"
	"github.com/ucanalyze/ucanalyze/worklist"
)

func main() {
	os.Exit(Run(os.Stdout, os.Stderr, os.Args[1:]))
}

// Run implements the CLI. It returns the process exit code: 0 on
// success, non-zero on I/O, syntax, or semantic failure (spec §6/§7).
func Run(stdout, stderr io.Writer, args []string) int {
	flags := flag.NewFlagSet("ucanalyze", flag.ContinueOnError)
	flags.SetOutput(stderr)
	srcFile := flags.String("src-file", "", "path to a Micro-C source file (required)")
	printAST := flags.Bool("ast", false, "print the parsed AST before analysis")
	writeDot := flags.Bool("dot", false, "write a .dot/.svg graph export next to the source file")
	strategyName := flags.String("strategy", "fifo", "worklist strategy: fifo, lifo, or rr")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	if *srcFile == "" {
		fmt.Fprintln(stderr, "ucanalyze: -src-file is required")
		return 2
	}

	src, err := os.ReadFile(*srcFile)
	if err != nil {
		fmt.Fprintf(stderr, "ucanalyze: %v\n", err)
		return 1
	}

	prog, log := parse.Parse(src)
	if log.HasErrors() {
		fmt.Fprint(stderr, log.String())
		return 1
	}

	if *printAST {
		fmt.Fprint(stdout, ast.Dump(prog))
	}

	graph, err := pg.Build(prog)
	if err != nil {
		fmt.Fprintf(stderr, "ucanalyze: %v\n", err)
		return 1
	}

	for _, line := range dot.Edges(graph) {
		fmt.Fprintln(stdout, line)
	}

	if *writeDot {
		stem := strings.TrimSuffix(*srcFile, filepath.Ext(*srcFile))
		if err := dot.Write(graph, stem); err != nil {
			fmt.Fprintf(stderr, "ucanalyze: dot export: %v\n", err)
		}
	}

	newStrategy := func(g *pg.Graph) worklist.Strategy {
		switch strings.ToLower(*strategyName) {
		case "lifo":
			return worklist.NewLIFO()
		case "roundrobin", "rr":
			return worklist.NewRoundRobin(worklist.ReversePostorder(g))
		default:
			return worklist.NewFIFO()
		}
	}

	rd := dataflow.ReachingDefinitions(graph, newStrategy(graph))
	lv := dataflow.LiveVariables(graph, newStrategy(graph))
	dv := dataflow.DangerousVariables(graph, newStrategy(graph))
	ds := dataflow.DetectionOfSigns(graph, newStrategy(graph))

	for _, line := range report.ReachingDefinitions(graph, rd) {
		fmt.Fprintln(stdout, line)
	}
	for _, line := range report.LiveVariables(graph, lv) {
		fmt.Fprintln(stdout, line)
	}
	for _, line := range report.DangerousVariables(graph, dv) {
		fmt.Fprintln(stdout, line)
	}
	for _, line := range report.DetectionOfSigns(graph, ds) {
		fmt.Fprintln(stdout, line)
	}

	return 0
}
