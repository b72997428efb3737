// SPDX-License-Identifier: Apache-2.0

// Command compgraph runs one of the engine's worked example pipelines
// against a newline-delimited JSON input file, writing its output the
// same way. It is an external collaborator over codec and engine, never
// imported by graph or ops.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/bantling/compgraph/codec"
	"github.com/bantling/compgraph/engine"
	"github.com/bantling/compgraph/examples/invertedindex"
	"github.com/bantling/compgraph/examples/wordcount"
	"github.com/bantling/compgraph/graph"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "wordcount":
		err = runPipeline(args, wordcount.SourceLabel, wordcount.Graph())
	case "invertedindex":
		err = runPipeline(args, invertedindex.SourceLabel, invertedindex.Graph())
	case "help", "--help", "-h":
		printUsage()
		return
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("compgraph - declarative record stream pipelines")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  compgraph wordcount [flags]      - count word occurrences across documents")
	fmt.Println("  compgraph invertedindex [flags]  - build a word -> doc_ids index")
	fmt.Println()
	fmt.Println("Flags (both commands):")
	fmt.Println("  -in <path>   - input newline-delimited JSON file (default: stdin)")
	fmt.Println("  -out <path>  - output newline-delimited JSON file (default: stdout)")
}

func runPipeline(args []string, sourceLabel string, g *graph.Graph) error {
	fs := flag.NewFlagSet("compgraph", flag.ContinueOnError)
	in := fs.String("in", "", "input newline-delimited JSON file (default: stdin)")
	out := fs.String("out", "", "output newline-delimited JSON file (default: stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	inFile := os.Stdin
	if *in != "" {
		f, err := os.Open(*in)
		if err != nil {
			return err
		}
		defer f.Close()
		inFile = f
	}

	outFile := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer f.Close()
		outFile = f
	}

	bindings := graph.Bindings{sourceLabel: codec.DecodeLines(inFile)}
	result := engine.Run(g, bindings)

	return codec.EncodeLines(outFile, result.Stream)
}
