// Package main provides the verifier command-line tool for checking the
// integrity block of a generated price report.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/text/encoding/htmlindex"

	"pricemachine/pkg/metadata"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("verifier", flag.ContinueOnError)
	fs.SetOutput(stderr)

	inputPath := fs.String("input", "", "Path to a generated report (e.g., output.html)")
	encodingName := fs.String("encoding", "windows-1251", "Encoding the report was written in")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *inputPath == "" {
		fmt.Fprintln(stderr, "Usage: verifier -input <path> [-encoding <name>]")
		fs.PrintDefaults()

		return 2
	}

	enc, err := htmlindex.Get(*encodingName)
	if err != nil {
		fmt.Fprintf(stderr, "❌ Unknown encoding %q: %v\n", *encodingName, err)
		return 2
	}

	raw, err := os.ReadFile(*inputPath)
	if err != nil {
		fmt.Fprintf(stderr, "❌ Error reading file: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "📂 Reading: %s (%d bytes)\n", *inputPath, len(raw))

	content, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		fmt.Fprintf(stderr, "❌ Cannot decode report as %s: %v\n", *encodingName, err)
		return 1
	}

	meta, err := metadata.Verify(string(content))
	if err != nil {
		fmt.Fprintf(stdout, "❌ Verification failed: %v\n", err)
		return 1
	}

	fmt.Fprintln(stdout, "✅ Signature valid")
	fmt.Fprintf(stdout, "Records:      %d\n", meta.Records)
	fmt.Fprintf(stdout, "Generated at: %s\n", meta.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(stdout, "Hash:         %s\n", meta.Hash)

	return 0
}
