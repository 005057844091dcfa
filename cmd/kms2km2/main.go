// Command kms2km2 compiles a KMS source file to a binary KM2 keyboard
// layout.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/keymagic-project/keymagic-go/compile"
	"github.com/keymagic-project/keymagic-go/kms"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s INPUT.kms OUTPUT.km2\n", os.Args[0])
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}
	inPath, outPath := flag.Arg(0), flag.Arg(1)

	if err := run(inPath, outPath); err != nil {
		fmt.Fprintf(os.Stderr, "kms2km2: %s\n", err)
		os.Exit(1)
	}
}

func run(inPath, outPath string) error {
	src, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", inPath, err)
	}

	toks, err := kms.Lex(src, inPath)
	if err != nil {
		return fmt.Errorf("lex: %w", err)
	}

	toks, err = kms.NewResolver().Resolve(toks, filepath.Dir(inPath))
	if err != nil {
		return fmt.Errorf("resolve includes: %w", err)
	}

	file, err := kms.Parse(toks)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	layout, err := compile.Compile(file)
	if err != nil {
		if list, ok := err.(compile.ErrorList); ok {
			for _, e := range list {
				fmt.Fprintf(os.Stderr, "%s:%d: %s\n", inPath, e.Line, e.Err)
			}
		}
		return fmt.Errorf("compile: %d error(s)", countErrors(err))
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	defer out.Close()

	if err := layout.Write(out); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	fmt.Printf("%s -> %s (%d rules, %d strings)\n", inPath, outPath, len(layout.Rules), len(layout.Strings))
	return nil
}

func countErrors(err error) int {
	if list, ok := err.(compile.ErrorList); ok {
		return len(list)
	}
	return 1
}
