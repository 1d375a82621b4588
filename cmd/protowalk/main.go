package main

import (
	"flag"
	"fmt"
	"os"

	"protowalk/pkg/driver"
	"protowalk/pkg/errors"
)

func main() {
	dumpFlag := flag.Bool("dump", false, "Print every named object and its visible names after the run")
	matchFlag := flag.String("match", "", "With -dump, list only names matching this pattern")
	verboseFlag := flag.Bool("v", false, "Print each step as it runs")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: protowalk [-dump] [-match re] [-v] scenario.yaml...\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(64) // Exit code 64: command line usage error
	}

	options := driver.RunOptions{Verbose: *verboseFlag, Log: os.Stderr}
	checks, failed := 0, 0
	for _, path := range flag.Args() {
		n, bad := runFile(path, options, *dumpFlag, *matchFlag)
		checks += n
		failed += bad
	}

	fmt.Printf("%d checks, %d failed\n", checks, failed)
	if failed > 0 {
		os.Exit(70) // Exit code 70: internal software error
	}
}

// runFile runs one scenario and prints its results. Load and setup errors
// count as one failure.
func runFile(path string, options driver.RunOptions, dump bool, match string) (int, int) {
	sc, err := driver.LoadScenario(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		return 0, 1
	}
	session := driver.NewSession(sc, options)
	defer session.Close()

	report, errs := session.Run()
	if report.Description != "" {
		fmt.Printf("# %s: %s\n", path, report.Description)
	} else {
		fmt.Printf("# %s\n", path)
	}
	for _, res := range report.Results {
		if res.Passed {
			fmt.Printf("ok   %s\n", res.Desc)
		} else {
			fmt.Printf("FAIL %s: %s (%s:%d)\n", res.Desc, res.Detail, path, res.Pos.Line)
		}
	}

	failed := report.Failed()
	if len(errs) > 0 {
		errors.DisplayErrors(os.Stderr, errs)
		failed += len(errs)
	}

	if dump {
		if err := session.Dump(os.Stdout, match); err != nil {
			fmt.Fprintf(os.Stderr, "dump: %s\n", err)
			failed++
		}
	}
	return len(report.Results), failed
}
