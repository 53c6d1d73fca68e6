package main

import (
	"flag"
	"fmt"
	"strings"
)

// HelpData is implemented by the root command and every subcommand so a
// UsageError can render the right usage block.
type HelpData interface {
	Program() string
	Synopsis() string
	FlagSet() *flag.FlagSet
}

// UsageError carries the command whose usage should be printed. It is not a
// failure: main prints it to stderr and exits zero.
type UsageError struct {
	of HelpData
}

func (e *UsageError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "usage: %s %s\n", e.of.Program(), e.of.Synopsis())
	if fs := e.of.FlagSet(); fs != nil {
		fs.VisitAll(func(f *flag.Flag) {
			fmt.Fprintf(&sb, "  -%s (default %q)\n        %s\n", f.Name, f.DefValue, f.Usage)
		})
	}
	return strings.TrimRight(sb.String(), "\n")
}

func usageFunc(h HelpData) func() {
	return func() {
		fmt.Println((&UsageError{of: h}).Error())
	}
}
