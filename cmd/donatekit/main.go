// Command donatekit scaffolds the donation module into a host Go project.
package main

import (
	"fmt"
	"io"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printHelp(os.Stdout)
		return 0
	}

	switch args[0] {
	case "init":
		wd, err := os.Getwd()
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			return 1
		}
		if err := runInit(wd, os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			return 1
		}
		return 0
	case "help":
		printHelp(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", args[0])
		printHelp(os.Stderr)
		return 1
	}
}

func printHelp(w io.Writer) {
	fmt.Fprint(w, `donatekit - donation widget toolkit

Usage:
  donatekit <command>

Commands:
  init    Scaffold donation module boilerplate into the current project
  help    Show this help
`)
}
