package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/meenmo/mcurve/cmd/mcurve/internal/bundle"
	"github.com/meenmo/mcurve/cmd/mcurve/internal/leg"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "bundle":
		return bundle.Run(args[1:], stdin, stdout, stderr)
	case "leg", "ois-leg":
		return leg.Run(args[1:], stdin, stdout, stderr)
	case "-h", "--help", "help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mcurve <command> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  bundle   Build a multicurve bundle and its Jacobian building blocks")
	fmt.Fprintln(w, "  leg      Resolve and price an arithmetic-average overnight leg")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run `mcurve <command> -h` for command-specific help.")
}
