package main

import (
	"context"
	"fmt"
	"io"
	"os"
)

func main() {
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run builds the command tree and executes it against args, writing normal
// output to outW.
func run(outW io.Writer, args []string) error {
	root := newRootCmd(outW)
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}
