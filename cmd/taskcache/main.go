// Package main implements the taskcache entry point: the urgent-task HTTP
// endpoint, the interactive menu, or both together.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	os.Exit(realMain(context.Background(), os.Args))
}

func realMain(ctx context.Context, args []string) int {
	if err := newRootCommand().Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
