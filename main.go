package main

import (
	"context"
	"os"

	"github.com/Heliodex/napper/internal/runner"
)

// run prints to stdout and returns the process exit code, which is always 0.
func run(ctx context.Context, cfg runner.Config, opts ...runner.Option) int {
	res := runner.New(cfg, os.Stdout, opts...).Run(ctx)
	return res.Code
}

func main() {
	os.Exit(run(context.Background(), runner.DefaultConfig()))
}
