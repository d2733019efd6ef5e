// Command resredis reads and writes resource records stored in Redis.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hupe1980/resredis"
	"github.com/hupe1980/resredis/internal/cli"
)

func main() {
	cfg, err := cli.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		exit(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	if err := cli.Run(ctx, cfg, os.Stdout, os.Stderr); err != nil {
		cancel()
		stop()
		exit(err)
	}
}

func exit(err error) {
	fmt.Fprintf(os.Stderr, "resredis: %v\n", err)
	switch {
	case errors.Is(err, cli.ErrUsage), errors.Is(err, flag.ErrHelp):
		os.Exit(2)
	case errors.Is(err, resredis.ErrNotFound):
		os.Exit(3)
	default:
		os.Exit(1)
	}
}
