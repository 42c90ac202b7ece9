// ABOUTME: Entry point for the deskmote remote-control server
// ABOUTME: Parses flags, loads config, assembles the registry, serves JSON-RPC on stdio

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/deskmote/deskmote/internal/config"
	"github.com/deskmote/deskmote/internal/dispatch"
	"github.com/deskmote/deskmote/internal/log"
	"github.com/deskmote/deskmote/internal/rpc"
	"github.com/deskmote/deskmote/internal/tools"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	args := parseFlags()

	if args.version {
		fmt.Printf("deskmote %s (%s)\n", version, commit)
		os.Exit(0)
	}

	if err := run(args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args cliArgs) error {
	if args.debug {
		log.SetLevel(log.LevelDebug)
	}

	cfg, err := config.Load(args.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if args.root != "" {
		cfg.Files.Root = args.root
	}

	reg := tools.NewRegistry(tools.Options{Config: cfg})
	defer reg.Close()

	d := dispatch.NewDispatcher(reg.FileScope(), reg.All()...)
	srv := rpc.NewServer(d, os.Stdin, os.Stdout, rpc.ServerInfo{Name: "deskmote", Version: version})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("deskmote %s serving %d tools on stdio", version, len(d.Tools()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ctx)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
		return nil
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	}
}
