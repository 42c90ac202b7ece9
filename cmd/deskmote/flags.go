// ABOUTME: CLI flag parsing using stdlib flag package
// ABOUTME: Supports --config, --root, --debug, --version

package main

import "flag"

type cliArgs struct {
	configPath string
	root       string
	debug      bool
	version    bool
}

func parseFlags() cliArgs {
	var args cliArgs

	flag.StringVar(&args.configPath, "config", "", "Path to the YAML config file")
	flag.StringVar(&args.root, "root", "", "Confine file tools under this directory (overrides config)")
	flag.BoolVar(&args.debug, "debug", false, "Enable debug logging")
	flag.BoolVar(&args.version, "version", false, "Show version and exit")

	flag.Parse()
	return args
}
