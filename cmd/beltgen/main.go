// beltgen is a headless CLI that builds a belt from configuration, reports
// its validation verdict and exports the ribbon mesh.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Faultbox/beltline/internal/config"
	"github.com/Faultbox/beltline/internal/logger"
)

func main() {
	config.ParseFlags()
	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, _, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.InitStderr(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	command := flag.Arg(0)
	args := flag.Args()[1:]

	var code int
	switch command {
	case "check":
		code, err = cmdCheck(os.Stdout, cfg)
	case "export", "x":
		code, err = cmdExport(os.Stdout, cfg, args)
	case "init":
		err = cmdInit(os.Stdout, cfg, args)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if code == 0 {
			code = 1
		}
	}
	logger.Sync()
	os.Exit(code)
}

func printUsage() {
	fmt.Println(`beltgen - conveyor belt geometry utility

Usage:
  beltgen [flags] <command> [args]

Commands:
  check                Build the configured belt and print its verdict
  export [file.obj]    Write the ribbon mesh as OBJ (stdout when no file)
  init [file.yaml]     Write the effective configuration

Flags override the config file, e.g. -mode catmull-rom -topology closed.
check and export exit with status 2 when the belt is invalid.`)
}
