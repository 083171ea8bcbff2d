package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
)

// errSubcommand means the arguments name a command for the CLI.
var errSubcommand = errors.New("positional args are not supported")

type parseResult struct {
	ConfigPath  string
	UserID      string
	ShowHelp    bool
	ShowVersion bool
	HelpText    string
}

// parseArgs parses the flags accepted when starting the interactive UI.
func parseArgs(args []string) (parseResult, error) {
	fs := flag.NewFlagSet("remdocs", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	configPath := fs.String("config", "", "Path to a YAML config file")
	userID := fs.String("user", "", "User id to act as (overrides config)")
	showVersion := fs.Bool("version", false, "Show version information")
	showVersionShort := fs.Bool("v", false, "Show version information")

	usage := func() string {
		var b strings.Builder
		fmt.Fprintln(&b, "Usage: remdocs [flags]")
		fmt.Fprintln(&b, "       remdocs <command> [args]")
		fmt.Fprintln(&b, "")
		fmt.Fprintln(&b, "Remdocs tracks study tasks and the progress made on them.")
		fmt.Fprintln(&b, "Run without a command for the interactive UI, or 'remdocs help' to list commands.")
		fmt.Fprintln(&b, "")
		fmt.Fprintln(&b, "Flags:")
		fs.SetOutput(&b)
		fs.PrintDefaults()
		fs.SetOutput(io.Discard)
		return b.String()
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return parseResult{ShowHelp: true, HelpText: usage()}, nil
		}
		return parseResult{}, fmt.Errorf("%v\n\n%s", err, usage())
	}

	if fs.NArg() > 0 {
		return parseResult{}, errSubcommand
	}

	if *showVersion || *showVersionShort {
		return parseResult{ShowVersion: true}, nil
	}

	return parseResult{
		ConfigPath: *configPath,
		UserID:     strings.TrimSpace(*userID),
	}, nil
}
