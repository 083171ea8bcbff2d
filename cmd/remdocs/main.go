package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/remdocs/remdocs/internal/cli"
	"github.com/remdocs/remdocs/internal/tui"
	"github.com/remdocs/remdocs/internal/version"
)

func main() {
	args := os.Args[1:]

	// Bare flags launch the TUI; anything with a command goes to the CLI.
	res, err := parseArgs(args)
	switch {
	case errors.Is(err, errSubcommand):
		if err := cli.Execute(context.Background()); err != nil {
			os.Exit(1)
		}
		return
	case err != nil:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	case res.ShowHelp:
		fmt.Print(res.HelpText)
		return
	case res.ShowVersion:
		fmt.Printf("remdocs %s (%s, built %s)\n", version.Version, version.CommitSHA, version.BuildDate)
		return
	}

	if err := runTUI(res); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(res parseResult) error {
	// The TUI owns the terminal, so logs go to a file.
	a, err := cli.Bootstrap(cli.Options{
		ConfigPath: res.ConfigPath,
		UserID:     res.UserID,
		LogToFile:  true,
	})
	if err != nil {
		return err
	}
	defer a.Close()

	return tui.Run(tui.Options{
		Service: a.Service,
		UserID:  a.UserID,
		Log:     a.Log,
	})
}
