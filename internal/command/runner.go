package command

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Execute resolves args to a command, parses its flags and runs it.
func Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return errors.New("no command provided")
	}

	node, remaining, err := ResolveCommand(args)
	if err != nil {
		return err
	}
	cmd := node.Cmd

	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprintf(stderr, "Usage: %s\n", cmd.Usage()) }
	cmd.Flags(fs)
	if err := fs.Parse(remaining); err != nil {
		return err
	}

	ctx := &Context{
		Args:   fs.Args(),
		Flags:  fs,
		Stdout: stdout,
		Stderr: stderr,
		Logger: slog.Default(),
	}
	return cmd.Run(ctx)
}

// RunCLI is the main entrypoint for executing commands.
// It parses arguments, resolves subcommands, applies flags, and runs the target command.
func RunCLI(args []string) {
	err := Execute(args, os.Stdout, os.Stderr)
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return
	}

	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
