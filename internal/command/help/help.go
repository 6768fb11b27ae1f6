package help

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/keshon/vbits/internal/command"
	"github.com/keshon/vbits/internal/middleware"
)

type Command struct{}

func (c *Command) Name() string      { return "help" }
func (c *Command) Aliases() []string { return []string{"h", "?"} }
func (c *Command) Usage() string     { return "help [command]" }
func (c *Command) Brief() string     { return "Show help for commands" }
func (c *Command) Help() string {
	return `Display help information for commands.

Usage:
  help          List all commands.
  help <name>   Show detailed help for a specific command.`
}

func (c *Command) Subcommands() []command.Command { return nil }
func (c *Command) Flags(fs *flag.FlagSet)         {}

func (c *Command) Run(ctx *command.Context) error {
	if len(ctx.Args) > 0 {
		return runCommandHelp(ctx.Stdout, strings.ToLower(ctx.Args[0]))
	}
	return runListAllCommands(ctx.Stdout)
}

// runCommandHelp shows detailed help for a specific command
func runCommandHelp(w io.Writer, name string) error {
	cmd, ok := command.GetCommand(name)
	if !ok {
		return fmt.Errorf("unknown command: %s", name)
	}

	if usage := cmd.Usage(); usage != "" {
		fmt.Fprintf(w, "%s %s\n\n", color.HiBlackString("Usage:"), usage)
	}
	fmt.Fprintf(w, "%s\n\n", cmd.Help())

	if aliases := cmd.Aliases(); len(aliases) > 0 {
		fmt.Fprintf(w, "Aliases: %s\n", strings.Join(aliases, ", "))
	}
	return nil
}

// runListAllCommands lists all commands in a Git-style layout
func runListAllCommands(w io.Writer) error {
	commands := command.AllCommands()

	fmt.Fprint(w, "Available commands:\n\n")
	longest := 0
	for _, cmd := range commands {
		if l := len(cmd.Name()); l > longest {
			longest = l
		}
	}

	bold := color.New(color.Bold).SprintFunc()
	for _, cmd := range commands {
		name := cmd.Name()
		desc := cmd.Brief()
		if desc == "" {
			desc = "-"
		}
		padding := strings.Repeat(" ", longest-len(name)+2)
		fmt.Fprintf(w, "  %s%s%s\n", bold(name), padding, desc)
	}

	fmt.Fprintln(w, "\nType 'help <command>' to see detailed information about a specific command.")
	return nil
}

func init() {
	command.RegisterCommand(
		command.ApplyMiddlewares(
			&Command{},
			middleware.WithDebugArgsPrint(),
		),
	)
}
