package branch

import (
	"flag"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/keshon/vbits/internal/command"
	"github.com/keshon/vbits/internal/config"
	"github.com/keshon/vbits/internal/middleware"
)

type Command struct {
	del   string
	prune bool
}

func (c *Command) Name() string      { return "branch" }
func (c *Command) Aliases() []string { return []string{"br"} }
func (c *Command) Usage() string     { return "branch [-d <name>] [--prune]" }
func (c *Command) Brief() string     { return "List branches or remove leftover staging branches" }
func (c *Command) Help() string {
	return `List all branches. The branch HEAD points at, the ledger branch, is marked with '*'.

Transactions are staged on tx/<uuid> branches that are removed once
published; an interrupted send can leave one behind.

Options:
  -d <name>   Delete a branch (the ledger branch cannot be deleted).
  --prune     Delete every staging branch.`
}

func (c *Command) Subcommands() []command.Command { return nil }

func (c *Command) Flags(fs *flag.FlagSet) {
	fs.StringVar(&c.del, "d", "", "delete a branch")
	fs.BoolVar(&c.prune, "prune", false, "delete all staging branches")
}

func (c *Command) Run(ctx *command.Context) error {
	r, err := command.OpenRepository()
	if err != nil {
		return err
	}

	if c.del != "" {
		if err := r.DeleteBranch(c.del); err != nil {
			return err
		}
		fmt.Fprintf(ctx.Stdout, "Deleted branch %s\n", c.del)
		return nil
	}

	branches, err := r.Meta.ListBranches()
	if err != nil {
		return fmt.Errorf("failed to list branches: %w", err)
	}

	if c.prune {
		for _, b := range branches {
			if !strings.HasPrefix(b.Name, config.StagingPrefix) {
				continue
			}
			if err := r.DeleteBranch(b.Name); err != nil {
				return err
			}
			fmt.Fprintf(ctx.Stdout, "Deleted branch %s\n", b.Name)
		}
		return nil
	}

	head, err := r.Meta.GetCurrentBranch()
	if err != nil {
		return err
	}
	for _, b := range branches {
		if b.Name == head.Name {
			fmt.Fprintf(ctx.Stdout, "* %s\n", color.GreenString(b.Name))
		} else {
			fmt.Fprintf(ctx.Stdout, "  %s\n", b.Name)
		}
	}
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
