package log

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/keshon/vbits/internal/command"
	"github.com/keshon/vbits/internal/middleware"
	"github.com/keshon/vbits/internal/repo/meta"
)

type Command struct {
	oneline bool
	limit   int
}

func (c *Command) Name() string      { return "log" }
func (c *Command) Aliases() []string { return []string{"commits"} }
func (c *Command) Usage() string     { return "log [options] [branch]" }
func (c *Command) Brief() string     { return "Show commit history (ledger branch by default)" }
func (c *Command) Help() string {
	return `Show commit logs, newest first.

Options:
      --oneline   Show each commit as a single line (ID + message).
  -n <count>      Limit to the last N commits.

Usage:
  vbits log [options] [branch]

Examples:
  vbits log
  vbits log --oneline -n 10
  vbits log tx/0c4c...`
}

func (c *Command) Subcommands() []command.Command { return nil }

func (c *Command) Flags(fs *flag.FlagSet) {
	fs.BoolVar(&c.oneline, "oneline", false, "show each commit on one line")
	fs.IntVar(&c.limit, "n", 0, "limit number of commits")
}

func (c *Command) Run(ctx *command.Context) error {
	r, err := command.OpenRepository()
	if err != nil {
		return err
	}

	branch := r.Config.Branch
	if len(ctx.Args) > 0 {
		branch = ctx.Args[0]
	}

	var commits []*meta.Commit
	for cmt, err := range r.Meta.Log(branch) {
		if err != nil {
			return fmt.Errorf("failed to get commits for branch %q: %w", branch, err)
		}
		commits = append(commits, cmt)
		if c.limit > 0 && len(commits) == c.limit {
			break
		}
	}

	if len(commits) == 0 {
		fmt.Fprintln(ctx.Stdout, "No commits found")
		return nil
	}

	label := color.New(color.FgHiBlack).SprintFunc()
	for _, cmt := range commits {
		if c.oneline {
			firstLine := strings.SplitN(cmt.Message, "\n", 2)[0]
			fmt.Fprintf(ctx.Stdout, "%s %s\n", color.YellowString(cmt.ID), firstLine)
			continue
		}

		fmt.Fprintf(ctx.Stdout, "%s %s\n", label("Commit:"), color.YellowString(cmt.ID))
		if cmt.Parent != "" {
			fmt.Fprintf(ctx.Stdout, "%s %s\n", label("Parent:"), cmt.Parent)
		}
		fmt.Fprintf(ctx.Stdout, "%s %s\n", label("Tree:  "), cmt.SnapshotID)
		if t, err := time.Parse(time.RFC3339Nano, cmt.Timestamp); err == nil {
			fmt.Fprintf(ctx.Stdout, "%s %s\n", label("Date:  "), t.Local().Format("Mon Jan 2 15:04:05 2006"))
		}
		fmt.Fprintln(ctx.Stdout)
		for _, line := range strings.Split(cmt.Message, "\n") {
			if strings.TrimSpace(line) == "" {
				fmt.Fprintln(ctx.Stdout)
			} else {
				fmt.Fprintf(ctx.Stdout, "    %s\n", line)
			}
		}
		fmt.Fprintln(ctx.Stdout)
	}

	fmt.Fprintf(ctx.Stdout, "Total commits: %d\n", len(commits))
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
