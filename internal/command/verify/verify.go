package verify

import (
	"flag"
	"fmt"
	"time"

	"github.com/fatih/color"

	"github.com/keshon/vbits/internal/command"
	"github.com/keshon/vbits/internal/middleware"
	"github.com/keshon/vbits/internal/repo/store/object"
)

type Command struct {
	reachable bool
	cleanup   bool
}

func (c *Command) Name() string      { return "verify" }
func (c *Command) Aliases() []string { return []string{"scan", "check"} }
func (c *Command) Usage() string     { return "verify [--reachable] [--cleanup]" }
func (c *Command) Brief() string     { return "Verify object store integrity" }
func (c *Command) Help() string {
	return `Rehash stored objects and report missing or damaged ones.

Options:
  --reachable   Only check objects referenced by some branch.
  --cleanup     Remove temporary files left by interrupted writes first.`
}

func (c *Command) Subcommands() []command.Command { return nil }

func (c *Command) Flags(fs *flag.FlagSet) {
	fs.BoolVar(&c.reachable, "reachable", false, "only check reachable objects")
	fs.BoolVar(&c.cleanup, "cleanup", false, "remove temporary files first")
}

func (c *Command) Run(ctx *command.Context) error {
	r, err := command.OpenRepository()
	if err != nil {
		return err
	}
	if c.cleanup {
		if err := r.Store.Objects.CleanupTemp(); err != nil {
			return err
		}
	}

	_, checks, err := r.VerifyObjectsStream(c.reachable)
	if err != nil {
		return err
	}

	ok := color.New(color.FgGreen).SprintFunc()
	missing := color.New(color.FgRed).SprintFunc()
	damaged := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintf(ctx.Stdout, "%s %s OK   %s Missing   %s Damaged\n\n",
		color.HiBlackString("Legend:"), ok("█"), missing("█"), damaged("█"))

	start := time.Now()
	count, okCount, missingCount, damagedCount := 0, 0, 0, 0
	for chk := range checks {
		switch chk.Status {
		case object.OK:
			fmt.Fprint(ctx.Stdout, ok("█"))
			okCount++
		case object.Missing:
			fmt.Fprint(ctx.Stdout, missing("█"))
			missingCount++
		case object.Damaged:
			fmt.Fprint(ctx.Stdout, damaged("█"))
			damagedCount++
		}
		count++
		if count%100 == 0 {
			fmt.Fprintf(ctx.Stdout, "  %d\n", count)
		}
	}
	if count%100 != 0 {
		fmt.Fprintf(ctx.Stdout, "  %d\n", count)
	}

	fmt.Fprintf(ctx.Stdout, "\nScan complete in %s.\n", time.Since(start).Truncate(time.Millisecond))
	fmt.Fprintf(ctx.Stdout, "Objects OK: %s   Missing: %s   Damaged: %s\n",
		ok(okCount), missing(missingCount), damaged(damagedCount))

	if bad := missingCount + damagedCount; bad > 0 {
		return fmt.Errorf("%d object(s) missing or damaged", bad)
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
