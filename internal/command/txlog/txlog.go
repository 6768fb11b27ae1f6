package txlog

import (
	"flag"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/keshon/vbits/internal/command"
	"github.com/keshon/vbits/internal/ledger"
	"github.com/keshon/vbits/internal/middleware"
)

type Command struct {
	filter     string
	errorsOnly bool
}

func (c *Command) Name() string      { return "txlog" }
func (c *Command) Aliases() []string { return []string{"transactions"} }
func (c *Command) Usage() string     { return "txlog [--errors] [--filter <expr>]" }
func (c *Command) Brief() string     { return "Validate and list every transaction, oldest first" }
func (c *Command) Help() string {
	return `Replay the ledger history and print one line per commit.

Each commit is validated against its parent: the transaction it carries is
rebuilt from the parent state and must reproduce the committed state exactly.
Invalid commits are reported and the walk continues.

Options:
      --errors         Only show commits that failed validation.
      --filter <expr>  Only show commits matching an expression over
                       Commit, Message, Sender, To, Amount, Mint, TxID,
                       Valid, Skipped and Error.

Examples:
  vbits txlog
  vbits txlog --errors
  vbits txlog --filter 'Valid && Amount >= 100'`
}

func (c *Command) Subcommands() []command.Command { return nil }

func (c *Command) Flags(fs *flag.FlagSet) {
	fs.StringVar(&c.filter, "filter", "", "filter expression")
	fs.BoolVar(&c.errorsOnly, "errors", false, "only show invalid commits")
}

func (c *Command) Run(ctx *command.Context) error {
	var filter *ledger.Filter
	if c.filter != "" {
		f, err := ledger.CompileFilter(c.filter)
		if err != nil {
			return err
		}
		filter = f
	}

	r, err := command.OpenRepository()
	if err != nil {
		return err
	}
	e := ledger.NewEngine(r, ledger.WithBranch(r.Config.Branch), ledger.WithLogger(ctx.Logger))
	outcomes, err := e.ValidateHistory()
	if err != nil {
		return err
	}

	invalid := 0
	for _, o := range outcomes {
		if !o.Valid() {
			invalid++
		}
		if c.errorsOnly && o.Valid() {
			continue
		}
		if filter != nil {
			ok, err := filter.Match(o)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
		}
		printOutcome(ctx.Stdout, o)
	}

	summary := fmt.Sprintf("%d commit(s), %d invalid", len(outcomes), invalid)
	if invalid > 0 {
		color.New(color.FgRed).Fprintln(ctx.Stdout, summary)
	} else {
		fmt.Fprintln(ctx.Stdout, summary)
	}
	return nil
}

func printOutcome(w io.Writer, o ledger.Outcome) {
	id := color.HiBlackString(shortID(o.CommitID))
	switch {
	case !o.Valid():
		fmt.Fprintf(w, "%s %s %v\n", id, color.RedString("ERROR"), o.Err)
	case o.Transition == nil:
		fmt.Fprintf(w, "%s %s no ledger changes\n", id, color.YellowString("SKIP "))
	default:
		t := o.Transition
		kind := "send"
		if t.Record.Mint {
			kind = "mint"
		}
		fmt.Fprintf(w, "%s %s %s %s -> %s %d bits (tx %s)\n",
			id, color.GreenString("OK   "), kind, t.Sender, t.Record.To, t.Record.Amount, t.Plan.TxID)
	}
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

func init() {
	command.RegisterCommand(
		command.ApplyMiddlewares(
			&Command{},
			middleware.WithDebugArgsPrint(),
		),
	)
}
