package send

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/fatih/color"

	"github.com/keshon/vbits/internal/command"
	"github.com/keshon/vbits/internal/identity"
	"github.com/keshon/vbits/internal/ledger"
	"github.com/keshon/vbits/internal/middleware"
)

type Command struct {
	mint    bool
	keyFile string
}

func (c *Command) Name() string      { return "send" }
func (c *Command) Aliases() []string { return []string{"pay"} }
func (c *Command) Usage() string     { return "send [--mint] [-k keyfile] <amount> <address>" }
func (c *Command) Brief() string     { return "Send bits to an address" }
func (c *Command) Help() string {
	return `Build, sign and publish a transfer from your address.

The transaction is staged on a private branch and fast-forwarded onto the
ledger branch. If another transaction lands first it is rebuilt against the
new tip, up to max_retries times.

Options:
      --mint    Create new bits instead of spending your own.
  -k <file>     Key file.

Examples:
  vbits send --mint 100 $(vbits address)
  vbits send 40 V3nq...`
}

func (c *Command) Subcommands() []command.Command { return nil }

func (c *Command) Flags(fs *flag.FlagSet) {
	fs.BoolVar(&c.mint, "mint", false, "mint new bits")
	fs.StringVar(&c.keyFile, "k", "", "key file")
}

// ParseAmount reads a positive whole number of bits.
func ParseAmount(s string) (uint64, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("%w: %q is not a positive integer", ledger.ErrInvalidAmount, s)
	}
	return n, nil
}

func (c *Command) Run(ctx *command.Context) error {
	if len(ctx.Args) != 2 {
		return fmt.Errorf("usage: %s", c.Usage())
	}
	amount, err := ParseAmount(ctx.Args[0])
	if err != nil {
		return err
	}
	to, err := identity.ParseAddress(ctx.Args[1])
	if err != nil {
		return err
	}

	r, err := command.OpenRepository()
	if err != nil {
		return err
	}
	k, err := command.LoadSigner(ctx, command.KeyFilePath(c.keyFile, r))
	if err != nil {
		return err
	}

	e := ledger.NewEngine(r, ledger.WithBranch(r.Config.Branch), ledger.WithLogger(ctx.Logger))
	receipt, err := e.SendWithRetry(context.Background(), k, to, amount, c.mint, r.Config.MaxRetries)
	if err != nil {
		return err
	}

	verb := "Sent"
	if c.mint {
		verb = "Minted"
	}
	fmt.Fprintf(ctx.Stdout, "%s %s bits to %s\n", verb, color.GreenString("%d", amount), to)
	fmt.Fprintf(ctx.Stdout, "txid %s\n", receipt.Plan.TxID)
	return nil
}

func init() {
	command.RegisterCommand(
		command.ApplyMiddlewares(
			&Command{},
			middleware.WithDebugArgsPrint(),
			middleware.WithObjectIntegrityCheck(),
		),
	)
}
