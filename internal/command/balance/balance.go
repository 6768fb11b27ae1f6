package balance

import (
	"flag"
	"fmt"

	"github.com/fatih/color"

	"github.com/keshon/vbits/internal/command"
	"github.com/keshon/vbits/internal/identity"
	"github.com/keshon/vbits/internal/ledger"
	"github.com/keshon/vbits/internal/middleware"
)

type Command struct {
	keyFile string
}

func (c *Command) Name() string      { return "balance" }
func (c *Command) Aliases() []string { return []string{"bal"} }
func (c *Command) Usage() string     { return "balance [-k keyfile] [address]" }
func (c *Command) Brief() string     { return "Show the balance of an address" }
func (c *Command) Help() string {
	return `Sum the unspent balance records of an address at the tip of the ledger branch.
Without an address, your own address is used.

Options:
  -k <file>   Key file used when no address is given.

Examples:
  vbits balance
  vbits balance V3nq...`
}

func (c *Command) Subcommands() []command.Command { return nil }

func (c *Command) Flags(fs *flag.FlagSet) {
	fs.StringVar(&c.keyFile, "k", "", "key file")
}

func (c *Command) Run(ctx *command.Context) error {
	r, err := command.OpenRepository()
	if err != nil {
		return err
	}

	var addr identity.Address
	if len(ctx.Args) > 0 {
		if addr, err = identity.ParseAddress(ctx.Args[0]); err != nil {
			return err
		}
	} else {
		k, err := command.LoadSigner(ctx, command.KeyFilePath(c.keyFile, r))
		if err != nil {
			return err
		}
		addr = k.Address()
	}

	e := ledger.NewEngine(r, ledger.WithBranch(r.Config.Branch), ledger.WithLogger(ctx.Logger))
	sum, err := e.Balance(addr)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.Stdout, "%s: %s bits\n", addr, color.New(color.Bold).Sprint(sum))
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
