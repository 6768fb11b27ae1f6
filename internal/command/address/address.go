package address

import (
	"flag"
	"fmt"

	"github.com/keshon/vbits/internal/command"
	"github.com/keshon/vbits/internal/middleware"
)

type Command struct {
	keyFile string
}

func (c *Command) Name() string      { return "address" }
func (c *Command) Aliases() []string { return []string{"whoami"} }
func (c *Command) Usage() string     { return "address [-k keyfile]" }
func (c *Command) Brief() string     { return "Print the address of your key" }
func (c *Command) Help() string {
	return `Print the address derived from your key, generating the key if it does not exist.

Options:
  -k <file>   Key file (default: repository keyfile setting, $VBITS_KEYFILE or ~/.vbits.pem).`
}

func (c *Command) Subcommands() []command.Command { return nil }

func (c *Command) Flags(fs *flag.FlagSet) {
	fs.StringVar(&c.keyFile, "k", "", "key file")
}

func (c *Command) Run(ctx *command.Context) error {
	// the address does not depend on a repository, but honour its settings
	r, _ := command.OpenRepository()
	k, err := command.LoadSigner(ctx, command.KeyFilePath(c.keyFile, r))
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.Stdout, k.Address())
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
