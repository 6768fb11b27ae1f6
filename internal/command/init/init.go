package initcmd

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/keshon/vbits/internal/command"
	"github.com/keshon/vbits/internal/config"
	"github.com/keshon/vbits/internal/middleware"
	"github.com/keshon/vbits/internal/repo"
)

type Command struct {
	quiet     bool
	objectFmt string
	branch    string
	compress  bool
}

func (c *Command) Name() string      { return "init" }
func (c *Command) Aliases() []string { return []string{"initialize"} }
func (c *Command) Usage() string     { return "init [options]" }
func (c *Command) Brief() string     { return "Initialize a new ledger repository" }
func (c *Command) Help() string {
	return `Initialize a new ledger repository in the current directory.

Options:
  -q, --quiet                  Suppress normal output.
      --object-format=<algo>   Object hash: sha256, xxh3 or blake2b
                               (default: $VBITS_HASH, then sha256).
  -b, --initial-branch=<name>  Name of the shared ledger branch (default: main).
      --compress               Store objects gzip-compressed.

Usage:
  vbits init [options]

Examples:
  vbits init
  vbits init --object-format=xxh3
  vbits init -b ledger`
}

func (c *Command) Subcommands() []command.Command { return nil }

func (c *Command) Flags(fs *flag.FlagSet) {
	fs.BoolVar(&c.quiet, "quiet", false, "suppress output")
	fs.BoolVar(&c.quiet, "q", false, "alias for --quiet")
	fs.StringVar(&c.objectFmt, "object-format", "", "object hash algorithm")
	fs.StringVar(&c.branch, "initial-branch", config.DefaultBranch, "shared branch name")
	fs.StringVar(&c.branch, "b", config.DefaultBranch, "alias for --initial-branch")
	fs.BoolVar(&c.compress, "compress", false, "gzip objects at rest")
}

func (c *Command) Run(ctx *command.Context) error {
	cfg := config.NewRepoConfig(config.RepoDir)
	if c.objectFmt != "" {
		cfg.Hash = c.objectFmt
	}
	cfg.Branch = c.branch
	cfg.Compress = c.compress

	r, created, err := repo.InitAt(cfg, nil)
	if err != nil && !errors.Is(err, os.ErrExist) {
		return err
	}
	if c.quiet {
		return nil
	}

	root, _ := filepath.Abs(r.Config.RepoRoot)
	if created {
		fmt.Fprintf(ctx.Stdout, "Initialized empty ledger in %s\n", color.CyanString(root))
	} else {
		fmt.Fprintf(ctx.Stdout, "Reinitialized existing ledger in %s\n", color.CyanString(root))
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
