package command

import (
	"flag"
	"io"
	"log/slog"
)

// Command represents a cli command
type Command interface {
	Name() string
	Aliases() []string
	Usage() string
	Brief() string
	Help() string
	Subcommands() []Command
	Flags(fs *flag.FlagSet)
	Run(ctx *Context) error
}

// Context represents a cli context
type Context struct {
	Args   []string
	Flags  *flag.FlagSet
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}
