package middleware

import (
	"fmt"

	"github.com/keshon/vbits/internal/command"
)

// WithDebugArgsPrint logs the parsed arguments of every invocation at debug level.
func WithDebugArgsPrint() command.Middleware {
	return func(cmd command.Command) command.Command {
		return command.Wrap(func(ctx *command.Context, next command.Handler) error {
			ctx.Logger.Debug("run command", "name", cmd.Name(), "args", ctx.Args)
			return next(ctx)
		})(cmd)
	}
}

// WithObjectIntegrityCheck refuses to run cmd while any object reachable
// from a branch is missing or damaged.
func WithObjectIntegrityCheck() command.Middleware {
	return command.Wrap(func(ctx *command.Context, next command.Handler) error {
		r, err := command.OpenRepository()
		if err != nil {
			return err
		}
		if err := r.VerifyObjects(ctx.Stderr, true); err != nil {
			return fmt.Errorf(
				"repository verification failed: %v\nRun `vbits verify` for details",
				err,
			)
		}
		return next(ctx)
	})
}
