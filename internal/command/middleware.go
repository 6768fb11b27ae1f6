package command

// Handler runs one invocation of a command.
type Handler func(ctx *Context) error

// Middleware is a function that wraps a command
type Middleware func(Command) Command

// WrappedCommand is a command whose Run goes through Around.
type WrappedCommand struct {
	Command
	Around func(ctx *Context, next Handler) error
}

// Run executes the wrapped command
func (w *WrappedCommand) Run(ctx *Context) error {
	if w.Around == nil {
		return w.Command.Run(ctx)
	}
	return w.Around(ctx, w.Command.Run)
}

// Wrap turns an around function into a Middleware. around decides whether
// and when next is called.
func Wrap(around func(ctx *Context, next Handler) error) Middleware {
	return func(cmd Command) Command {
		return &WrappedCommand{Command: cmd, Around: around}
	}
}

// ApplyMiddlewares wraps cmd so the middlewares run in the order given,
// the first one outermost.
func ApplyMiddlewares(cmd Command, mws ...Middleware) Command {
	for i := len(mws) - 1; i >= 0; i-- {
		cmd = mws[i](cmd)
	}
	return cmd
}
