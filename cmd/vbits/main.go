package main

import (
	"os"

	"github.com/keshon/vbits/internal/command"
	"github.com/keshon/vbits/internal/config"
	"github.com/keshon/vbits/internal/logging"

	_ "github.com/keshon/vbits/internal/command/address"
	_ "github.com/keshon/vbits/internal/command/balance"
	_ "github.com/keshon/vbits/internal/command/branch"
	_ "github.com/keshon/vbits/internal/command/help"
	_ "github.com/keshon/vbits/internal/command/init"
	_ "github.com/keshon/vbits/internal/command/log"
	_ "github.com/keshon/vbits/internal/command/send"
	_ "github.com/keshon/vbits/internal/command/txlog"
	_ "github.com/keshon/vbits/internal/command/verify"
)

func main() {
	level := os.Getenv(config.EnvLogLevel)
	if level == "" {
		level = config.DefaultLogLevel
	}
	logging.Setup(os.Stderr, level)

	args := os.Args[1:]
	if len(args) == 0 {
		args = []string{"help"}
	}
	command.RunCLI(args)
}
