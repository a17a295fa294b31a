package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/nrao/yoink/command"
)

func main() {
	parentCtx, cancel := context.WithCancel(context.Background())

	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
		<-ch
		cancel()
	}()

	err := command.Main(parentCtx, os.Args)
	cancel()
	if err == nil {
		return
	}

	if coder, ok := err.(cli.ExitCoder); ok {
		os.Exit(coder.ExitCode())
	}
	os.Exit(1)
}
