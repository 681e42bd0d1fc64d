// Command tasks is a minimal to-do list for the terminal.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nibzard/tasks-go/cmd"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	err := cmd.Run(ctx, os.Args[1:])
	os.Exit(cmd.ExitCode(ctx, err, os.Stderr))
}
