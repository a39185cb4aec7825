// Command libraryapi serves the library circulation REST API.
//
//	libraryapi serve   [--addr :3000] [--env-file .env] [--migrate=true]
//	libraryapi migrate [--env-file .env]
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCommand().ExecuteContext(ctx)

	stop()

	if err != nil {
		os.Exit(1)
	}
}
