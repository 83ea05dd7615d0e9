// Command wordma is the local backend of the Wordma blog editor: it owns wordma.db,
// serves the command bridge for the editor and drives theme builds and deploys.
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"wordma/pkg/cli"
)

func main() {
	log.SetPrefix("[wordma] ")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	os.Exit(cli.Run(os.Stdin, os.Stdout, os.Stderr, os.Args, sigCh))
}
