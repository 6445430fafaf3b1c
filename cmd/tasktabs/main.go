package main

import (
	"os"

	"tasktabs/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], cli.Options{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}))
}
