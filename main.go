package main

import (
	"log"

	"github.com/testdeck/testdeck/cmd"
)

func main() {
	if err := cmd.RootCommand().Execute(); err != nil {
		log.Fatalf("could not run command: %v", err)
	}
}
