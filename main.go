package main

import (
	"log"

	"github.com/schiang418/cyclescope-domain-api/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatalf("could not start application: %v", err)
	}
}
