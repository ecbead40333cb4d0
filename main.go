package main

import (
	"log"

	"github.com/thiagokokada/p4x/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		log.Fatalf("p4x: %v", err)
	}
}
