package main

import (
	"fmt"
	"os"

	"github.com/uchicago-cs/chisubmit-sub001/cmd/chisubmitd/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
