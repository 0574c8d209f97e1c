// glycoenum - Oligosaccharide sequence prediction tool
package main

import (
	"fmt"
	"os"

	"github.com/ChrisMcGann/glycoenum/cmd/glycoenum/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
