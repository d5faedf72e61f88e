// Command releasectl is the operator CLI for the release bot: preview a day's
// digest, register slash commands and post the digest by hand.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
