// Command scorectl inspects and maintains the arcade high-score ledger
// from a terminal: show boards, export and import them, clear or seed.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newCLI().execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
