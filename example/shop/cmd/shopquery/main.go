// Command shopquery runs declarative product and order queries against the shop example database.
//
// Without configuration it works on an in-memory SQLite database loaded with the example data:
//
//	shopquery products --description-like %phone% --sort price
//	shopquery orders --status-in SHIPPED,COMPLETED --fetch-items --fetch-products --format json
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
