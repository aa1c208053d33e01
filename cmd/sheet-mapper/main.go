// Command sheet-mapper reads spreadsheet rows as records and checks column
// mappings against real workbooks.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
