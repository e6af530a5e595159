// Swatchcard as a command line tool (CLI) is documented in the project's README:
// https://github.com/BitPonyLLC/swatchcard#readme
package main

import (
	"os"

	"github.com/BitPonyLLC/swatchcard/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
