// ./main.go
package main

import (
	"github.com/xkilldash9x/macrokey/cmd"
)

// main is the entry point for the macrokey CLI.
func main() {
	cmd.Execute()
}
