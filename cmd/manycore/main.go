// Command manycore validates, routes and inspects manycore mesh
// configurations.
package main

import (
	"github.com/tebeka/atexit"

	"github.com/sarchlab/manycore/cmd/manycore/cmd"
)

func main() {
	code := 0
	if err := cmd.Execute(); err != nil {
		code = 1
	}

	atexit.Exit(code)
}
