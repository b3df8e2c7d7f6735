// Command waresim runs and serves the warehouse simulation.
package main

import (
	"os"

	"github.com/elektrokombinacija/warehouse-sim/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
