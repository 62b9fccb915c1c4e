// main.go
//
// Entry point that hands CLI handling to the Cobra root command in cmd/root.go

package main

import (
	"github.com/lineage-sim/lineage-sim/cmd"
)

func main() {
	cmd.Execute()
}
