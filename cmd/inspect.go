package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lineage-sim/lineage-sim/sim/export"
)

// inspectCmd summarizes a tree written by run
var inspectCmd = &cobra.Command{
	Use:   "inspect <TREE_plain.txt>",
	Short: "Print node, edge and mutation counts of a simulated tree",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		tt, err := export.ReadTreeText(args[0])
		if err != nil {
			logrus.Fatalf("Could not read tree: %v", err)
		}
		writeTreeStats(os.Stdout, args[0], tt)
	},
}

func writeTreeStats(w io.Writer, name string, tt *export.TreeText) {
	snvs, cnvs := tt.MutationCounts()
	fmt.Fprintf(w, "tree:      %s\n", name)
	fmt.Fprintf(w, "nodes:     %d\n", tt.NodeCount())
	fmt.Fprintf(w, "edges:     %d\n", len(tt.Edges))
	fmt.Fprintf(w, "snvs:      %d\n", snvs)
	fmt.Fprintf(w, "cnvs:      %d\n", cnvs)
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
