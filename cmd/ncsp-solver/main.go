package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var paramFile string

	cmd := &cobra.Command{
		Use:   "ncsp_solver <problem-file>",
		Short: "Solve a numerical constraint satisfaction problem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(args[0], paramFile)
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVarP(&paramFile, "param", "p", "", "parameter file")
	return cmd
}

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		var rerr *RunError
		code := ExitInternal
		if errors.As(err, &rerr) {
			code = rerr.Code
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(int(code))
	}
}
