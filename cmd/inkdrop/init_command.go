package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the queue directory layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := ctx.layout()
			if err != nil {
				return err
			}
			if err := layout.Ensure(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Queue layout ready at %s\n", layout.Root)
			return nil
		},
	}
}
