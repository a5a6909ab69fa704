package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"inkdrop/internal/sidecar"
	"inkdrop/internal/spool"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var stageFlag string

	cmd := &cobra.Command{
		Use:   "show <entry-base>",
		Short: "Show the sidecar descriptor of a queue entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stage, err := parseStage(stageFlag)
			if err != nil {
				return err
			}
			layout, err := ctx.layout()
			if err != nil {
				return err
			}

			base := args[0]
			desc, err := sidecar.Read(filepath.Join(layout.Dir(stage), base+".json"))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Entry:    %s\n", base)
			fmt.Fprintf(out, "Document: %s\n", desc.Document)
			fmt.Fprintf(out, "Title:    %s\n", desc.Title)
			fmt.Fprintf(out, "User:     %s\n", desc.User)
			fmt.Fprintf(out, "Job:      %s\n", desc.Job)
			return nil
		},
	}

	cmd.Flags().StringVarP(&stageFlag, "stage", "s", string(spool.StageIncoming), "Lifecycle stage containing the entry")
	return cmd
}
