package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"inkdrop/internal/spool"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var stageFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queue entries in a lifecycle stage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stage, err := parseStage(stageFlag)
			if err != nil {
				return err
			}
			layout, err := ctx.layout()
			if err != nil {
				return err
			}

			entries, err := layout.List(stage)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintf(out, "No entries in %s\n", stage.DisplayName())
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				sidecar := "missing"
				if e.HasSidecar() {
					sidecar = "yes"
				}
				rows = append(rows, []string{
					e.Base,
					e.Ext(),
					strconv.FormatInt(e.Size, 10),
					sidecar,
				})
			}
			renderRows(out,
				[]string{"Entry", "Format", "Bytes", "Sidecar"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
			)
			return nil
		},
	}

	cmd.Flags().StringVarP(&stageFlag, "stage", "s", string(spool.StageIncoming), "Lifecycle stage to list (incoming, processing, done, failed)")
	return cmd
}

func parseStage(value string) (spool.Stage, error) {
	for _, stage := range spool.Stages() {
		if string(stage) == value {
			return stage, nil
		}
	}
	return "", fmt.Errorf("unknown stage %q", value)
}
