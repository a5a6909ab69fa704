package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"inkdrop/internal/preflight"
	"inkdrop/internal/spool"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show queue stage counts and preflight checks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			layout := spool.Layout{Root: cfg.Paths.QueueRoot}
			out := cmd.OutOrStdout()

			rows := make([][]string, 0, len(spool.Stages()))
			for _, stage := range spool.Stages() {
				entries, listErr := layout.List(stage)
				count := "-"
				if listErr == nil {
					count = strconv.Itoa(len(entries))
				}
				rows = append(rows, []string{stage.DisplayName(), count})
			}
			renderRows(out, []string{"Stage", "Entries"}, rows, []columnAlignment{alignLeft, alignRight})

			fmt.Fprintln(out)
			checks := preflight.CheckAll(cfg)
			checkRows := make([][]string, 0, len(checks))
			for _, res := range checks {
				mark := "FAIL"
				if res.Passed {
					mark = "ok"
				}
				checkRows = append(checkRows, []string{res.Name, mark, res.Detail})
			}
			renderRows(out, []string{"Check", "Result", "Detail"}, checkRows, nil)

			if !preflight.Passed(checks) {
				return fmt.Errorf("preflight checks failed")
			}
			return nil
		},
	}
}
