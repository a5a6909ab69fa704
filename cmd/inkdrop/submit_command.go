package main

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"inkdrop/internal/capture"
	"inkdrop/internal/logging"
)

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	var userFlag string
	var titleFlag string
	var jobFlag string

	cmd := &cobra.Command{
		Use:   "submit <path>",
		Short: "Run a file through the capture pipeline by hand",
		Long: "Submit stages a local file exactly the way a spooler-invoked job " +
			"would be staged: temp capture, format sniff, atomic move into " +
			"incoming, sidecar, ownership normalization.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}
			info, err := os.Stat(absPath)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("file does not exist: %s", absPath)
				}
				return fmt.Errorf("inspect file: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("%s is a directory", absPath)
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			jobUser := strings.TrimSpace(userFlag)
			if jobUser == "" {
				current, userErr := user.Current()
				if userErr != nil {
					return fmt.Errorf("determine submitting user: %w", userErr)
				}
				jobUser = current.Username
			}
			title := strings.TrimSpace(titleFlag)
			if title == "" {
				title = filepath.Base(absPath)
			}
			jobID := strings.TrimSpace(jobFlag)
			if jobID == "" {
				jobID = "manual-" + uuid.NewString()[:8]
			}

			logger, err := logging.New(logging.Options{
				Level:  cfg.Logging.Level,
				Format: "text",
				Writer: cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}

			driver := capture.New(cfg, nil, logger)
			result, err := driver.Run(capture.Request{
				Job:       capture.Job{ID: jobID, User: jobUser, Title: title},
				InputPath: absPath,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Queued %s (%d bytes, %s)\n", result.Base, result.BytesCaptured, result.Format)
			for _, w := range result.Warnings {
				fmt.Fprintf(out, "warning: %s\n", w)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&userFlag, "user", "u", "", "Requesting user (defaults to the current user)")
	cmd.Flags().StringVarP(&titleFlag, "title", "t", "", "Job title (defaults to the file name)")
	cmd.Flags().StringVarP(&jobFlag, "job", "j", "", "Job identifier (defaults to a generated one)")
	return cmd
}
