// Package backend implements the spooler invocation contract. The
// spooler launches the backend with a fixed positional argument vector
// and understands exactly two exit sentinels; everything interesting it
// learns comes from the stderr log channel.
package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"inkdrop/internal/capture"
	"inkdrop/internal/config"
	"inkdrop/internal/identity"
	"inkdrop/internal/journal"
	"inkdrop/internal/logging"
)

// Exit sentinels recognized by the spooler. There is no
// partial-success value.
const (
	StatusOK     = 0
	StatusFailed = 1
)

// ErrUsage marks an invocation with an argument count the contract
// does not allow.
var ErrUsage = errors.New("usage error")

// Request is a parsed invocation.
type Request struct {
	// Discovery is the zero-argument probe: succeed immediately, touch
	// nothing.
	Discovery bool
	Job       capture.Job
	// InputPath is the optional sixth argument; empty means the
	// payload arrives on the inherited input stream.
	InputPath string
}

// ParseArgs interprets the argument vector after the program name.
// Positions are fixed: job id, user, title, copy count (ignored),
// print options (ignored), optional input file.
func ParseArgs(args []string) (Request, error) {
	switch len(args) {
	case 0:
		return Request{Discovery: true}, nil
	case 5, 6:
		req := Request{
			Job: capture.Job{
				ID:    args[0],
				User:  args[1],
				Title: args[2],
			},
		}
		if len(args) == 6 {
			req.InputPath = args[5]
		}
		return req, nil
	default:
		return Request{}, fmt.Errorf("%w: expected 0, 5, or 6 arguments, got %d", ErrUsage, len(args))
	}
}

// RunOptions injects the backend's collaborators. Zero values select
// production behavior.
type RunOptions struct {
	Args     []string
	Stdin    io.Reader
	Config   *config.Config    // nil: load from env/default path
	Logger   *slog.Logger      // nil: built from config
	Resolver identity.Resolver // nil: OS user database
}

// Run executes one backend invocation and returns the exit sentinel.
func Run(opts RunOptions) int {
	req, err := ParseArgs(opts.Args)
	if err != nil {
		fallbackLogger(opts.Logger).Error("invalid invocation",
			logging.Int("argc", len(opts.Args)),
			logging.Error(err),
		)
		return StatusFailed
	}
	if req.Discovery {
		return StatusOK
	}

	cfg := opts.Config
	if cfg == nil {
		loaded, _, _, loadErr := config.Load("")
		if loadErr != nil {
			fallbackLogger(opts.Logger).Error("load config", logging.Error(loadErr))
			return StatusFailed
		}
		cfg = loaded
	}

	logger := opts.Logger
	if logger == nil {
		built, logErr := logging.NewFromConfig(cfg)
		if logErr != nil {
			fallbackLogger(nil).Error("init logger", logging.Error(logErr))
			return StatusFailed
		}
		logger = built
	}

	invocationID := uuid.NewString()
	logger = logger.With(logging.String("request_id", invocationID))

	driver := capture.New(cfg, opts.Resolver, logger)
	result, err := driver.Run(capture.Request{
		Job:       req.Job,
		InputPath: req.InputPath,
		Input:     opts.Stdin,
	})

	recordJournal(cfg, logger, invocationID, req.Job, result, err)

	if err != nil {
		logger.Error("job capture failed",
			logging.String("job", req.Job.ID),
			logging.Error(err),
		)
		return StatusFailed
	}
	return StatusOK
}

// recordJournal is best-effort: the queue directory is the source of
// truth and a journal problem must never change the job outcome.
func recordJournal(cfg *config.Config, logger *slog.Logger, invocationID string, job capture.Job, result *capture.Result, runErr error) {
	if !cfg.Journal.Enabled {
		return
	}

	store, err := journal.Open(cfg.JournalPath())
	if err != nil {
		logger.Debug("open journal", logging.Error(err))
		return
	}
	defer store.Close()

	entry := journal.Entry{
		InvocationID: invocationID,
		JobID:        job.ID,
		User:         job.User,
		Title:        job.Title,
		Outcome:      journal.OutcomeQueued,
	}
	if result != nil {
		entry.Format = string(result.Format)
		entry.Bytes = result.BytesCaptured
		entry.DocumentPath = result.DocumentPath
	}
	if runErr != nil {
		entry.Outcome = journal.OutcomeFailed
	}

	if err := store.Record(context.Background(), entry); err != nil {
		logger.Debug("record journal entry", logging.Error(err))
	}
}

func fallbackLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	built, err := logging.New(logging.Options{})
	if err != nil {
		return logging.NewNop()
	}
	return built
}
