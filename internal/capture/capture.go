// Package capture implements the job capture driver: it owns the temp
// file end to end and runs the strict sequence temp capture → format
// sniff → identity resolution → atomic staging → sidecar → ownership
// normalization. Everything before ownership is fatal on failure;
// ownership problems come back as warnings on the result.
package capture

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"inkdrop/internal/config"
	"inkdrop/internal/identity"
	"inkdrop/internal/logging"
	"inkdrop/internal/sidecar"
	"inkdrop/internal/sniff"
	"inkdrop/internal/spool"
	"inkdrop/internal/stage"
)

// Job carries the spooler-supplied attributes of one print job.
type Job struct {
	ID    string
	User  string
	Title string
}

// Request describes the byte source for one capture. InputPath wins
// when set; otherwise Input is consumed (the backend passes stdin).
type Request struct {
	Job       Job
	InputPath string
	Input     io.Reader
}

// Result reports a successful capture.
type Result struct {
	BytesCaptured int64
	Format        sniff.Format
	Base          string
	DocumentPath  string
	SidecarPath   string
	Method        stage.Method
	Warnings      []identity.Warning
}

// Driver orchestrates captures against one configuration.
type Driver struct {
	cfg      *config.Config
	resolver identity.Resolver
	logger   *slog.Logger
}

// New builds a driver. A nil resolver uses the OS user database; a nil
// logger discards diagnostics.
func New(cfg *config.Config, resolver identity.Resolver, logger *slog.Logger) *Driver {
	if resolver == nil {
		resolver = identity.OS{}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Driver{cfg: cfg, resolver: resolver, logger: logger}
}

const (
	// copyChunkSize bounds the capture buffer.
	copyChunkSize = 32 * 1024
	// fileMode is applied to both queue entry files.
	fileMode = 0o644
)

// Run executes one capture. On failure no queue entry exists, with two
// documented exceptions: the temp file is never cleaned up (it aids
// recovery and matches the established behavior), and a sidecar write
// failure leaves the already-staged document behind, which the
// consumer must tolerate.
func (d *Driver) Run(req Request) (*Result, error) {
	tmpPath, bytesCaptured, err := d.captureToTemp(req)
	if err != nil {
		return nil, wrap(ErrCapture, "capture input", err)
	}
	d.logger.Info("captured job data",
		logging.Int64("bytes", bytesCaptured),
		logging.String("temp", tmpPath),
	)

	format := sniff.DetectFile(tmpPath)
	if format == sniff.FormatPS {
		d.logger.Info("detected PostScript; queueing as .ps for conversion")
	}

	// Resolve before staging so an unknown user never leaves a queue
	// artifact behind.
	id, err := d.resolver.Lookup(req.Job.User)
	if err != nil {
		return nil, wrap(ErrIdentity, "resolve user", err)
	}

	layout := spool.Layout{Root: d.cfg.Paths.QueueRoot}
	if err := layout.Ensure(); err != nil {
		return nil, wrap(ErrStaging, "ensure queue layout", err)
	}

	base := spool.EntryBase(req.Job.ID, time.Now().Unix())
	docPath := filepath.Join(layout.Incoming(), base+"."+format.Ext())
	sidecarPath := filepath.Join(layout.Incoming(), base+".json")

	moved, err := stage.Move(tmpPath, docPath, fileMode)
	if err != nil {
		// The temp file stays behind on purpose.
		return nil, wrap(ErrStaging, "stage document", err)
	}
	if !moved.SourceRemoved {
		d.logger.Warn("staged via copy but could not remove temp file",
			logging.String("temp", tmpPath),
		)
	}

	desc := sidecar.Descriptor{
		Document: docPath,
		Title:    req.Job.Title,
		User:     req.Job.User,
		Job:      req.Job.ID,
	}
	if err := desc.Write(sidecarPath); err != nil {
		return nil, wrap(ErrSidecar, "write sidecar", err)
	}

	warnings := identity.Normalize(id, fileMode, docPath, sidecarPath)
	for _, w := range warnings {
		d.logger.Warn("ownership normalization failed",
			logging.String("path", w.Path),
			logging.Error(w.Err),
		)
	}

	d.logger.Info("queued for conversion",
		logging.String("document", docPath),
		logging.String("method", string(moved.Method)),
	)

	return &Result{
		BytesCaptured: bytesCaptured,
		Format:        format,
		Base:          base,
		DocumentPath:  docPath,
		SidecarPath:   sidecarPath,
		Method:        moved.Method,
		Warnings:      warnings,
	}, nil
}

// captureToTemp streams the request's byte source into an exclusively
// created temp file in the scratch directory. The temp file's fate on
// error is unspecified; nothing cleans it up.
func (d *Driver) captureToTemp(req Request) (string, int64, error) {
	input := req.Input
	if req.InputPath != "" {
		f, err := os.Open(req.InputPath)
		if err != nil {
			return "", 0, fmt.Errorf("open input file %q: %w", req.InputPath, err)
		}
		defer f.Close()
		input = f
	}
	if input == nil {
		return "", 0, fmt.Errorf("no input source")
	}

	tmp, err := os.CreateTemp(d.cfg.ScratchDir(), "inkdrop-print-*")
	if err != nil {
		return "", 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	written, err := copyStream(tmp, input)
	if err != nil {
		_ = tmp.Close()
		return tmpPath, written, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return tmpPath, written, fmt.Errorf("close temp file: %w", err)
	}
	return tmpPath, written, nil
}

// copyStream copies in bounded chunks, accumulating partial writes so
// bytes written always equals bytes read on success.
func copyStream(dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, copyChunkSize)
	var written int64
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			off := 0
			for off < n {
				wn, writeErr := dst.Write(buf[off:n])
				if writeErr != nil {
					return written, writeErr
				}
				if wn == 0 {
					return written, io.ErrShortWrite
				}
				off += wn
				written += int64(wn)
			}
		}
		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, readErr
		}
	}
}
