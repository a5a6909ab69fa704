// Package preflight verifies the filesystem preconditions the backend
// relies on: a writable scratch directory for temp capture and a
// healthy queue tree. The CLI surfaces these so operators can find
// permission problems before the spooler does.
package preflight

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"inkdrop/internal/config"
	"inkdrop/internal/spool"
)

// Result is the outcome of one check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// CheckDirectoryAccess verifies that the directory exists and is
// readable/writable/searchable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckQueueLayout verifies that every stage directory of the queue
// tree is present and accessible.
func CheckQueueLayout(layout spool.Layout) []Result {
	results := make([]Result, 0, len(spool.Stages())+1)
	results = append(results, CheckDirectoryAccess("Queue root", layout.Root))
	for _, stage := range spool.Stages() {
		results = append(results, CheckDirectoryAccess(stage.DisplayName()+" stage", layout.Dir(stage)))
	}
	return results
}

// CheckAll evaluates every precondition for the given config.
func CheckAll(cfg *config.Config) []Result {
	results := []Result{
		CheckDirectoryAccess("Scratch directory", cfg.ScratchDir()),
	}
	results = append(results, CheckQueueLayout(spool.Layout{Root: cfg.Paths.QueueRoot})...)
	return results
}

// Passed reports whether every result passed.
func Passed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}
