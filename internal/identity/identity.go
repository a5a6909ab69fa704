// Package identity resolves the requesting user to a numeric OS
// identity and normalizes ownership of staged artifacts. Resolution
// failure is fatal to a job (the consumer runs as that user), while
// chown/chmod failures are demoted to warning values so the job can
// still succeed with the files owned by the staging process.
package identity

import (
	"fmt"
	"os"
	"os/user"
	"strconv"
)

// Identity is a resolved numeric OS identity.
type Identity struct {
	UID int
	GID int
}

// Resolver looks up an OS identity for a user name.
type Resolver interface {
	Lookup(username string) (Identity, error)
}

// OS resolves identities through the operating system's user database.
type OS struct{}

func (OS) Lookup(username string) (Identity, error) {
	u, err := user.Lookup(username)
	if err != nil {
		return Identity{}, fmt.Errorf("lookup user %q: %w", username, err)
	}
	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return Identity{}, fmt.Errorf("parse uid %q for %q: %w", u.Uid, username, err)
	}
	gid, err := strconv.Atoi(u.Gid)
	if err != nil {
		return Identity{}, fmt.Errorf("parse gid %q for %q: %w", u.Gid, username, err)
	}
	return Identity{UID: uid, GID: gid}, nil
}

// Warning pairs a path with the ownership or permission error it hit.
type Warning struct {
	Path string
	Err  error
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %v", w.Path, w.Err)
}

// Normalize applies id and mode to each path. It never fails; every
// problem comes back as a warning value for the caller to log.
func Normalize(id Identity, mode os.FileMode, paths ...string) []Warning {
	var warnings []Warning
	for _, path := range paths {
		if err := os.Chown(path, id.UID, id.GID); err != nil {
			warnings = append(warnings, Warning{Path: path, Err: err})
		}
		if err := os.Chmod(path, mode); err != nil {
			warnings = append(warnings, Warning{Path: path, Err: err})
		}
	}
	return warnings
}
