package service

import (
	"errors"
	"fmt"
)

// ErrNoSiteSelected is returned by queries that need a site when none is
// given and none is selected.
var ErrNoSiteSelected = errors.New("no site selected")

// PersistError reports a change that was applied in memory but could not be
// saved. It unwraps to the repository error.
type PersistError struct {
	Op  string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("%s: change applied but not saved: %v", e.Op, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// IsUnpersisted reports whether err signals an applied but unsaved change.
func IsUnpersisted(err error) bool {
	var pe *PersistError
	return errors.As(err, &pe)
}
