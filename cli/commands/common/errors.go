package common

import (
	"fmt"
)

// Process exit codes.
const (
	ExitCodeRemote      = 1
	ExitCodeConfig      = 2
	ExitCodeInterrupted = 130
)

var _ error = new(InstallerArgsError)

// InstallerArgsError occurs when positional arguments are given but not exactly as accounts file and config file.
type InstallerArgsError struct {
	Args []string
}

func (err *InstallerArgsError) Error() string {
	return fmt.Sprintf("expected <accounts-file> <config-file>, got %d arguments", len(err.Args))
}
