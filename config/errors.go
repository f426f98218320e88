package config

import (
	"fmt"
	"strings"
)

// MissingKeyError occurs when a required key is absent from a configuration file.
type MissingKeyError struct {
	File string
	Key  string
}

func (err MissingKeyError) Error() string {
	return fmt.Sprintf("%s: required key %q is missing", err.File, err.Key)
}

// InvalidValueError occurs when a key holds a value of the wrong type or shape.
type InvalidValueError struct {
	File   string
	Key    string
	Reason string
}

func (err InvalidValueError) Error() string {
	return fmt.Sprintf("%s: invalid value for %q: %s", err.File, err.Key, err.Reason)
}

// UnknownKeysError occurs when a configuration file contains keys the schema does not know about.
type UnknownKeysError struct {
	File string
	Keys []string
}

func (err UnknownKeysError) Error() string {
	return fmt.Sprintf("%s: unknown keys: %s", err.File, strings.Join(err.Keys, ", "))
}

// DuplicateJobError occurs when two jobs of the same phase share a name.
type DuplicateJobError struct {
	File  string
	Phase string
	Name  string
}

func (err DuplicateJobError) Error() string {
	return fmt.Sprintf("%s: job %q is declared more than once in %s", err.File, err.Name, err.Phase)
}

// ConflictingFormsError occurs when a manifest declares both the packaged (SAM) and non-packaged job list.
type ConflictingFormsError struct {
	File string
}

func (err ConflictingFormsError) Error() string {
	return fmt.Sprintf("%s: %q and %q are mutually exclusive", err.File, KeySAM, KeyJobs)
}

// RepoNotFoundError occurs when the global parameter store has no section for the repository.
type RepoNotFoundError struct {
	File string
	Repo string
}

func (err RepoNotFoundError) Error() string {
	return fmt.Sprintf("%s: repository %q not found", err.File, err.Repo)
}

// ReadFileError occurs when a configuration file cannot be read or parsed.
type ReadFileError struct {
	File string
	Err  error
}

func (err ReadFileError) Error() string {
	return fmt.Sprintf("error loading %s: %v", err.File, err.Err)
}

func (err ReadFileError) Unwrap() error {
	return err.Err
}
