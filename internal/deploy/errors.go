package deploy

import (
	"fmt"
)

// JobError attaches the phase and job to an error raised while preparing or running the job.
type JobError struct {
	Phase string
	Job   string
	Err   error
}

func (err JobError) Error() string {
	return fmt.Sprintf("%s %s: %v", err.Phase, err.Job, err.Err)
}

func (err JobError) Unwrap() error {
	return err.Err
}
