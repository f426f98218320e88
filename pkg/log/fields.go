package log

// Field keys shared by the deployment packages.
const (
	FieldKeyRepo   = "repo"
	FieldKeyPhase  = "phase"
	FieldKeyJob    = "job"
	FieldKeyTarget = "target"
)

// Fields type, used to pass to `WithFields`.
type Fields map[string]any
