package cfn

import (
	"fmt"
	"strings"
	"time"

	"github.com/aws/smithy-go"

	"github.com/delegat/stackdeploy/internal/errors"
)

// CloudFormation error codes.
const (
	codeValidationError           = "ValidationError"
	codeStackSetNotFound          = "StackSetNotFoundException"
	codeAlreadyExists             = "AlreadyExistsException"
	codeNameAlreadyExists         = "NameAlreadyExistsException"
	codeOperationInProgress       = "OperationInProgressException"
	messageDoesNotExist           = "does not exist"
	messageNoUpdatesToBePerformed = "No updates are to be performed"
)

var throttlingCodes = map[string]bool{
	"Throttling":               true,
	"ThrottlingException":      true,
	"TooManyRequestsException": true,
	"RequestLimitExceeded":     true,
}

func apiError(err error) (smithy.APIError, bool) {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}

	return nil, false
}

func hasCode(err error, code string) bool {
	apiErr, ok := apiError(err)
	return ok && apiErr.ErrorCode() == code
}

// IsStackNotFound returns true if err reports that a stack does not exist.
func IsStackNotFound(err error) bool {
	apiErr, ok := apiError(err)

	return ok && apiErr.ErrorCode() == codeValidationError && strings.Contains(apiErr.ErrorMessage(), messageDoesNotExist)
}

// IsStackSetNotFound returns true if err reports that a stack set does not exist.
func IsStackSetNotFound(err error) bool {
	return hasCode(err, codeStackSetNotFound)
}

// IsNoUpdates returns true if err reports that an update would not change the stack.
func IsNoUpdates(err error) bool {
	apiErr, ok := apiError(err)

	return ok && apiErr.ErrorCode() == codeValidationError && strings.Contains(apiErr.ErrorMessage(), messageNoUpdatesToBePerformed)
}

// IsAlreadyExists returns true if err reports that a stack or stack set with the same name exists.
func IsAlreadyExists(err error) bool {
	return hasCode(err, codeAlreadyExists) || hasCode(err, codeNameAlreadyExists)
}

// IsThrottling returns true if err is a request rate error.
func IsThrottling(err error) bool {
	apiErr, ok := apiError(err)
	return ok && throttlingCodes[apiErr.ErrorCode()]
}

// IsOperationInProgress returns true if err reports a conflicting operation on the same resource.
func IsOperationInProgress(err error) bool {
	return hasCode(err, codeOperationInProgress)
}

// TemplateTooLargeError occurs when a template body exceeds the inline size limit of CloudFormation.
type TemplateTooLargeError struct {
	Path  string
	Size  int64
	Limit int64
}

func (err TemplateTooLargeError) Error() string {
	return fmt.Sprintf("template %s is %d bytes, larger than the %d bytes accepted inline by CloudFormation", err.Path, err.Size, err.Limit)
}

// ConvergenceTimeoutError occurs when a resource has not reached a terminal status within the maximum wait.
type ConvergenceTimeoutError struct {
	Resource   string
	Target     RemoteTarget
	LastStatus string
	Waited     time.Duration
}

func (err ConvergenceTimeoutError) Error() string {
	return fmt.Sprintf("%s in %s did not converge within %s, last status %q", err.Resource, err.Target, err.Waited, err.LastStatus)
}

// EmptyResponseError occurs when a describe call succeeds without describing anything.
type EmptyResponseError struct {
	Operation string
	Resource  string
}

func (err EmptyResponseError) Error() string {
	return fmt.Sprintf("%s returned no description of %s", err.Operation, err.Resource)
}
