package cfn

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"

	"github.com/delegat/stackdeploy/internal/errors"
	"github.com/delegat/stackdeploy/pkg/log"
)

// PollOptions configures the cadence of a convergence wait.
type PollOptions struct {
	// Interval between two status reads while in progress.
	Interval time.Duration
	// Cooldown after a terminal status, before returning.
	Cooldown time.Duration
	// ThrottleDelay before re-polling after a throttling error.
	ThrottleDelay time.Duration
	// ConflictDelay before re-polling after a conflicting operation error.
	ConflictDelay time.Duration
	// MaxWait bounds the whole wait. Zero waits until a terminal status.
	MaxWait time.Duration
}

// DefaultPollOptions returns the production cadence.
func DefaultPollOptions() PollOptions {
	return PollOptions{
		Interval:      5 * time.Second,  //nolint:mnd
		Cooldown:      5 * time.Second,  //nolint:mnd
		ThrottleDelay: 10 * time.Second, //nolint:mnd
		ConflictDelay: 30 * time.Second, //nolint:mnd
	}
}

// StatusFunc reads the current status of one resource.
type StatusFunc func(ctx context.Context) (Convergence, error)

// Poller waits for resources to reach a terminal status.
type Poller struct {
	opts   PollOptions
	logger log.Logger
	now    func() time.Time
}

// NewPoller returns a poller with the given cadence.
func NewPoller(l log.Logger, opts PollOptions) *Poller {
	return &Poller{opts: opts, logger: l, now: time.Now}
}

// Wait polls status until it reports a terminal state and returns that state. Terminal states other than success do
// not produce an error; they are logged and left to the caller. Throttling and conflicting operation errors are
// retried without limit, any other error is returned immediately.
func (poller *Poller) Wait(ctx context.Context, resource string, target RemoteTarget, status StatusFunc) (Convergence, error) {
	var (
		start = poller.now()
		last  Convergence
		l     = poller.logger.WithField(log.FieldKeyTarget, target.String())
	)

	for {
		conv, err := status(ctx)
		if err != nil {
			delay, ok := poller.transientDelay(l, resource, err)
			if !ok {
				return last, err
			}

			if err := poller.pause(ctx, start, resource, target, last, delay); err != nil {
				return last, err
			}

			continue
		}

		if conv.Status != last.Status {
			l.Infof("%s: %s", resource, conv.Status)
		}

		last = conv

		if conv.State.Terminal() {
			if !conv.State.Healthy() {
				l.Warnf("%s finished in status %s (%s)", resource, conv.Status, conv.State)
			}

			if err := sleep(ctx, poller.opts.Cooldown); err != nil {
				return conv, err
			}

			return conv, nil
		}

		if err := poller.pause(ctx, start, resource, target, last, poller.opts.Interval); err != nil {
			return last, err
		}
	}
}

// Retry runs call until it succeeds or fails with an error other than throttling or a conflicting operation. It
// shares the delays and the maximum wait of Wait. The error of the last attempt is returned unwrapped so callers can
// classify it.
func (poller *Poller) Retry(ctx context.Context, resource string, target RemoteTarget, call func(ctx context.Context) error) error {
	var (
		start = poller.now()
		l     = poller.logger.WithField(log.FieldKeyTarget, target.String())
	)

	for {
		err := call(ctx)
		if err == nil {
			return nil
		}

		delay, ok := poller.transientDelay(l, resource, err)
		if !ok {
			return err
		}

		if err := poller.pause(ctx, start, resource, target, Convergence{}, delay); err != nil {
			return err
		}
	}
}

// transientDelay returns how long to back off before retrying after err, and false if err is not retryable.
func (poller *Poller) transientDelay(l log.Logger, resource string, err error) (time.Duration, bool) {
	switch {
	case IsThrottling(err):
		l.Debugf("Throttled on %s, retrying in %s", resource, poller.opts.ThrottleDelay)
		return poller.opts.ThrottleDelay, true
	case IsOperationInProgress(err):
		l.Debugf("Another operation is in progress on %s, retrying in %s", resource, poller.opts.ConflictDelay)
		return poller.opts.ConflictDelay, true
	}

	return 0, false
}

// pause sleeps for delay unless that would exceed the maximum wait.
func (poller *Poller) pause(ctx context.Context, start time.Time, resource string, target RemoteTarget, last Convergence, delay time.Duration) error {
	if poller.opts.MaxWait > 0 {
		if waited := poller.now().Sub(start); waited+delay > poller.opts.MaxWait {
			return errors.New(ConvergenceTimeoutError{Resource: resource, Target: target, LastStatus: last.Status, Waited: waited})
		}
	}

	return sleep(ctx, delay)
}

func sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return errors.New(ctx.Err())
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return errors.New(ctx.Err())
	case <-timer.C:
		return nil
	}
}

// StackStatus reads the status of a stack through a fresh client on every call.
func StackStatus(provider ClientProvider, target RemoteTarget, name string) StatusFunc {
	return func(ctx context.Context) (Convergence, error) {
		client, err := provider.Client(ctx, target)
		if err != nil {
			return Convergence{}, err
		}

		out, err := client.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{StackName: aws.String(name)})
		if err != nil {
			return Convergence{}, errors.New(err)
		}

		if len(out.Stacks) == 0 {
			return Convergence{}, errors.New(EmptyResponseError{Operation: "DescribeStacks", Resource: name})
		}

		status := string(out.Stacks[0].StackStatus)

		return Convergence{Status: status, State: StackState(status)}, nil
	}
}

// StackSetStatus reads the status of a stack set through a fresh client on every call.
func StackSetStatus(provider ClientProvider, target RemoteTarget, name string) StatusFunc {
	return func(ctx context.Context) (Convergence, error) {
		client, err := provider.Client(ctx, target)
		if err != nil {
			return Convergence{}, err
		}

		out, err := client.DescribeStackSet(ctx, &cloudformation.DescribeStackSetInput{StackSetName: aws.String(name)})
		if err != nil {
			return Convergence{}, errors.New(err)
		}

		if out.StackSet == nil {
			return Convergence{}, errors.New(EmptyResponseError{Operation: "DescribeStackSet", Resource: name})
		}

		status := string(out.StackSet.Status)

		return Convergence{Status: status, State: StackSetState(status)}, nil
	}
}

// OperationStatus reads the status of a stack set operation through a fresh client on every call.
func OperationStatus(provider ClientProvider, target RemoteTarget, setName, operationID string) StatusFunc {
	return func(ctx context.Context) (Convergence, error) {
		client, err := provider.Client(ctx, target)
		if err != nil {
			return Convergence{}, err
		}

		out, err := client.DescribeStackSetOperation(ctx, &cloudformation.DescribeStackSetOperationInput{
			StackSetName: aws.String(setName),
			OperationId:  aws.String(operationID),
		})
		if err != nil {
			return Convergence{}, errors.New(err)
		}

		if out.StackSetOperation == nil {
			return Convergence{}, errors.New(EmptyResponseError{Operation: "DescribeStackSetOperation", Resource: setName + "/" + operationID})
		}

		status := string(out.StackSetOperation.Status)

		return Convergence{Status: status, State: OperationState(status)}, nil
	}
}
