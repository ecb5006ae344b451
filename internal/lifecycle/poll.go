package lifecycle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/runvoy/ecstasks/internal/api"
	appErrors "github.com/runvoy/ecstasks/internal/errors"
)

// TimeoutReasonRuntime is the reason given when the invoking runtime is about to end the invocation.
const TimeoutReasonRuntime = "Lambda function reached maximum execution time"

// poll waits for every task to stop, then classifies the group.
// Before each sleep the remaining time is sampled fresh; when less than one poll
// interval plus the safety margin is left the loop fails instead of sleeping.
// Launch failures are carried into every refreshed result.
func (o *Orchestrator) poll(ctx context.Context, inv *invocation, result *api.TaskResult) error {
	launchFailures := result.Failures
	arns := result.TaskARNs()
	budgetEnd := inv.startedAt.Add(inv.request.TimeoutDuration())
	need := o.cfg.PollInterval + o.cfg.SafetyMargin

	for iteration := 1; ; iteration++ {
		if err := o.checkDeadline(inv, budgetEnd, need); err != nil {
			return err
		}

		if result.AllStopped() {
			return o.classify(ctx, inv, result)
		}

		inv.log.Debug("waiting for tasks to stop", "context", map[string]any{
			"iteration":     iteration,
			"running_count": countRunning(result),
			"poll_interval": o.cfg.PollInterval.String(),
		})

		if err := o.sleep(ctx, o.cfg.PollInterval); err != nil {
			return appErrors.ErrTransport("polling interrupted", fmt.Errorf("polling interrupted: %w", err))
		}

		refreshed, err := o.cluster.DescribeTasks(ctx, inv.request.Cluster, arns)
		if err != nil {
			return err
		}
		refreshed.Failures = append(append([]api.TaskFailure(nil), launchFailures...), refreshed.Failures...)
		result = refreshed
	}
}

func (o *Orchestrator) checkDeadline(inv *invocation, budgetEnd time.Time, need time.Duration) error {
	if inv.remaining != nil {
		if left := inv.remaining(); left < need {
			inv.log.Warn("execution deadline too close to poll again", "context", map[string]any{
				"remaining": left.String(),
				"needed":    need.String(),
			})
			return appErrors.ErrTimeout(TimeoutReasonRuntime, nil)
		}
	}

	if left := budgetEnd.Sub(o.now()); left < need {
		inv.log.Warn("request timeout too close to poll again", "context", map[string]any{
			"remaining": left.String(),
			"needed":    need.String(),
			"timeout_s": inv.request.Timeout,
		})
		return appErrors.ErrTimeout(
			fmt.Sprintf("Tasks did not stop within the %d second timeout", inv.request.Timeout), nil)
	}

	return nil
}

// classify judges a fully stopped group. Scheduling failures take precedence over exit codes.
func (o *Orchestrator) classify(ctx context.Context, inv *invocation, result *api.TaskResult) error {
	if len(result.Failures) > 0 {
		parts := make([]string, 0, len(result.Failures))
		for _, f := range result.Failures {
			parts = append(parts, f.String())
		}
		return appErrors.ErrSchedulingFailure("["+strings.Join(parts, ", ")+"]", nil)
	}

	exits := result.NonZeroExits()
	if len(exits) > 0 {
		o.logFailureTails(ctx, inv, result, exits)
		parts := make([]string, 0, len(exits))
		for _, e := range exits {
			parts = append(parts, e.String())
		}
		return appErrors.ErrExitCodeFailure("["+strings.Join(parts, ", ")+"]", nil)
	}

	return nil
}

// logFailureTails logs the last lines of every failed container. Errors are logged and ignored.
func (o *Orchestrator) logFailureTails(
	ctx context.Context, inv *invocation, result *api.TaskResult, exits []api.NonZeroExit,
) {
	if o.tailer == nil || o.cfg.FailureLogLines <= 0 {
		return
	}

	tasks := make(map[string]*api.Task, len(result.Tasks))
	for i := range result.Tasks {
		tasks[result.Tasks[i].ARN] = &result.Tasks[i]
	}

	for _, e := range exits {
		task, ok := tasks[e.TaskARN]
		if !ok {
			continue
		}
		lines, err := o.tailer.FetchLogTail(ctx, task, e.Container, o.cfg.FailureLogLines)
		if err != nil {
			inv.log.Debug("container log tail unavailable", "context", map[string]any{
				"task_arn":  e.TaskARN,
				"container": e.Container,
				"error":     err.Error(),
			})
			continue
		}
		inv.log.Error("failed container output", "context", map[string]any{
			"task_arn":  e.TaskARN,
			"container": e.Container,
			"lines":     lines,
		})
	}
}

func countRunning(result *api.TaskResult) int {
	n := 0
	for i := range result.Tasks {
		if !result.Tasks[i].IsStopped() {
			n++
		}
	}
	return n
}
