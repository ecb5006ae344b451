// Package lifecycle runs a task group through one custom resource lifecycle event.
// Create and Update launch the group and wait for every task to stop; Delete stops
// whatever is still tagged with the resource identity. Every invocation ends in
// exactly one verdict.
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/runvoy/ecstasks/internal/api"
	"github.com/runvoy/ecstasks/internal/constants"
	"github.com/runvoy/ecstasks/internal/database"
	appErrors "github.com/runvoy/ecstasks/internal/errors"
	"github.com/runvoy/ecstasks/internal/identity"
	"github.com/runvoy/ecstasks/internal/logger"
	"github.com/runvoy/ecstasks/internal/validation"
)

// ClusterClient is the set of cluster verbs the orchestrator consumes.
type ClusterClient interface {
	StartTask(ctx context.Context, req *api.TaskRequest) (*api.TaskResult, error)
	DescribeTasks(ctx context.Context, cluster string, taskARNs []string) (*api.TaskResult, error)
	ListTasks(ctx context.Context, cluster, startedBy string) ([]string, error)
	StopTask(ctx context.Context, cluster, taskARN, reason string) error
}

// LogTailer fetches the last lines a container wrote before it stopped.
type LogTailer interface {
	FetchLogTail(ctx context.Context, task *api.Task, container string, lines int) ([]string, error)
}

// RemainingTimeFunc reports how much execution time the invoking runtime has left.
// It is sampled on every poll iteration.
type RemainingTimeFunc func() time.Duration

// BudgetRemaining measures the time left until now()+budget, or until the
// deadline of ctx when that comes first.
func BudgetRemaining(ctx context.Context, now func() time.Time, budget time.Duration) RemainingTimeFunc {
	end := now().Add(budget)
	if deadline, ok := ctx.Deadline(); ok && deadline.Before(end) {
		end = deadline
	}
	return func() time.Duration {
		return end.Sub(now())
	}
}

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Config holds the polling parameters.
type Config struct {
	PollInterval    time.Duration
	SafetyMargin    time.Duration
	FailureLogLines int
}

// DefaultConfig returns the standard 10 second poll with a 5 second safety margin.
func DefaultConfig() *Config {
	return &Config{
		PollInterval:    constants.DefaultPollInterval,
		SafetyMargin:    constants.DefaultSafetyMargin,
		FailureLogLines: constants.DefaultFailureLogLines,
	}
}

// Orchestrator drives lifecycle events against a cluster.
// It keeps no per-invocation state and can serve any number of invocations.
type Orchestrator struct {
	cluster ClusterClient
	tailer  LogTailer
	ledger  database.InvocationRepository
	cfg     *Config
	logger  *slog.Logger
	now     func() time.Time
	sleep   SleepFunc
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogTailer enables log tails for containers that exit non-zero.
func WithLogTailer(tailer LogTailer) Option {
	return func(o *Orchestrator) {
		o.tailer = tailer
	}
}

// WithLedger records every verdict in repo.
func WithLedger(repo database.InvocationRepository) Option {
	return func(o *Orchestrator) {
		o.ledger = repo
	}
}

// WithClock replaces the wall clock and the sleep used between polls.
func WithClock(now func() time.Time, sleep SleepFunc) Option {
	return func(o *Orchestrator) {
		o.now = now
		o.sleep = sleep
	}
}

// NewOrchestrator creates an orchestrator bound to a cluster client.
func NewOrchestrator(cluster ClusterClient, cfg *Config, log *slog.Logger, opts ...Option) *Orchestrator {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	o := &Orchestrator{
		cluster: cluster,
		cfg:     cfg,
		logger:  log,
		now:     time.Now,
		sleep:   sleepContext,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// invocation is the state owned by one Handle call.
type invocation struct {
	event      *api.LifecycleEvent
	identity   string
	startedAt  time.Time
	remaining  RemainingTimeFunc
	request    *api.TaskRequest
	physicalID string
	taskARNs   []string
	log        *slog.Logger
}

// Handle processes one lifecycle event and returns its verdict.
// It never panics and never returns without a verdict. A nil remaining
// accessor means the runtime imposes no deadline.
func (o *Orchestrator) Handle(
	ctx context.Context,
	event *api.LifecycleEvent,
	remaining RemainingTimeFunc,
) *api.Verdict {
	inv := &invocation{
		event:     event,
		identity:  identity.Derive(event.StackID, event.LogicalResourceID),
		startedAt: o.now(),
		remaining: remaining,
	}
	inv.log = logger.DeriveRequestLogger(ctx, o.logger).With(
		"request_type", string(event.RequestType),
		"identity", inv.identity,
		"logical_resource_id", event.LogicalResourceID,
	)

	inv.log.Info("lifecycle event received", "context", map[string]any{
		"stack_id":             event.StackID,
		"cfn_request_id":       event.RequestID,
		"physical_resource_id": event.PhysicalResourceID,
	})

	err := o.dispatch(ctx, inv)
	verdict := NewVerdict(err, inv.physicalID, inv.taskARNs)

	if verdict.Succeeded() {
		inv.log.Info("lifecycle event succeeded", "context", map[string]any{
			"physical_resource_id": verdict.PhysicalResourceID,
			"task_arns":            verdict.TaskARNs,
		})
	} else {
		inv.log.Error("lifecycle event failed", "context", map[string]any{
			"kind":   verdict.Kind,
			"reason": verdict.Reason,
			"error":  err.Error(),
		})
	}

	o.record(ctx, inv, verdict)

	return verdict
}

// dispatch routes the event and converts a panic into an internal error.
func (o *Orchestrator) dispatch(ctx context.Context, inv *invocation) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = appErrors.ErrInternalError(fmt.Sprintf("panic: %v", r), nil)
		}
	}()

	switch inv.event.RequestType {
	case constants.RequestCreate, constants.RequestUpdate:
		return o.run(ctx, inv)
	case constants.RequestDelete:
		return o.teardown(ctx, inv)
	default:
		return appErrors.ErrValidation(
			fmt.Sprintf("RequestType %q must be Create, Update or Delete", inv.event.RequestType), nil)
	}
}

// run handles Create and Update.
func (o *Orchestrator) run(ctx context.Context, inv *invocation) error {
	req, err := validation.ParseTaskRequest(inv.event.ResourceProperties, inv.identity)
	if err != nil {
		return err
	}
	inv.request = req

	if inv.event.RequestType == constants.RequestUpdate && !req.RunOnUpdate {
		inv.log.Info("update skipped, RunOnUpdate is false")
		inv.physicalID = inv.event.PhysicalResourceID
		return nil
	}

	if req.Count == 0 {
		inv.log.Info("count is zero, nothing to launch")
		return nil
	}

	result, err := o.cluster.StartTask(ctx, req)
	if err != nil {
		return err
	}
	inv.taskARNs = result.TaskARNs()

	if err = o.poll(ctx, inv, result); err != nil {
		return err
	}

	if len(inv.taskARNs) > 0 {
		inv.physicalID = inv.taskARNs[0]
	}
	return nil
}

// teardown handles Delete. Stop failures are logged and never abort the remaining stops.
func (o *Orchestrator) teardown(ctx context.Context, inv *invocation) error {
	inv.physicalID = inv.event.PhysicalResourceID

	req, err := validation.ParseTaskRequest(inv.event.ResourceProperties, inv.identity)
	if err != nil {
		inv.log.Warn("delete with invalid properties, no task could have been started", "context", map[string]any{
			"error": appErrors.GetErrorMessage(err),
		})
		return nil
	}
	inv.request = req

	arns, err := o.cluster.ListTasks(ctx, req.Cluster, inv.identity)
	if err != nil {
		return err
	}
	inv.taskARNs = arns

	stopped := 0
	for _, arn := range arns {
		if stopErr := o.cluster.StopTask(ctx, req.Cluster, arn, constants.StopReason); stopErr != nil {
			inv.log.Warn("failed to stop task", "context", map[string]any{
				"task_arn": arn,
				"error":    stopErr.Error(),
			})
			continue
		}
		stopped++
	}

	inv.log.Info("teardown complete", "context", map[string]any{
		"cluster":     req.Cluster,
		"found_count": len(arns),
		"stop_count":  stopped,
	})
	return nil
}

// record writes the verdict to the ledger. Failures are logged only.
func (o *Orchestrator) record(ctx context.Context, inv *invocation, verdict *api.Verdict) {
	if o.ledger == nil {
		return
	}

	rec := &api.InvocationRecord{
		Identity:           inv.identity,
		InvokedAt:          inv.startedAt,
		RequestType:        string(inv.event.RequestType),
		RequestID:          inv.event.RequestID,
		StackID:            inv.event.StackID,
		LogicalResourceID:  inv.event.LogicalResourceID,
		Status:             string(verdict.Status),
		Kind:               verdict.Kind,
		Reason:             verdict.Reason,
		PhysicalResourceID: verdict.PhysicalResourceID,
		TaskARNs:           verdict.TaskARNs,
		DurationMillis:     o.now().Sub(inv.startedAt).Milliseconds(),
	}
	if inv.request != nil {
		rec.Cluster = inv.request.Cluster
	}

	if err := o.ledger.PutInvocation(ctx, rec); err != nil {
		inv.log.Warn("failed to record invocation", "context", map[string]any{
			"error": err.Error(),
		})
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
