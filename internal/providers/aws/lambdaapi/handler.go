// Package lambdaapi adapts the lifecycle orchestrator to the CloudFormation custom
// resource protocol of AWS Lambda.
package lambdaapi

import (
	"context"
	"log/slog"
	"time"

	"github.com/runvoy/ecstasks/internal/api"
	"github.com/runvoy/ecstasks/internal/constants"
	"github.com/runvoy/ecstasks/internal/identity"
	"github.com/runvoy/ecstasks/internal/lifecycle"
	"github.com/runvoy/ecstasks/internal/logger"

	"github.com/aws/aws-lambda-go/cfn"
)

// Orchestrator turns one lifecycle event into one verdict.
type Orchestrator interface {
	Handle(ctx context.Context, event *api.LifecycleEvent, remaining lifecycle.RemainingTimeFunc) *api.Verdict
}

// ResponseSender delivers the response document to the pre-signed ResponseURL.
type ResponseSender func(ctx context.Context, resp *cfn.Response) error

// HandlerFunc is the function registered with lambda.Start.
type HandlerFunc func(ctx context.Context, event cfn.Event) error

// HandlerOption configures the custom resource handler.
type HandlerOption func(*handler)

// WithResponseSender replaces the HTTP sender of the response document.
func WithResponseSender(sender ResponseSender) HandlerOption {
	return func(h *handler) {
		h.send = sender
	}
}

// WithNow replaces the clock used to measure the remaining execution time.
func WithNow(now func() time.Time) HandlerOption {
	return func(h *handler) {
		h.now = now
	}
}

type handler struct {
	orch   Orchestrator
	logger *slog.Logger
	send   ResponseSender
	now    func() time.Time
}

// NewCustomResourceHandler creates the Lambda handler for custom resource events.
// Every event gets exactly one response document. Classified failures are reported
// through the document, so the handler only returns an error when the document
// could not be delivered.
func NewCustomResourceHandler(orch Orchestrator, log *slog.Logger, opts ...HandlerOption) HandlerFunc {
	h := &handler{
		orch:   orch,
		logger: log,
		send:   sendResponse,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h.handle
}

func (h *handler) handle(ctx context.Context, event cfn.Event) error {
	reqLogger := logger.DeriveRequestLogger(ctx, h.logger)

	lifecycleEvent := ToLifecycleEvent(&event)
	verdict := h.orch.Handle(ctx, lifecycleEvent, h.remainingTime(ctx))

	resp := BuildResponse(&event, verdict)

	reqLogger.Debug("sending custom resource response", "context", map[string]any{
		"status":               string(resp.Status),
		"physical_resource_id": resp.PhysicalResourceID,
	})

	if err := h.send(ctx, resp); err != nil {
		reqLogger.Error("failed to send custom resource response", "context", map[string]any{
			"error":  err.Error(),
			"status": string(resp.Status),
		})
		return err
	}

	return nil
}

// remainingTime measures the context deadline set by the Lambda runtime.
func (h *handler) remainingTime(ctx context.Context) lifecycle.RemainingTimeFunc {
	deadline, ok := ctx.Deadline()
	if !ok {
		return nil
	}
	return func() time.Duration {
		return deadline.Sub(h.now())
	}
}

// ToLifecycleEvent converts the runtime event into the orchestrator's event.
func ToLifecycleEvent(event *cfn.Event) *api.LifecycleEvent {
	return &api.LifecycleEvent{
		RequestType:        constants.RequestType(event.RequestType),
		RequestID:          event.RequestID,
		StackID:            event.StackID,
		LogicalResourceID:  event.LogicalResourceID,
		PhysicalResourceID: event.PhysicalResourceID,
		ResourceType:       event.ResourceType,
		ResourceProperties: event.ResourceProperties,
	}
}

// BuildResponse renders a verdict as a response document.
// The physical resource id is never empty: the verdict's id is used first, then the
// id already on the event, then the task identity of the resource.
func BuildResponse(event *cfn.Event, verdict *api.Verdict) *cfn.Response {
	resp := cfn.NewResponse(event)
	resp.PhysicalResourceID = PhysicalResourceID(event, verdict)

	if verdict.Succeeded() {
		resp.Status = cfn.StatusSuccess
	} else {
		resp.Status = cfn.StatusFailed
		resp.Reason = verdict.Reason
	}

	return resp
}

// PhysicalResourceID picks the id reported for the resource.
func PhysicalResourceID(event *cfn.Event, verdict *api.Verdict) string {
	if verdict.PhysicalResourceID != "" {
		return verdict.PhysicalResourceID
	}
	if event.PhysicalResourceID != "" {
		return event.PhysicalResourceID
	}
	return identity.Derive(event.StackID, event.LogicalResourceID)
}

func sendResponse(_ context.Context, resp *cfn.Response) error {
	return resp.Send()
}
