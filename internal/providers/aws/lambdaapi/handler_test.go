package lambdaapi

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/runvoy/ecstasks/internal/api"
	"github.com/runvoy/ecstasks/internal/constants"
	"github.com/runvoy/ecstasks/internal/identity"
	"github.com/runvoy/ecstasks/internal/lifecycle"
	"github.com/runvoy/ecstasks/internal/testutil"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockOrchestrator struct {
	handleFunc func(ctx context.Context, event *api.LifecycleEvent, remaining lifecycle.RemainingTimeFunc) *api.Verdict
	events     []*api.LifecycleEvent
}

func (m *mockOrchestrator) Handle(
	ctx context.Context, event *api.LifecycleEvent, remaining lifecycle.RemainingTimeFunc,
) *api.Verdict {
	m.events = append(m.events, event)
	if m.handleFunc != nil {
		return m.handleFunc(ctx, event, remaining)
	}
	return &api.Verdict{Status: constants.VerdictSuccess}
}

type recordingSender struct {
	responses []*cfn.Response
	err       error
}

func (s *recordingSender) send(_ context.Context, resp *cfn.Response) error {
	s.responses = append(s.responses, resp)
	return s.err
}

func testEvent(requestType cfn.RequestType) cfn.Event {
	return cfn.Event{
		RequestType:       requestType,
		RequestID:         "req-1",
		ResponseURL:       "https://cloudformation-custom-resource-response.example.com/signed",
		ResourceType:      "Custom::EcsTasks",
		StackID:           testutil.TestStackID,
		LogicalResourceID: testutil.TestLogicalResourceID,
		ResourceProperties: map[string]any{
			"Cluster":        testutil.TestCluster,
			"TaskDefinition": testutil.TestTaskDefinition,
		},
	}
}

func TestToLifecycleEvent(t *testing.T) {
	event := testEvent(cfn.RequestUpdate)
	event.PhysicalResourceID = "arn:task/old"

	got := ToLifecycleEvent(&event)

	assert.Equal(t, constants.RequestUpdate, got.RequestType)
	assert.Equal(t, "req-1", got.RequestID)
	assert.Equal(t, testutil.TestStackID, got.StackID)
	assert.Equal(t, testutil.TestLogicalResourceID, got.LogicalResourceID)
	assert.Equal(t, "arn:task/old", got.PhysicalResourceID)
	assert.Equal(t, "Custom::EcsTasks", got.ResourceType)
	assert.Equal(t, testutil.TestCluster, got.ResourceProperties["Cluster"])
}

func TestPhysicalResourceID(t *testing.T) {
	fallback := identity.Derive(testutil.TestStackID, testutil.TestLogicalResourceID)

	tests := []struct {
		name       string
		eventID    string
		verdictID  string
		expectedID string
	}{
		{name: "verdict wins", eventID: "arn:task/old", verdictID: "arn:task/new", expectedID: "arn:task/new"},
		{name: "event id when verdict has none", eventID: "arn:task/old", expectedID: "arn:task/old"},
		{name: "identity when neither has one", expectedID: fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := testEvent(cfn.RequestCreate)
			event.PhysicalResourceID = tt.eventID
			verdict := &api.Verdict{Status: constants.VerdictSuccess, PhysicalResourceID: tt.verdictID}

			assert.Equal(t, tt.expectedID, PhysicalResourceID(&event, verdict))
		})
	}
}

func TestBuildResponse(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		event := testEvent(cfn.RequestCreate)
		resp := BuildResponse(&event, &api.Verdict{
			Status:             constants.VerdictSuccess,
			PhysicalResourceID: "arn:task/1",
		})

		assert.Equal(t, cfn.StatusSuccess, resp.Status)
		assert.Empty(t, resp.Reason)
		assert.Equal(t, "arn:task/1", resp.PhysicalResourceID)
		assert.Equal(t, "req-1", resp.RequestID)
		assert.Equal(t, testutil.TestStackID, resp.StackID)
		assert.Equal(t, testutil.TestLogicalResourceID, resp.LogicalResourceID)
	})

	t.Run("failure carries the reason", func(t *testing.T) {
		event := testEvent(cfn.RequestCreate)
		resp := BuildResponse(&event, &api.Verdict{
			Status: constants.VerdictFailed,
			Reason: "A task failure occurred: [{reason: RESOURCE:MEMORY}]",
		})

		assert.Equal(t, cfn.StatusFailed, resp.Status)
		assert.Equal(t, "A task failure occurred: [{reason: RESOURCE:MEMORY}]", resp.Reason)
		assert.NotEmpty(t, resp.PhysicalResourceID)
	})
}

func TestHandler_SendsExactlyOneResponse(t *testing.T) {
	orch := &mockOrchestrator{
		handleFunc: func(_ context.Context, _ *api.LifecycleEvent, _ lifecycle.RemainingTimeFunc) *api.Verdict {
			return &api.Verdict{Status: constants.VerdictFailed, Reason: "Lambda function reached maximum execution time"}
		},
	}
	sender := &recordingSender{}
	h := NewCustomResourceHandler(orch, testutil.SilentLogger(), WithResponseSender(sender.send))

	err := h(context.Background(), testEvent(cfn.RequestCreate))

	require.NoError(t, err, "classified failures are reported through the document")
	require.Len(t, sender.responses, 1)
	assert.Equal(t, cfn.StatusFailed, sender.responses[0].Status)
	require.Len(t, orch.events, 1)
	assert.Equal(t, constants.RequestCreate, orch.events[0].RequestType)
}

func TestHandler_SendFailureIsReturned(t *testing.T) {
	sender := &recordingSender{err: errors.New("connection reset")}
	h := NewCustomResourceHandler(&mockOrchestrator{}, testutil.SilentLogger(), WithResponseSender(sender.send))

	err := h(context.Background(), testEvent(cfn.RequestDelete))

	require.Error(t, err)
	assert.Len(t, sender.responses, 1)
}

func TestHandler_RemainingTime(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("measured from the context deadline", func(t *testing.T) {
		var remaining lifecycle.RemainingTimeFunc
		orch := &mockOrchestrator{
			handleFunc: func(_ context.Context, _ *api.LifecycleEvent, r lifecycle.RemainingTimeFunc) *api.Verdict {
				remaining = r
				return &api.Verdict{Status: constants.VerdictSuccess}
			},
		}
		sender := &recordingSender{}
		h := NewCustomResourceHandler(orch, testutil.SilentLogger(),
			WithResponseSender(sender.send),
			WithNow(func() time.Time { return now }))

		ctx, cancel := context.WithDeadline(context.Background(), now.Add(90*time.Second))
		defer cancel()

		require.NoError(t, h(ctx, testEvent(cfn.RequestCreate)))
		require.NotNil(t, remaining)
		assert.Equal(t, 90*time.Second, remaining())
	})

	t.Run("nil without a deadline", func(t *testing.T) {
		called := false
		orch := &mockOrchestrator{
			handleFunc: func(_ context.Context, _ *api.LifecycleEvent, r lifecycle.RemainingTimeFunc) *api.Verdict {
				called = true
				assert.Nil(t, r)
				return &api.Verdict{Status: constants.VerdictSuccess}
			},
		}
		sender := &recordingSender{}
		h := NewCustomResourceHandler(orch, testutil.SilentLogger(), WithResponseSender(sender.send))

		require.NoError(t, h(context.Background(), testEvent(cfn.RequestCreate)))
		assert.True(t, called)
	})
}
