package cmd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/runvoy/ecstasks/internal/api"
	"github.com/runvoy/ecstasks/internal/identity"
	"github.com/runvoy/ecstasks/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryService_Show(t *testing.T) {
	invokedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := &mockInvocationRepository{
		listFunc: func(_ context.Context, id string, limit int) ([]*api.InvocationRecord, error) {
			assert.Equal(t, identity.Derive(testutil.TestStackID, testutil.TestLogicalResourceID), id)
			assert.Equal(t, 5, limit)
			return []*api.InvocationRecord{
				{
					InvokedAt:          invokedAt,
					RequestType:        "Create",
					Status:             "SUCCESS",
					PhysicalResourceID: "arn:task/1",
					DurationMillis:     95_000,
				},
				{
					InvokedAt:      invokedAt.Add(-time.Hour),
					RequestType:    "Create",
					Status:         "FAILED",
					Reason:         "Tasks did not stop within the 60 second timeout",
					DurationMillis: 60_000,
				},
			}, nil
		},
	}
	out := &mockOutputInterface{}

	err := NewHistoryService(repo, out).Show(context.Background(), testutil.TestStackID, testutil.TestLogicalResourceID, 5)

	require.NoError(t, err)
	tables := out.byMethod("Table")
	require.Len(t, tables, 1)
	rows := tables[0].args[1].([][]string)
	require.Len(t, rows, 2)
	assert.Equal(t, "2026-03-01 12:00:00", rows[0][0])
	assert.Equal(t, "Create", rows[0][1])
	assert.Contains(t, rows[0][2], "SUCCESS")
	assert.Equal(t, "1m 35s", rows[0][3])
	assert.Equal(t, "arn:task/1", rows[0][4])
	assert.Equal(t, "Tasks did not stop within the 60 second timeout", rows[1][5])
	assert.True(t, out.contains("Successf", "2 invocation(s)"))
}

func TestHistoryService_Empty(t *testing.T) {
	repo := &mockInvocationRepository{
		listFunc: func(_ context.Context, _ string, _ int) ([]*api.InvocationRecord, error) {
			return nil, nil
		},
	}
	out := &mockOutputInterface{}

	err := NewHistoryService(repo, out).Show(context.Background(), testutil.TestStackID, "Other", 0)

	require.NoError(t, err)
	assert.Empty(t, out.byMethod("Table"))
	assert.True(t, out.contains("Warningf", "No invocations recorded"))
}

func TestHistoryService_Errors(t *testing.T) {
	t.Run("repository failure", func(t *testing.T) {
		repo := &mockInvocationRepository{
			listFunc: func(_ context.Context, _ string, _ int) ([]*api.InvocationRecord, error) {
				return nil, errors.New("ResourceNotFoundException")
			},
		}

		err := NewHistoryService(repo, &mockOutputInterface{}).Show(context.Background(), "s", "l", 1)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to list invocations")
	})

	t.Run("ledger not configured", func(t *testing.T) {
		err := NewHistoryService(nil, &mockOutputInterface{}).Show(context.Background(), "s", "l", 1)
		assert.ErrorContains(t, err, "not configured")
	})
}
