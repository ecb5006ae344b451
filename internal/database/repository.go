// Package database defines repository interfaces for data persistence.
// It provides the abstraction for the invocation ledger.
package database

import (
	"context"

	"github.com/runvoy/ecstasks/internal/api"
)

// InvocationRepository defines the interface for the invocation ledger.
// This abstraction allows for different implementations (DynamoDB, in-memory, etc.)
// without changing the lifecycle orchestrator.
type InvocationRepository interface {
	// PutInvocation stores the record of one lifecycle invocation.
	PutInvocation(ctx context.Context, record *api.InvocationRecord) error

	// ListInvocations returns the records stored for an identity, newest first.
	// A limit of 0 or less returns every record.
	ListInvocations(ctx context.Context, identity string, limit int) ([]*api.InvocationRecord, error)
}
