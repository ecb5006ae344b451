package constants

import "time"

// DefaultPollInterval is the wait between two DescribeTasks refreshes.
const DefaultPollInterval = 10 * time.Second

// DefaultSafetyMargin is kept free before the execution deadline so that a poll
// cycle never starts a sleep it cannot return from.
const DefaultSafetyMargin = 5 * time.Second

// DefaultInitTimeout bounds cold start initialization.
const DefaultInitTimeout = 10 * time.Second

// DefaultLocalDeadline is the execution budget used when the orchestrator runs
// outside Lambda (CLI and local harness). It matches the Lambda maximum.
const DefaultLocalDeadline = 15 * time.Minute

// TestContextTimeout is the timeout for test contexts.
const TestContextTimeout = 5 * time.Second
