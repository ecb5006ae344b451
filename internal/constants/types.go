package constants

// Environment represents the execution environment (e.g., CLI, Lambda).
type Environment string

// Environment types for logger configuration.
const (
	Development Environment = "development"
	Production  Environment = "production"
	CLI         Environment = "cli"
)

// RequestType is the lifecycle operation requested by the provisioning system.
type RequestType string

const (
	// RequestCreate launches the task group and waits for it to stop.
	RequestCreate RequestType = "Create"
	// RequestUpdate behaves like RequestCreate unless RunOnUpdate is disabled.
	RequestUpdate RequestType = "Update"
	// RequestDelete stops every task started under the resource identity.
	RequestDelete RequestType = "Delete"
)

// VerdictStatus is the terminal status reported back to the provisioning system.
type VerdictStatus string

const (
	// VerdictSuccess reports a successful lifecycle operation.
	VerdictSuccess VerdictStatus = "SUCCESS"
	// VerdictFailed reports a failed lifecycle operation; a reason is always attached.
	VerdictFailed VerdictStatus = "FAILED"
)
