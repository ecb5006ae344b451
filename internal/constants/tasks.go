package constants

// Defaults of a task launch request.
const (
	DefaultTaskCount       = 1
	DefaultTimeoutSeconds  = 3600
	DefaultRunOnUpdate     = true
	DefaultFailureLogLines = 20
)

// IdentityLength is the number of hex characters of a task identity.
const IdentityLength = 32

// StopReason is attached to every StopTask call issued during teardown.
const StopReason = "Stopped by " + ProjectName + " on resource deletion"

// TaskStatusStopped is the terminal last status of a task.
const TaskStatusStopped = "STOPPED"
