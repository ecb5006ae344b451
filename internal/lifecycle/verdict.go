package lifecycle

import (
	"github.com/runvoy/ecstasks/internal/api"
	"github.com/runvoy/ecstasks/internal/constants"
	appErrors "github.com/runvoy/ecstasks/internal/errors"
)

// Reason prefixes of failed verdicts.
const (
	reasonValidation = "One or more invalid resource properties: "
	reasonScheduling = "A task failure occurred: "
	reasonExitCode   = "A container failed with a non-zero exit code: "
	reasonTransport  = "ECS API call failed: "
	reasonInternal   = "Internal error: "
)

// NewVerdict turns the outcome of an invocation into its single verdict.
// A nil error is a success carrying physicalResourceID. Any error is classified
// by its code; errors without a known code become INTERNAL_ERROR.
func NewVerdict(err error, physicalResourceID string, taskARNs []string) *api.Verdict {
	if err == nil {
		return &api.Verdict{
			Status:             constants.VerdictSuccess,
			PhysicalResourceID: physicalResourceID,
			TaskARNs:           taskARNs,
		}
	}

	kind := appErrors.GetErrorCode(err)
	var reason string
	switch kind {
	case appErrors.ErrCodeValidation:
		reason = reasonValidation + appErrors.GetErrorMessage(err)
	case appErrors.ErrCodeSchedulingFailure:
		reason = reasonScheduling + appErrors.GetErrorMessage(err)
	case appErrors.ErrCodeExitCodeFailure:
		reason = reasonExitCode + appErrors.GetErrorMessage(err)
	case appErrors.ErrCodeTimeout:
		reason = appErrors.GetErrorMessage(err)
	case appErrors.ErrCodeTransport:
		reason = reasonTransport + appErrors.GetErrorDetails(err)
	default:
		kind = appErrors.ErrCodeInternalError
		reason = reasonInternal + err.Error()
	}

	return &api.Verdict{
		Status:             constants.VerdictFailed,
		Reason:             reason,
		PhysicalResourceID: physicalResourceID,
		Kind:               kind,
		TaskARNs:           taskARNs,
	}
}
