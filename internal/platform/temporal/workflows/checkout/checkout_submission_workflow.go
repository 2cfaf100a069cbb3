package checkout

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/amushan/portal-storefront/internal/domains/checkout/domain"
	checkoutactivities "github.com/amushan/portal-storefront/internal/platform/temporal/activities/checkout"
)

const (
	// CheckoutSubmissionWorkflowName is the public identifier for registering the workflow.
	CheckoutSubmissionWorkflowName = "checkout.workflows.Submission"
	// CheckoutSubmissionTaskQueue is the queue consumed by the worker processing checkout workflows.
	CheckoutSubmissionTaskQueue = "CHECKOUT_SUBMISSION"
)

// CheckoutSubmissionWorkflowInput carries the session whose cart is being submitted.
type CheckoutSubmissionWorkflowInput struct {
	SessionKey string
	TraceID    string
}

// CheckoutSubmissionWorkflow runs the single submission activity for a session cart.
// The order endpoint is not idempotent, so the activity never retries; a rejected
// or failed submission surfaces to the caller and the cart stays intact for a
// manual retry.
func CheckoutSubmissionWorkflow(ctx workflow.Context, input CheckoutSubmissionWorkflowInput) (*domain.Confirmation, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("CheckoutSubmissionWorkflow started", withTraceID(input.TraceID, "session", input.SessionKey)...)

	submitOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}

	var confirmation domain.Confirmation
	err := workflow.ExecuteActivity(
		workflow.WithActivityOptions(ctx, submitOptions),
		checkoutactivities.SubmitOrderActivityName,
		input.SessionKey,
	).Get(ctx, &confirmation)
	if err != nil {
		logger.Error("CheckoutSubmissionWorkflow failed", withTraceID(input.TraceID, "session", input.SessionKey, "error", err)...)
		return nil, err
	}
	logger.Info("CheckoutSubmissionWorkflow completed", withTraceID(input.TraceID, "session", input.SessionKey, "orderId", confirmation.OrderID)...)
	return &confirmation, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
