package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/api/workflowservice/v1"
	"go.temporal.io/sdk/client"

	"github.com/amushan/portal-storefront/internal/domains/checkout/application"
	"github.com/amushan/portal-storefront/internal/domains/checkout/domain"
	"github.com/amushan/portal-storefront/internal/domains/checkout/ports"
	checkoutworkflows "github.com/amushan/portal-storefront/internal/platform/temporal/workflows/checkout"
)

var (
	_ ports.Orchestrator = (*TemporalCheckout)(nil)
	_ ports.Orchestrator = (*InlineCheckout)(nil)
)

// describeStateTimeout bounds the cluster round trip behind a state read.
const describeStateTimeout = 3 * time.Second

// temporalClient is the slice of client.Client the orchestrator uses.
type temporalClient interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
	DescribeWorkflowExecution(ctx context.Context, workflowID, runID string) (*workflowservice.DescribeWorkflowExecutionResponse, error)
}

// TemporalCheckout starts checkout submissions on a Temporal cluster.
type TemporalCheckout struct {
	client    temporalClient
	taskQueue string
}

// NewTemporalCheckout wires a Temporal client into the orchestrator.
func NewTemporalCheckout(c client.Client) *TemporalCheckout {
	return &TemporalCheckout{client: c, taskQueue: checkoutworkflows.CheckoutSubmissionTaskQueue}
}

// Checkout starts the durable submission workflow for the session cart.
// The workflow ID is derived from the session, so a second submission for
// the same session while one is running is reported as already in progress.
func (o *TemporalCheckout) Checkout(ctx context.Context, sessionKey string) (*domain.Confirmation, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal checkout not configured")
	}
	options := client.StartWorkflowOptions{
		ID:        buildSubmissionWorkflowID(sessionKey),
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		checkoutworkflows.CheckoutSubmissionWorkflow,
		checkoutworkflows.CheckoutSubmissionWorkflowInput{SessionKey: sessionKey, TraceID: workflowTraceID(ctx)},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			return nil, fmt.Errorf("%w: session %s", application.ErrSubmissionInProgress, sessionKey)
		}
		return nil, err
	}
	var confirmation domain.Confirmation
	if err := run.Get(ctx, &confirmation); err != nil {
		return nil, err
	}
	return &confirmation, nil
}

// State reports whether the session's submission workflow is running on
// the cluster. The workflow may execute in a separate worker process, so
// the cluster is the only process-independent source for this answer.
// Lookup failures and finished workflows both read as idle.
func (o *TemporalCheckout) State(sessionKey string) domain.State {
	if o == nil || o.client == nil {
		return domain.StateIdle
	}
	ctx, cancel := context.WithTimeout(context.Background(), describeStateTimeout)
	defer cancel()
	resp, err := o.client.DescribeWorkflowExecution(ctx, buildSubmissionWorkflowID(sessionKey), "")
	if err != nil {
		return domain.StateIdle
	}
	if resp.GetWorkflowExecutionInfo().GetStatus() == enumspb.WORKFLOW_EXECUTION_STATUS_RUNNING {
		return domain.StateSubmitting
	}
	return domain.StateIdle
}

// InlineCheckout executes the coordinator directly without Temporal, useful for tests or dev fallbacks.
type InlineCheckout struct {
	service ports.Service
}

// NewInlineCheckout wraps the checkout service for synchronous execution.
func NewInlineCheckout(service ports.Service) *InlineCheckout {
	return &InlineCheckout{service: service}
}

// Checkout delegates to the coordinator without durable orchestration.
func (o *InlineCheckout) Checkout(ctx context.Context, sessionKey string) (*domain.Confirmation, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline checkout not configured")
	}
	return o.service.Submit(ctx, sessionKey)
}

func buildSubmissionWorkflowID(sessionKey string) string {
	return fmt.Sprintf("checkout-submit-%s", sessionKey)
}

func workflowTraceID(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if span == nil {
		return ""
	}
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() || !spanCtx.TraceID().IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
