package storefrontserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amushan/portal-storefront/internal/clients/http/engagement"
	apierrors "github.com/amushan/portal-storefront/internal/shared/errors"
)

// EngagementRecorder accepts engagement events for delivery.
type EngagementRecorder interface {
	Record(ctx context.Context, event engagement.Event)
}

// EngagementAPI relays engagement events to the analytics backend.
type EngagementAPI struct {
	recorder EngagementRecorder
}

// NewEngagementAPI creates an EngagementAPI backed by the provided recorder.
func NewEngagementAPI(recorder EngagementRecorder) EngagementAPI {
	return EngagementAPI{recorder: recorder}
}

// Post /v1/engagement
// Accept an engagement event; delivery is best effort
func (api *EngagementAPI) Record(c *gin.Context) {
	var event engagement.Event
	if err := c.ShouldBindJSON(&event); err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	if api.recorder != nil {
		api.recorder.Record(c.Request.Context(), event)
	}
	c.Status(http.StatusAccepted)
}
