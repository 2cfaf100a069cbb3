package storefrontserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/amushan/portal-storefront/internal/clients/http/catalog"
	cartapp "github.com/amushan/portal-storefront/internal/domains/cart/application"
	cartports "github.com/amushan/portal-storefront/internal/domains/cart/ports"
	checkoutapp "github.com/amushan/portal-storefront/internal/domains/checkout/application"
	checkoutdomain "github.com/amushan/portal-storefront/internal/domains/checkout/domain"
	checkoutports "github.com/amushan/portal-storefront/internal/domains/checkout/ports"
	apierrors "github.com/amushan/portal-storefront/internal/shared/errors"
)

// respondServiceError translates domain and application errors into
// RFC 7807 responses. Unknown errors fall through as 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, cartapp.ErrInvalidInput):
		apierrors.Respond(c, apierrors.ErrValidation.WithDetail(err.Error()))
	case errors.Is(err, checkoutdomain.ErrEmptyCart):
		apierrors.Respond(c, apierrors.ErrUnprocessable.WithDetail("cart is empty"))
	case errors.Is(err, checkoutapp.ErrSubmissionInProgress):
		apierrors.Respond(c, apierrors.ErrConflict.WithDetail("a submission is already in progress for this session"))
	case errors.Is(err, checkoutports.ErrRejected):
		apierrors.Respond(c, apierrors.ErrConflict.
			WithDetail(checkoutapp.FailureMessage(err)).
			WithExtension("reason", "order_rejected"))
	case errors.Is(err, checkoutapp.ErrSubmitTimeout):
		apierrors.Respond(c, apierrors.ErrGatewayTimeout.WithDetail("order api did not answer in time"))
	case errors.Is(err, checkoutports.ErrTransport):
		apierrors.Respond(c, apierrors.ErrBadGateway.WithDetail("order api unreachable"))
	case errors.Is(err, catalog.ErrUpstream):
		apierrors.Respond(c, apierrors.ErrBadGateway.WithDetail("catalog unavailable"))
	case errors.Is(err, cartports.ErrStorage):
		apierrors.Respond(c, apierrors.ErrUnavailable.WithDetail("session storage unavailable"))
	default:
		apierrors.RespondError(c, err)
	}
}
