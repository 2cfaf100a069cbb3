package storefrontserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	sessionports "github.com/amushan/portal-storefront/internal/domains/session/ports"
	apierrors "github.com/amushan/portal-storefront/internal/shared/errors"
)

// SessionAPI mints session keys and exposes the small per-session state.
type SessionAPI struct {
	state sessionports.StateStore
}

// NewSessionAPI creates a SessionAPI backed by the provided state store.
func NewSessionAPI(state sessionports.StateStore) SessionAPI {
	return SessionAPI{state: state}
}

type sessionResponse struct {
	SessionKey string `json:"session_key"`
}

type lastOrderResponse struct {
	OrderID string `json:"order_id"`
}

type profilePayload struct {
	Complete bool `json:"complete"`
}

// Post /v1/sessions
// Mint a fresh session key
func (api *SessionAPI) CreateSession(c *gin.Context) {
	c.JSON(http.StatusCreated, sessionResponse{SessionKey: uuid.NewString()})
}

// Get /v1/session/last-order
// Look up the most recent confirmed order for the session
func (api *SessionAPI) GetLastOrder(c *gin.Context) {
	key, ok := sessionKey(c)
	if !ok {
		return
	}
	orderID, err := api.state.LastOrder(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, sessionports.ErrNotFound) {
			apierrors.Respond(c, apierrors.NewNotFoundProblem("order", key))
			return
		}
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, lastOrderResponse{OrderID: orderID})
}

// Get /v1/session/profile
// Report whether the session's profile has been completed
func (api *SessionAPI) GetProfile(c *gin.Context) {
	key, ok := sessionKey(c)
	if !ok {
		return
	}
	complete, err := api.state.ProfileComplete(c.Request.Context(), key)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profilePayload{Complete: complete})
}

// Put /v1/session/profile
// Set the profile-completion flag for the session
func (api *SessionAPI) PutProfile(c *gin.Context) {
	key, ok := sessionKey(c)
	if !ok {
		return
	}
	var payload profilePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	if err := api.state.SetProfileComplete(c.Request.Context(), key, payload.Complete); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, payload)
}
