package orderapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	checkoutdomain "github.com/amushan/portal-storefront/internal/domains/checkout/domain"
	checkoutports "github.com/amushan/portal-storefront/internal/domains/checkout/ports"
)

func sampleRequest() checkoutdomain.OrderRequest {
	return checkoutdomain.OrderRequest{
		Lines: []checkoutdomain.OrderLine{
			{ProductID: "p1", Name: "Birth Certificate Copy", UnitPrice: 500, Quantity: 2},
			{ProductID: "p2", Name: "Passport Renewal", UnitPrice: 3500, Quantity: 1},
		},
		TotalAmount:   4500,
		PaymentMethod: checkoutdomain.PaymentCashOnDelivery,
	}
}

func TestSubmitPostsOrderPayload(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/store/order", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &captured))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"order_id":"ORD-77"}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, server.Client())
	require.NoError(t, err)

	orderID, err := client.Submit(context.Background(), sampleRequest())
	require.NoError(t, err)
	require.Equal(t, "ORD-77", orderID)

	require.Equal(t, float64(4500), captured["total_amount"])
	require.Equal(t, "cod", captured["payment_method"])
	items, ok := captured["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 2)
	first, ok := items[0].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "p1", first["product_id"])
	require.Equal(t, "Birth Certificate Copy", first["name"])
	require.Equal(t, float64(500), first["price"])
	require.Equal(t, float64(2), first["quantity"])
}

func TestSubmitMapsErrorBodyToRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"Out of stock"}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, server.Client())
	require.NoError(t, err)

	_, err = client.Submit(context.Background(), sampleRequest())
	require.ErrorIs(t, err, checkoutports.ErrRejected)

	var rejection *checkoutports.Rejection
	require.ErrorAs(t, err, &rejection)
	require.Equal(t, "Out of stock", rejection.Message)
	require.Equal(t, http.StatusConflict, rejection.StatusCode)
}

func TestSubmitTreatsErrorFieldOnOKAsRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error":"Payment method unavailable"}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, server.Client())
	require.NoError(t, err)

	_, err = client.Submit(context.Background(), sampleRequest())
	var rejection *checkoutports.Rejection
	require.ErrorAs(t, err, &rejection)
	require.Equal(t, "Payment method unavailable", rejection.Message)
}

func TestSubmitMapsConnectionFailureToTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client, err := NewClient(server.URL, &http.Client{Timeout: time.Second})
	require.NoError(t, err)

	_, err = client.Submit(context.Background(), sampleRequest())
	require.ErrorIs(t, err, checkoutports.ErrTransport)
	require.False(t, errors.Is(err, checkoutports.ErrRejected))
}

func TestSubmitMapsMalformedSuccessBodyToTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, server.Client())
	require.NoError(t, err)

	_, err = client.Submit(context.Background(), sampleRequest())
	require.ErrorIs(t, err, checkoutports.ErrTransport)
}

func TestSubmitSurfacesContextDeadline(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer func() {
		close(release)
		server.Close()
	}()

	client, err := NewClient(server.URL, server.Client())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = client.Submit(ctx, sampleRequest())
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient("   ", nil)
	require.Error(t, err)
}
