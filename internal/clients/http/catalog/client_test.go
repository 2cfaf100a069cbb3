package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProductsDecodesBareArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/store/products", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"p1","name":"Passport Renewal","price":3500,"category":"travel"}]`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, server.Client())
	require.NoError(t, err)

	products, err := client.Products(context.Background(), ProductQuery{})
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Equal(t, "p1", products[0].ID)
	require.Equal(t, int64(3500), products[0].Price)
}

func TestProductsDecodesWrappedObject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"products":[{"id":"p2","name":"Driving Licence","price":1200}]}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, server.Client())
	require.NoError(t, err)

	products, err := client.Products(context.Background(), ProductQuery{})
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Equal(t, "Driving Licence", products[0].Name)
}

func TestProductsForwardsQueryFilters(t *testing.T) {
	var captured url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.URL.Query()
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, server.Client())
	require.NoError(t, err)

	minPrice, maxPrice := int64(0), int64(5000)
	products, err := client.Products(context.Background(), ProductQuery{
		Category: "health",
		Delivery: "home",
		MinPrice: &minPrice,
		MaxPrice: &maxPrice,
		Sort:     "price_low",
	})
	require.NoError(t, err)
	require.Empty(t, products)

	require.Equal(t, "health", captured.Get("category"))
	require.Equal(t, "home", captured.Get("delivery"))
	require.Equal(t, "0", captured.Get("min_price"))
	require.Equal(t, "5000", captured.Get("max_price"))
	require.Equal(t, "price_low", captured.Get("sort"))
}

func TestProductsOmitsUnsetFilters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.URL.RawQuery)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, server.Client())
	require.NoError(t, err)

	_, err = client.Products(context.Background(), ProductQuery{})
	require.NoError(t, err)
}

func TestProductLooksUpByID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"p1","name":"A","price":10},{"id":"p2","name":"B","price":20}]`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, server.Client())
	require.NoError(t, err)

	product, err := client.Product(context.Background(), "p2")
	require.NoError(t, err)
	require.NotNil(t, product)
	require.Equal(t, "B", product.Name)

	missing, err := client.Product(context.Background(), "p9")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestCategories(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/store/categories", r.URL.Path)
		_, _ = w.Write([]byte(`{"categories":["travel","civil"]}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, server.Client())
	require.NoError(t, err)

	categories, err := client.Categories(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"travel", "civil"}, categories)
}

func TestProductsMapsServerErrorToUpstream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, server.Client())
	require.NoError(t, err)

	_, err = client.Products(context.Background(), ProductQuery{})
	require.ErrorIs(t, err, ErrUpstream)
}
