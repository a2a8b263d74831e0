package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Madhav-Gupta-28/storefront-go/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestBearerTokenInjection(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"user":{"_id":"u1","name":"Asha","isPremium":true}}`))
	}))
	defer srv.Close()

	c := New(srv.URL).WithSession(staticToken("abc"), nil)
	user, err := c.Me(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer abc", gotAuth)
	assert.Equal(t, "Asha", user.Name)
	assert.True(t, user.IsPremium)
}

func TestUnauthorizedTriggersTeardown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Token expired"}`))
	}))
	defer srv.Close()

	var calls int32
	teardown := func() { atomic.AddInt32(&calls, 1) }

	_, err := New(srv.URL).WithSession(staticToken("stale"), teardown).Me(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "Token expired", Message(err, "Something went wrong"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	// no token sent: a 401 from a login attempt is not a session failure
	_, err = New(srv.URL).WithSession(staticToken(""), teardown).Login(context.Background(), Credentials{Email: "a@b.c"})
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestErrorMessageFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`<html>oops</html>`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).ListProducts(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, "Failed to load products", Message(err, "Failed to load products"))
	assert.Equal(t, http.StatusInternalServerError, Status(err))

	assert.Equal(t, "fallback", Message(errors.New("dial tcp: refused"), "fallback"))
	assert.Equal(t, http.StatusBadGateway, Status(errors.New("dial tcp: refused")))
}

func TestListProductsAcceptsBothShapes(t *testing.T) {
	bodies := []string{
		`[{"_id":"1","name":"Tee","price":799}]`,
		`{"products":[{"_id":"1","name":"Tee","price":799}],"total":1}`,
	}
	for _, body := range bodies {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))
		products, err := New(srv.URL).ListProducts(context.Background(), nil)
		srv.Close()

		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, models.FromRupees(799), products[0].Price.Amount)
	}
}

func TestSaveCartSendsSnapshot(t *testing.T) {
	var got struct {
		SavedCart []models.CartLineItem `json:"savedCart"`
	}
	var method string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		assert.Equal(t, "/user/me", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"user":{}}`))
	}))
	defer srv.Close()

	items := []models.CartLineItem{{
		Product:  &models.ProductRef{ID: "p1", Price: models.NewPrice(499)},
		Quantity: 2,
		Size:     models.OptionalString("L"),
	}}
	require.NoError(t, New(srv.URL).SaveCart(context.Background(), items))

	assert.Equal(t, http.MethodPut, method)
	require.Len(t, got.SavedCart, 1)
	assert.Equal(t, "p1", got.SavedCart[0].Product.ID)
	assert.Equal(t, "L", *got.SavedCart[0].Size)
	assert.Nil(t, got.SavedCart[0].Color)
}

func TestUploadImageMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
		file, header, err := r.FormFile("image")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "tee.png", header.Filename)
		assert.Equal(t, "PNGDATA", string(data))
		w.Write([]byte(`{"url":"https://cdn.example.com/tee.png"}`))
	}))
	defer srv.Close()

	res, err := New(srv.URL).UploadImage(context.Background(), "tee.png", strings.NewReader("PNGDATA"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/tee.png", res.URL)
}

func TestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := New(srv.URL, WithTimeout(20*time.Millisecond)).ListOrders(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, Status(err))
}

func TestRouteLabel(t *testing.T) {
	assert.Equal(t, "/products/:id", routeLabel("/products/64f1c2a9e4b0a1b2c3d4e5f6"))
	assert.Equal(t, "/products/best-sellers", routeLabel("/products/best-sellers"))
	assert.Equal(t, "/orders/verify-payment", routeLabel("/orders/verify-payment"))
}
