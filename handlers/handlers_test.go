package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Madhav-Gupta-28/storefront-go/apiclient"
	"github.com/Madhav-Gupta-28/storefront-go/catalog"
	"github.com/Madhav-Gupta-28/storefront-go/database"
	"github.com/Madhav-Gupta-28/storefront-go/handlers"
	"github.com/Madhav-Gupta-28/storefront-go/metrics"
	"github.com/Madhav-Gupta-28/storefront-go/pricing"
	"github.com/Madhav-Gupta-28/storefront-go/routes"
	"github.com/Madhav-Gupta-28/storefront-go/session"
	"github.com/Madhav-Gupta-28/storefront-go/utils"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productsJSON = `[
	{"_id": "p1", "name": "Oversized Tee", "price": 1999, "category": "t-shirts", "stock": 4},
	{"_id": "p2", "name": "Linen Shirt", "price": 1499, "category": "shirts", "stock": 0}
]`

// upstream fakes the REST backend the service talks to.
type upstream struct {
	mu        sync.Mutex
	savedCart string
	cartPuts  int
	meStatus  int
	role      string
	orders    []string
}

func (u *upstream) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	authed := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer upstream-token" {
				w.WriteHeader(http.StatusUnauthorized)
				io.WriteString(w, `{"message":"Token expired"}`)
				return
			}
			next(w, r)
		}
	}

	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"products": `+productsJSON+`}`)
	})
	mux.HandleFunc("GET /products/{id}", func(w http.ResponseWriter, r *http.Request) {
		switch r.PathValue("id") {
		case "p1":
			io.WriteString(w, `{"_id": "p1", "name": "Oversized Tee", "price": 1999}`)
		case "t-shirts":
			io.WriteString(w, `[{"_id": "p1", "name": "Oversized Tee", "price": 1999}]`)
		default:
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"message":"Product not found"}`)
		}
	})
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds apiclient.Credentials
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"message":"Invalid email or password"}`)
			return
		}
		u.mu.Lock()
		role := u.role
		u.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{
			"token": "upstream-token",
			"user":  map[string]any{"_id": "u1", "name": "Asha", "email": creds.Email, "role": role},
		})
	})
	mux.HandleFunc("GET /auth/me", authed(func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		status := u.meStatus
		u.mu.Unlock()
		if status != 0 {
			w.WriteHeader(status)
			io.WriteString(w, `{"message":"Session expired"}`)
			return
		}
		io.WriteString(w, `{"user": {"_id": "u1", "name": "Asha"}}`)
	}))
	mux.HandleFunc("GET /user/me", authed(func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		saved := u.savedCart
		u.mu.Unlock()
		if saved == "" {
			saved = "[]"
		}
		io.WriteString(w, `{"user": {"_id": "u1", "savedCart": `+saved+`}}`)
	}))
	mux.HandleFunc("PUT /user/me", authed(func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		u.cartPuts++
		u.mu.Unlock()
		io.WriteString(w, `{}`)
	}))
	mux.HandleFunc("GET /users/addresses", authed(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"addresses": [
			{"_id": "a1", "fullName": "Asha", "phone": "9876543210", "addressLine1": "1 MG Road", "city": "Pune", "state": "MH", "pincode": "411001", "country": "India"},
			{"_id": "a2", "fullName": "Asha", "phone": "9876543210", "addressLine1": "2 FC Road", "city": "Pune", "state": "MH", "pincode": "411004", "country": "India", "isDefault": true}
		]}`)
	}))
	mux.HandleFunc("POST /promotions/validate", authed(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Code string `json:"code"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Code != "SAVE200" {
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"message":"Coupon has expired"}`)
			return
		}
		io.WriteString(w, `{"valid": true, "discountAmount": 200}`)
	}))
	mux.HandleFunc("POST /orders/create", authed(func(w http.ResponseWriter, r *http.Request) {
		var order struct {
			PaymentMethod string  `json:"paymentMethod"`
			TotalAmount   float64 `json:"totalAmount"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&order))
		u.mu.Lock()
		u.orders = append(u.orders, order.PaymentMethod)
		u.mu.Unlock()
		if order.PaymentMethod == "razorpay" {
			json.NewEncoder(w).Encode(map[string]any{
				"order":         map[string]any{"_id": "o1", "totalAmount": order.TotalAmount},
				"razorpayOrder": map[string]any{"id": "order_rzp_1", "amount": int64(order.TotalAmount * 100), "currency": "INR"},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"order": map[string]any{"_id": "o1", "totalAmount": order.TotalAmount},
		})
	}))
	mux.HandleFunc("GET /orders", authed(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"_id": "o1", "status": "Delivered", "totalAmount": 1000}]`)
	}))
	mux.HandleFunc("GET /promotions", authed(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"code": "SAVE200", "discount": 10, "isActive": true}]`)
	}))
	return mux
}

func (u *upstream) puts() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.cartPuts
}

func (u *upstream) placed() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.orders...)
}

type harness struct {
	e        *echo.Echo
	up       *upstream
	sessions *session.Manager
}

func newHarness(t *testing.T, passcode utils.Passcode) *harness {
	t.Helper()
	up := &upstream{}
	srv := httptest.NewServer(up.handler(t))
	t.Cleanup(srv.Close)

	m := metrics.New()
	api := apiclient.New(srv.URL, apiclient.WithMetrics(m))
	sessions := session.NewManager(session.Options{
		Store:       database.NewMemoryStore(),
		API:         api,
		Rules:       pricing.DefaultRules(),
		RazorpayKey: "rzp_test_key",
		Metrics:     m,
	})
	tokens, err := utils.NewTokens("test-secret", 0)
	require.NoError(t, err)

	e := echo.New()
	routes.SetupRoutes(e, handlers.New(sessions, catalog.New(api), tokens, passcode, nil), m)
	return &harness{e: e, up: up, sessions: sessions}
}

func (h *harness) do(t *testing.T, method, path, token, body string) (int, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.e.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec.Code, out
}

func (h *harness) doList(t *testing.T, path, token string) (int, []map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.e.ServeHTTP(rec, req)

	var out []map[string]any
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec.Code, out
}

func (h *harness) newSession(t *testing.T, path string) string {
	t.Helper()
	code, body := h.do(t, http.MethodPost, path, "", "")
	require.Equal(t, http.StatusCreated, code)
	return body["token"].(string)
}

func TestSessionRequired(t *testing.T) {
	h := newHarness(t, utils.Passcode{})

	code, body := h.do(t, http.MethodGet, "/api/cart", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "No authorization header", body["error"])

	code, _ = h.do(t, http.MethodGet, "/api/cart", "garbage", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	customer := h.newSession(t, "/api/session")
	code, _ = h.do(t, http.MethodGet, "/api/admin/dashboard", customer, "")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestBrowseProducts(t *testing.T) {
	h := newHarness(t, utils.Passcode{})
	token := h.newSession(t, "/api/session")

	code, list := h.doList(t, "/api/products?sort=price-asc", token)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, list, 2)
	assert.Equal(t, "p2", list[0]["_id"])

	code, list = h.doList(t, "/api/products?category=T-SHIRTS", token)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, list, 1)
	assert.Equal(t, "p1", list[0]["_id"])

	code, body := h.do(t, http.MethodGet, "/api/products/missing", token, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Product not found", body["error"])

	code, list = h.doList(t, "/api/sections/t-shirts", token)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, list, 1)

	code, _ = h.do(t, http.MethodGet, "/api/sections/socks", token, "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestGuestCartAndCheckoutGate(t *testing.T) {
	h := newHarness(t, utils.Passcode{})
	token := h.newSession(t, "/api/session")

	code, body := h.do(t, http.MethodPost, "/api/cart", token, `{"productId":"p1","quantity":2,"size":"M"}`)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 2, body["count"])
	assert.Nil(t, body["warning"])

	code, body = h.do(t, http.MethodPost, "/api/cart", token, `{"productId":"p1","quantity":0}`)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 3, body["count"], "quantity defaults to one")

	code, body = h.do(t, http.MethodPut, "/api/cart/quantity", token, `{"productId":"p1","size":"M","quantity":0}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "quantity must be at least 1", body["error"])

	code, body = h.do(t, http.MethodDelete, "/api/cart/p1", token, "")
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 2, body["count"])

	code, body = h.do(t, http.MethodGet, "/api/cart", token, "")
	require.Equal(t, http.StatusOK, code)
	quote := body["quote"].(map[string]any)
	assert.EqualValues(t, 3998, quote["subtotal"])
	assert.EqualValues(t, 4098, quote["total"])

	code, body = h.do(t, http.MethodGet, "/api/checkout", token, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "/login", body["redirect"])

	assert.Zero(t, h.up.puts(), "guests never sync")
}

func TestCheckoutCOD(t *testing.T) {
	h := newHarness(t, utils.Passcode{})
	token := h.newSession(t, "/api/session")

	code, _ := h.do(t, http.MethodPost, "/api/cart", token, `{"productId":"p1","quantity":2}`)
	require.Equal(t, http.StatusOK, code)

	code, body := h.do(t, http.MethodPost, "/api/auth/login", token, `{"email":"asha@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid email or password", body["error"])

	code, body = h.do(t, http.MethodPost, "/api/auth/login", token, `{"email":"asha@example.com","password":"secret"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["authenticated"])
	assert.Equal(t, 1, h.up.puts(), "local cart pushed after sign-in")

	code, body = h.do(t, http.MethodPost, "/api/checkout/coupon", token, `{"code":"old10"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Coupon has expired", body["error"])

	code, body = h.do(t, http.MethodPost, "/api/checkout/coupon", token, `{"code":"save200"}`)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 3898, body["quote"].(map[string]any)["total"])

	code, _ = h.do(t, http.MethodPost, "/api/checkout/coupon", token, `{"code":"save200"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = h.do(t, http.MethodPost, "/api/orders", token, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "please select a delivery address", body["error"])

	code, body = h.do(t, http.MethodPut, "/api/checkout/address", token, `{}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "a2", body["_id"], "default address wins")

	code, body = h.do(t, http.MethodPut, "/api/checkout/payment-method", token, `{"paymentMethod":"cod"}`)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 3948, body["quote"].(map[string]any)["total"])

	code, body = h.do(t, http.MethodPost, "/api/orders", token, "")
	require.Equal(t, http.StatusCreated, code)
	assert.EqualValues(t, 3948, body["order"].(map[string]any)["totalAmount"])
	assert.Nil(t, body["razorpayOrder"])

	code, body = h.do(t, http.MethodGet, "/api/cart", token, "")
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 0, body["count"])
	assert.Equal(t, []string{"cod"}, h.up.placed())
}

func TestCheckoutRazorpay(t *testing.T) {
	h := newHarness(t, utils.Passcode{})
	token := h.newSession(t, "/api/session")

	h.do(t, http.MethodPost, "/api/cart", token, `{"productId":"p1","quantity":1}`)
	h.do(t, http.MethodPost, "/api/auth/login", token, `{"email":"asha@example.com","password":"secret"}`)
	h.do(t, http.MethodPut, "/api/checkout/address", token, `{"addressId":"a1"}`)

	code, body := h.do(t, http.MethodPost, "/api/orders", token, "")
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "rzp_test_key", body["razorpayKey"])
	assert.Equal(t, "order_rzp_1", body["razorpayOrder"].(map[string]any)["id"])

	code, body = h.do(t, http.MethodGet, "/api/cart", token, "")
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, body["count"], "cart kept until payment is verified")

	code, body = h.do(t, http.MethodPost, "/api/orders/verify-payment", token,
		`{"razorpay_order_id":"order_other","razorpay_payment_id":"pay_1","razorpay_signature":"sig"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "payment does not match the pending order", body["error"])
}

func TestUpstreamUnauthorizedTearsDown(t *testing.T) {
	h := newHarness(t, utils.Passcode{})
	token := h.newSession(t, "/api/session")

	h.do(t, http.MethodPost, "/api/auth/login", token, `{"email":"asha@example.com","password":"secret"}`)
	h.up.mu.Lock()
	h.up.meStatus = http.StatusUnauthorized
	h.up.mu.Unlock()

	code, body := h.do(t, http.MethodGet, "/api/auth/me", token, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Session expired", body["error"])
	assert.Equal(t, "/login", body["redirect"])

	code, body = h.do(t, http.MethodGet, "/api/auth/me", token, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["authenticated"])
}

func TestRemoveLineWithoutProduct(t *testing.T) {
	h := newHarness(t, utils.Passcode{})
	h.up.mu.Lock()
	h.up.savedCart = `[{"product": null, "quantity": 1}, {"product": {"_id": "p1", "price": 1999}, "quantity": 1, "size": "M"}]`
	h.up.mu.Unlock()
	token := h.newSession(t, "/api/session")

	code, _ := h.do(t, http.MethodPost, "/api/auth/login", token, `{"email":"asha@example.com","password":"secret"}`)
	require.Equal(t, http.StatusOK, code)
	code, body := h.do(t, http.MethodGet, "/api/cart", token, "")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, body["items"], 2)

	code, body = h.do(t, http.MethodPost, "/api/cart/remove", token, `{"productId":""}`)
	require.Equal(t, http.StatusOK, code)
	items := body["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].(map[string]any)["product"].(map[string]any)["_id"])

	code, _ = h.do(t, http.MethodPost, "/api/cart/remove", token, `{"productId":""}`)
	assert.Equal(t, http.StatusNotFound, code)

	code, body = h.do(t, http.MethodPost, "/api/cart/remove", token, `{"productId":"p1","size":"M"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["items"])
}

func TestWishlist(t *testing.T) {
	h := newHarness(t, utils.Passcode{})
	token := h.newSession(t, "/api/session")

	code, body := h.do(t, http.MethodPost, "/api/wishlist/p1", token, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["inWishlist"])

	code, body = h.do(t, http.MethodPost, "/api/wishlist/p1/move-to-cart", token, `{"size":"L"}`)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, body["count"])

	code, list := h.doList(t, "/api/wishlist", token)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, list)

	code, _ = h.do(t, http.MethodDelete, "/api/wishlist/p1", token, "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAdminDashboard(t *testing.T) {
	h := newHarness(t, utils.Passcode{})
	token := h.newSession(t, "/api/admin/session")

	code, _ := h.do(t, http.MethodGet, "/api/admin/dashboard", token, "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body := h.do(t, http.MethodPost, "/api/admin/login", token, `{"email":"asha@example.com","password":"secret"}`)
	assert.Equal(t, http.StatusForbidden, code)
	assert.NotEmpty(t, body["error"])

	h.up.mu.Lock()
	h.up.role = "admin"
	h.up.mu.Unlock()
	code, _ = h.do(t, http.MethodPost, "/api/admin/login", token, `{"email":"asha@example.com","password":"secret"}`)
	require.Equal(t, http.StatusOK, code)

	code, body = h.do(t, http.MethodGet, "/api/admin/dashboard", token, "")
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 2, body["products"])
	assert.EqualValues(t, 1, body["outOfStock"])
	assert.EqualValues(t, 1, body["orders"])
	assert.EqualValues(t, 1000, body["revenue"])
	assert.EqualValues(t, 1, body["activePromotions"])

	code, body = h.do(t, http.MethodPost, "/api/admin/products/bulk-delete", token, `{"ids":[]}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "no product ids given", body["error"])
}

func TestAdminPasscode(t *testing.T) {
	hash, err := utils.HashPasscode("staff-only")
	require.NoError(t, err)
	h := newHarness(t, utils.NewPasscode(hash))

	code, _ := h.do(t, http.MethodPost, "/api/admin/session", "", `{"passcode":"guess"}`)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body := h.do(t, http.MethodPost, "/api/admin/session", "", `{"passcode":"staff-only"}`)
	require.Equal(t, http.StatusCreated, code)
	assert.NotEmpty(t, body["token"])
}

func TestEndSession(t *testing.T) {
	h := newHarness(t, utils.Passcode{})
	token := h.newSession(t, "/api/session")
	require.Equal(t, 1, h.sessions.Len())

	code, _ := h.do(t, http.MethodDelete, "/api/session", token, "")
	require.Equal(t, http.StatusNoContent, code)
	assert.Zero(t, h.sessions.Len())

	code, body := h.do(t, http.MethodGet, "/api/cart", token, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Session expired", body["error"])
}
