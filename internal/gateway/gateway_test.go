package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront-client/internal/bus"
	"storefront-client/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *bus.Bus) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	events := bus.New()
	c, err := New(Options{
		BaseURL:    srv.URL,
		Events:     events,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		HTTPClient: srv.Client(),
	})
	if err != nil {
		t.Fatal(err)
	}
	return c, events
}

func TestGuestRequestsCarryNoAuthorizationHeader(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Header["Authorization"]; ok {
			t.Errorf("guest request sent Authorization header %q", r.Header.Get("Authorization"))
		}
		w.Write([]byte(`[]`))
	})

	if _, err := c.Products(context.Background(), model.Session{}, ProductQuery{}); err != nil {
		t.Fatal(err)
	}
}

func TestAuthenticatedRequestsCarryBearer(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok123" {
			t.Errorf("Authorization = %q, want Bearer tok123", got)
		}
		w.Write([]byte(`[]`))
	})

	_, err := c.CartLines(context.Background(), model.Session{Token: "tok123"})
	if err != nil {
		t.Fatal(err)
	}
}

func TestDecodeListEnvelopes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"bare array", `[{"id":1},{"id":2}]`, 2},
		{"data envelope", `{"data":[{"id":1}]}`, 1},
		{"paginated envelope", `{"data":{"data":[{"id":1},{"id":2},{"id":3}],"current_page":1}}`, 3},
		{"null data", `{"data":null}`, 0},
		{"empty body", ``, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})
			got, err := c.Products(context.Background(), model.Session{}, ProductQuery{})
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d products, want %d", len(got), tt.want)
			}
		})
	}
}

func TestAddCartItemBodyAndDefaultPack(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	c, events := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
	})

	fired := false
	events.Subscribe(bus.CartChanged, func() { fired = true })

	err := c.AddCartItem(context.Background(), model.Session{Token: "t"}, "41", "")
	if err != nil {
		t.Fatal(err)
	}
	if gotPath != "/cart/41" {
		t.Errorf("path = %q, want /cart/41", gotPath)
	}
	if gotBody["product_id"] != "41" || gotBody["pack_size_id"] != "2" {
		t.Errorf("body = %v, want product_id=41 pack_size_id=2", gotBody)
	}
	if !fired {
		t.Error("cart change event not published")
	}
}

func TestSetCartQuantityQueryParams(t *testing.T) {
	var gotQuery map[string][]string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		gotQuery = r.URL.Query()
		w.WriteHeader(http.StatusOK)
	})

	err := c.SetCartQuantity(context.Background(), model.Session{Token: "t"}, "41", "k2", 3)
	if err != nil {
		t.Fatal(err)
	}
	if got := gotQuery["quantity"]; len(got) != 1 || got[0] != "3" {
		t.Errorf("quantity = %v, want [3]", got)
	}
	if got := gotQuery["pack_size_id"]; len(got) != 1 || got[0] != "k2" {
		t.Errorf("pack_size_id = %v, want [k2]", got)
	}
}

func TestToggleFavoriteOutcome(t *testing.T) {
	tests := []struct {
		message string
		want    ToggleOutcome
	}{
		{"Added to favorites", ToggleOutcomeAdded},
		{"Removed from favorites", ToggleOutcomeRemoved},
		{"", ToggleOutcomeRemoved},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]string{"message": tt.message})
			})
			got, err := c.ToggleFavorite(context.Background(), model.Session{Token: "t"}, "41")
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("outcome = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, model.ErrNotFound},
		{http.StatusUnauthorized, model.ErrUnauthorized},
		{http.StatusUnprocessableEntity, model.ErrInvalidRequest},
		{http.StatusTooManyRequests, model.ErrRateLimited},
		{http.StatusInternalServerError, model.ErrUpstreamError},
	}

	for _, tt := range tests {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			w.Write([]byte(`{"message":"nope"}`))
		})
		_, err := c.CartLines(context.Background(), model.Session{Token: "t"})
		if !errors.Is(err, tt.want) {
			t.Errorf("status %d: error = %v, want %v", tt.status, err, tt.want)
		}
	}
}

func TestCartCountResolvesToZeroOnFailure(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if got := c.CartCount(context.Background(), model.Session{Token: "t"}); got != 0 {
		t.Errorf("CartCount() = %d, want 0", got)
	}
}

func TestWishlistEntryResolveID(t *testing.T) {
	body := `{"data":[
		{"id": 7},
		{"product_id": "8"},
		{"product": {"id": 9}},
		{"pivot": {"product_id": 10}}
	]}`
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	})

	ids, err := c.WishlistProductIDs(context.Background(), model.Session{Token: "t"})
	if err != nil {
		t.Fatal(err)
	}
	want := []model.Ident{"7", "8", "9", "10"}
	if len(ids) != len(want) {
		t.Fatalf("got %d ids, want %d", len(ids), len(want))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}

func TestLoginTokenAliases(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"top-level token", `{"token":"abc"}`},
		{"access_token", `{"access_token":"abc"}`},
		{"nested in data", `{"data":{"token":"abc"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})
			sess, err := c.Login(context.Background(), Credentials{Email: "a@b.c", Password: "p"})
			if err != nil {
				t.Fatal(err)
			}
			if sess.Token != "abc" {
				t.Errorf("token = %q, want abc", sess.Token)
			}
		})
	}

	t.Run("no token is an auth error", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"user":{"id":1}}`))
		})
		_, err := c.Login(context.Background(), Credentials{Email: "a@b.c", Password: "p"})
		if !errors.Is(err, model.ErrUnauthorized) {
			t.Errorf("error = %v, want unauthorized", err)
		}
	})
}

func TestCartSummaryCouponShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"object coupon", `{"data":{"subtotal":"10.00","coupon":{"code":"SAVE5"}}}`, "SAVE5"},
		{"string coupon", `{"subtotal":10,"coupon":"SAVE5"}`, "SAVE5"},
		{"coupon_code field", `{"subtotal":10,"coupon_code":"SAVE5"}`, "SAVE5"},
		{"no coupon", `{"subtotal":10}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})
			s, err := c.CartSummary(context.Background(), model.Session{Token: "t"})
			if err != nil {
				t.Fatal(err)
			}
			if got := s.AppliedCoupon(); got != tt.want {
				t.Errorf("AppliedCoupon() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVerifyResetOTPTokenAliases(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"reset_token", `{"reset_token":"rt1"}`},
		{"nested reset_token", `{"data":{"reset_token":"rt1"}}`},
		{"token fallback", `{"token":"rt1"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/auth/reset-password/verify-otp" {
					t.Errorf("path = %q", r.URL.Path)
				}
				w.Write([]byte(tt.body))
			})
			tok, err := c.VerifyResetOTP(context.Background(), "a@b.c", "123456")
			if err != nil {
				t.Fatal(err)
			}
			if tok != "rt1" {
				t.Errorf("reset token = %q, want rt1", tok)
			}
		})
	}

	t.Run("no token is an auth error", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"message":"ok"}`))
		})
		_, err := c.VerifyResetOTP(context.Background(), "a@b.c", "123456")
		if !errors.Is(err, model.ErrUnauthorized) {
			t.Errorf("error = %v, want unauthorized", err)
		}
	})
}

func TestCancelAndTrackOrderPaths(t *testing.T) {
	var gotMethod, gotPath string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.Write([]byte(`{"data":{"status":"shipped"}}`))
	})

	if err := c.CancelOrder(context.Background(), model.Session{Token: "t"}, "42"); err != nil {
		t.Fatal(err)
	}
	if gotMethod != http.MethodPost || gotPath != "/orders/42/cancel" {
		t.Errorf("cancel request = %s %s, want POST /orders/42/cancel", gotMethod, gotPath)
	}

	tr, err := c.TrackOrder(context.Background(), model.Session{Token: "t"}, "42")
	if err != nil {
		t.Fatal(err)
	}
	if gotMethod != http.MethodGet || gotPath != "/orders/42/track" {
		t.Errorf("track request = %s %s, want GET /orders/42/track", gotMethod, gotPath)
	}
	if tr.Status != "shipped" {
		t.Errorf("tracking status = %q, want shipped", tr.Status)
	}
}

func TestValidateCoupon(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/coupons/validate" || r.Method != http.MethodPost {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["code"] != "SAVE5" {
			t.Errorf("code = %q, want SAVE5", body["code"])
		}
		w.Write([]byte(`{"data":{"code":"SAVE5","discount":5,"discount_type":"percentage"}}`))
	})

	coupon, err := c.ValidateCoupon(context.Background(), model.Session{Token: "t"}, "SAVE5")
	if err != nil {
		t.Fatal(err)
	}
	if coupon.Code != "SAVE5" || coupon.Discount.Value != 5 {
		t.Errorf("coupon = %+v, want SAVE5 at 5", coupon)
	}
}

func TestProcessPayment(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/payments" || r.Method != http.MethodPost {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"data":{"status":"paid","reference":"pay_9"}}`))
	})

	res, err := c.ProcessPayment(context.Background(), model.Session{Token: "t"}, PaymentRequest{OrderID: "42"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != "paid" || res.Reference != "pay_9" {
		t.Errorf("result = %+v, want paid pay_9", res)
	}
}
