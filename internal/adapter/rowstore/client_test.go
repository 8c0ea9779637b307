package rowstore

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// rowStoreServer is a minimal fake of the store's REST surface: a token
// endpoint plus one table handler.
func rowStoreServer(t *testing.T, tokenCalls *int32, table http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/auth/jwt", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("token endpoint called with %s", r.Method)
		}
		if r.Header.Get("X-Project") != "proj" || r.Header.Get("X-Key") != "key" {
			t.Errorf("missing credentials: %v", r.Header)
		}
		if tokenCalls != nil {
			atomic.AddInt32(tokenCalls, 1)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"jwt": "token-1", "expiresIn": 900})
	})
	mux.HandleFunc("/", table)
	return httptest.NewServer(mux)
}

func newTestClient(t *testing.T, baseURL string) *HTTPClient {
	t.Helper()
	client, err := NewHTTPClient(baseURL, "proj", "key", "main", testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

func TestNewHTTPClientValidatesInput(t *testing.T) {
	if _, err := NewHTTPClient("://bad-url", "p", "k", "db", testLogger()); err == nil {
		t.Fatal("expected error for invalid url")
	}
	if _, err := NewHTTPClient("/relative", "p", "k", "db", testLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}
	if _, err := NewHTTPClient("http://store", "", "k", "db", testLogger()); err == nil {
		t.Fatal("expected error for missing project")
	}
	if _, err := NewHTTPClient("http://store", "p", "", "db", testLogger()); err == nil {
		t.Fatal("expected error for missing key")
	}
}

func TestListRowsSendsQueriesAndAuth(t *testing.T) {
	var gotPath, gotAuth string
	var gotQueries []string
	server := rowStoreServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotQueries = r.URL.Query()["queries[]"]
		_ = json.NewEncoder(w).Encode(RowList{Total: 1, Rows: []json.RawMessage{json.RawMessage(`{"$id":"r1"}`)}})
	})
	defer server.Close()

	client := newTestClient(t, server.URL)
	list, err := client.ListRows(context.Background(), "shop_orders", []Query{Equal("status", "paid"), Limit(10)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/v1/databases/main/tables/shop_orders/rows" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if gotAuth != "Bearer token-1" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if len(gotQueries) != 2 {
		t.Fatalf("expected two query expressions, got %v", gotQueries)
	}
	if list.Total != 1 || len(list.Rows) != 1 {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestGetRowNotFound(t *testing.T) {
	server := rowStoreServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	defer server.Close()

	client := newTestClient(t, server.URL)
	if _, err := client.GetRow(context.Background(), "shop_orders", "missing"); !errors.Is(err, ErrRowNotFound) {
		t.Fatalf("expected ErrRowNotFound, got %v", err)
	}
}

func TestRateLimitSignal(t *testing.T) {
	server := rowStoreServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	})
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.ListRows(context.Background(), "shop_orders", nil)

	var tooMany TooManyRequestsError
	if !errors.As(err, &tooMany) {
		t.Fatalf("expected TooManyRequestsError, got %v", err)
	}
	if tooMany.RetryAfter != 7*time.Second {
		t.Fatalf("unexpected retry delay %v", tooMany.RetryAfter)
	}
}

func TestCreateRowGeneratesIDWhenEmpty(t *testing.T) {
	var gotBody map[string]any
	server := rowStoreServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"$id":"generated"}`))
	})
	defer server.Close()

	client := newTestClient(t, server.URL)
	if _, err := client.CreateRow(context.Background(), "shop_orders", "", map[string]any{"total": 10}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotBody["rowId"] != "unique()" {
		t.Fatalf("expected generated row id marker, got %v", gotBody["rowId"])
	}
	if _, ok := gotBody["data"]; !ok {
		t.Fatalf("payload must nest fields under data, got %v", gotBody)
	}
}

func TestUpdateRowPatchesData(t *testing.T) {
	var gotMethod, gotPath string
	server := rowStoreServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"$id":"o1"}`))
	})
	defer server.Close()

	client := newTestClient(t, server.URL)
	if _, err := client.UpdateRow(context.Background(), "shop_orders", "o1", map[string]any{"status": "paid"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodPatch || gotPath != "/v1/databases/main/tables/shop_orders/rows/o1" {
		t.Fatalf("unexpected request %s %s", gotMethod, gotPath)
	}
}

func TestSessionTokenIsCached(t *testing.T) {
	var tokenCalls int32
	server := rowStoreServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(RowList{})
	})
	defer server.Close()

	client := newTestClient(t, server.URL)
	for i := 0; i < 5; i++ {
		if _, err := client.ListRows(context.Background(), "shop_orders", nil); err != nil {
			t.Fatalf("request %d failed: %v", i, err)
		}
	}
	if got := atomic.LoadInt32(&tokenCalls); got != 1 {
		t.Fatalf("expected one token issue, got %d", got)
	}
}

func TestSessionTokenSingleFlight(t *testing.T) {
	var tokenCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/auth/jwt", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&tokenCalls, 1)
		time.Sleep(50 * time.Millisecond)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"jwt": "token-1", "expiresIn": 900})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(RowList{})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server.URL)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := client.ListRows(context.Background(), "shop_orders", nil); err != nil {
				t.Errorf("concurrent request failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&tokenCalls); got != 1 {
		t.Fatalf("concurrent refreshes must collapse to one, got %d", got)
	}
}

func TestSessionTokenRefreshesNearExpiry(t *testing.T) {
	var tokenCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/auth/jwt", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&tokenCalls, 1)
		w.WriteHeader(http.StatusCreated)
		// expires inside the slack window, so every call refreshes
		_ = json.NewEncoder(w).Encode(map[string]any{"jwt": "short", "expiresIn": 1})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(RowList{})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server.URL)
	for i := 0; i < 2; i++ {
		if _, err := client.ListRows(context.Background(), "shop_orders", nil); err != nil {
			t.Fatalf("request %d failed: %v", i, err)
		}
	}
	if got := atomic.LoadInt32(&tokenCalls); got != 2 {
		t.Fatalf("expected a refresh per request, got %d", got)
	}
}

func TestParseRetryAfter(t *testing.T) {
	if d := parseRetryAfter(""); d != 5*time.Second {
		t.Fatalf("unexpected default %v", d)
	}
	if d := parseRetryAfter("12"); d != 12*time.Second {
		t.Fatalf("unexpected seconds parse %v", d)
	}
	if d := parseRetryAfter("garbage"); d != 5*time.Second {
		t.Fatalf("unexpected fallback %v", d)
	}
}
