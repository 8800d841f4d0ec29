//go:build integration
// +build integration

package integration

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"os"
	"strings"
	"testing"
	"time"
)

var baseURL = getenv("E2E_BASE_URL", "http://localhost:8080")

func TestSystem_E2E_Basket(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	waitReady(t, ctx, baseURL+"/readyz")

	client := newSessionClient(t)

	var products []struct {
		ID    string `json:"id"`
		Price int64  `json:"price"`
	}
	getJSON(t, client, baseURL+"/api/products", &products, http.StatusOK)
	if len(products) == 0 {
		t.Fatalf("expected non-empty products")
	}

	pid := products[0].ID
	if pid == "" {
		t.Fatalf("product id missing in response: %#v", products[0])
	}

	getText(t, client, baseURL+"/api/basket/clear", http.StatusOK)
	getText(t, client, baseURL+"/api/basket/"+pid, http.StatusOK)
	getText(t, client, baseURL+"/api/basket/"+pid, http.StatusOK)

	var basket struct {
		Total      int64 `json:"total"`
		ItemsCount int   `json:"items_count"`
	}
	getJSON(t, client, baseURL+"/api/basket", &basket, http.StatusOK)
	if basket.ItemsCount != 2 || basket.Total != 2*products[0].Price {
		t.Fatalf("basket=%+v want 2 x %d", basket, products[0].Price)
	}

	other := newSessionClient(t)
	getJSON(t, other, baseURL+"/api/basket", &basket, http.StatusOK)
	if basket.ItemsCount != 0 {
		t.Fatalf("fresh session sees foreign basket: %+v", basket)
	}

	if msg := getText(t, client, baseURL+"/api/basket/not-a-uuid", http.StatusBadRequest); !strings.HasPrefix(msg, "Ошибка: ") {
		t.Fatalf("unexpected error text: %q", msg)
	}
}

func newSessionClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &http.Client{Jar: jar, Timeout: 5 * time.Second}
}

func waitReady(t *testing.T, ctx context.Context, url string) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}

	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		resp, err := client.Do(req)
		if err == nil && resp != nil && resp.StatusCode == 200 {
			_ = resp.Body.Close()
			return
		}
		if resp != nil {
			_ = resp.Body.Close()
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("service not ready: %s", url)
}

func getJSON(t *testing.T, client *http.Client, url string, out any, want int) {
	t.Helper()

	resp := doGet(t, client, url, want)
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func getText(t *testing.T, client *http.Client, url string, want int) string {
	t.Helper()

	resp := doGet(t, client, url, want)
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func doGet(t *testing.T, client *http.Client, url string, want int) *http.Response {
	t.Helper()

	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	if resp.StatusCode != want {
		resp.Body.Close()
		t.Fatalf("GET %s: status=%d want=%d", url, resp.StatusCode, want)
	}
	return resp
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
