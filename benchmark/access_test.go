package benchmark

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
)

// These benchmarks run against a live server, seeded with the default
// document:
//
//	rbacctl server &
//	go test -bench . ./benchmark
func serverURL() string {
	if u := os.Getenv("RBAC_BENCH_URL"); u != "" {
		return u
	}
	return "http://localhost:8000"
}

func login(b *testing.B) string {
	b.Helper()
	password := os.Getenv("RBAC_BENCH_PASSWORD")
	if password == "" {
		password = "admin123"
	}
	body, _ := json.Marshal(map[string]string{"username": "admin", "password": password})
	resp, err := http.Post(serverURL()+"/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		b.Skipf("server not reachable at %s: %v", serverURL(), err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		b.Skipf("login failed with status %d", resp.StatusCode)
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		b.Fatal(err)
	}
	return out.Token
}

func BenchmarkAccessHandlers(b *testing.B) {
	token := login(b)
	check := []byte(`{"module":"Users","action":"read"}`)

	b.Run("POST /access/check", func(b *testing.B) {

		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			r, _ := http.NewRequest("POST", serverURL()+"/access/check", bytes.NewReader(check))
			r.Header.Add("Authorization", fmt.Sprintf("Bearer %s", token))
			resp, err := http.DefaultClient.Do(r)
			if err == nil {
				_ = resp.Body.Close()
			}
		}
	})

	b.Run("GET /access/me", func(b *testing.B) {

		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			r, _ := http.NewRequest("GET", serverURL()+"/access/me", nil)
			r.Header.Add("Authorization", fmt.Sprintf("Bearer %s", token))
			resp, err := http.DefaultClient.Do(r)
			if err == nil {
				_ = resp.Body.Close()
			}
		}
	})

	b.Run("POST /access/check parallel", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				r, _ := http.NewRequest("POST", serverURL()+"/access/check", bytes.NewReader(check))
				r.Header.Add("Authorization", fmt.Sprintf("Bearer %s", token))
				resp, err := http.DefaultClient.Do(r)
				if err == nil {
					_ = resp.Body.Close()
				}
			}
		})
	})
}
