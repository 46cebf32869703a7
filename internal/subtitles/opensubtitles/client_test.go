package opensubtitles

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"subfetch/internal/moviehash"
)

func TestSearchBuildsQueryAndParsesResponse(t *testing.T) {
	var captured *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		if r.URL.Path == "/subtitles" {
			resp := map[string]any{
				"data": []map[string]any{
					{
						"id": "X99",
						"attributes": map[string]any{
							"language":       "en",
							"release":        "movie.WEBRip",
							"ratings":        8.5,
							"download_count": 120,
							"files": []map[string]any{
								{"file_id": 555, "file_name": "movie.eng.srt"},
							},
						},
					},
					{
						"id": "Y12",
						"attributes": map[string]any{
							"language":       "es",
							"ratings":        6.0,
							"download_count": 80,
							"files": []map[string]any{
								{"file_id": 777, "file_name": "movie.spa.srt"},
							},
						},
					},
					{
						// No files: entry must be skipped.
						"id": "Z00",
						"attributes": map[string]any{
							"language": "en",
							"ratings":  9.9,
						},
					},
				},
				"meta": map[string]any{"total_count": 3},
			}
			_ = json.NewEncoder(w).Encode(resp)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client, err := New(Config{
		APIKey:    "abc",
		UserAgent: "subfetch/test",
		BaseURL:   server.URL,
	})
	if err != nil {
		t.Fatalf("New client failed: %v", err)
	}

	fp := moviehash.Fingerprint{Size: 735934464, Hash: 0x8e245d9679d31e12}
	candidates, err := client.Search(context.Background(), fp, []string{"en", "es"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if captured == nil {
		t.Fatal("no request captured")
	}
	query := captured.URL.Query()
	if got := query.Get("moviehash"); got != "8e245d9679d31e12" {
		t.Fatalf("moviehash = %q", got)
	}
	if got := query.Get("languages"); got != "en,es" {
		t.Fatalf("languages = %q", got)
	}
	if captured.Header.Get("Api-Key") != "abc" {
		t.Fatalf("missing api key header")
	}
	if captured.Header.Get("User-Agent") != "subfetch/test" {
		t.Fatalf("unexpected user agent %q", captured.Header.Get("User-Agent"))
	}

	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	first := candidates[0]
	if first.ID != "X99" || first.FileID != 555 || first.Language != "en" {
		t.Fatalf("unexpected first candidate: %+v", first)
	}
	if first.Score != 8.5 {
		t.Fatalf("score = %v", first.Score)
	}
	if first.FileName != "movie.eng.srt" {
		t.Fatalf("file name = %q", first.FileName)
	}
}

func TestSearchZeroResultsIsNotError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []any{}, "meta": map[string]any{"total_count": 0}})
	}))
	defer server.Close()

	client, err := New(Config{APIKey: "abc", BaseURL: server.URL})
	if err != nil {
		t.Fatal(err)
	}
	candidates, err := client.Search(context.Background(), moviehash.Fingerprint{Size: 1, Hash: 2}, nil)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(candidates) != 0 {
		t.Fatalf("expected no candidates, got %d", len(candidates))
	}
}

func TestSearchServerErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := New(Config{APIKey: "abc", BaseURL: server.URL})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := client.Search(context.Background(), moviehash.Fingerprint{}, nil); err == nil {
		t.Fatal("expected error for 502 response")
	}
}

func TestDownloadTwoPhase(t *testing.T) {
	var negotiated bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/download":
			negotiated = true
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			body, _ := io.ReadAll(r.Body)
			var req map[string]any
			if err := json.Unmarshal(body, &req); err != nil {
				t.Errorf("bad download body: %v", err)
			}
			if req["file_id"] != float64(555) {
				t.Errorf("file_id = %v", req["file_id"])
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"link":      "/payload/555",
				"file_name": "movie.eng.srt",
				"language":  "en",
			})
		case "/payload/555":
			if !negotiated {
				t.Error("payload fetched before negotiation")
			}
			_, _ = w.Write([]byte("1\n00:00:01,000 --> 00:00:02,000\nhello\n"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client, err := New(Config{APIKey: "abc", BaseURL: server.URL})
	if err != nil {
		t.Fatal(err)
	}
	result, err := client.Download(context.Background(), 555, DownloadOptions{})
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if result.FileName != "movie.eng.srt" || result.Language != "en" {
		t.Fatalf("unexpected result metadata: %+v", result)
	}
	if len(result.Data) == 0 {
		t.Fatal("empty payload")
	}
}

func TestDownloadInvalidFileID(t *testing.T) {
	client, err := New(Config{APIKey: "abc"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := client.Download(context.Background(), 0, DownloadOptions{}); err == nil {
		t.Fatal("expected error for invalid file id")
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestIsRetriable(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		expect bool
	}{
		{"nil", nil, false},
		{"deadline", context.DeadlineExceeded, true},
		{"rate limit status", errors.New("opensubtitles: search failed (429 Too Many Requests)"), true},
		{"bad gateway", errors.New("opensubtitles: search failed (502 Bad Gateway)"), true},
		{"connection reset", errors.New("read tcp: connection reset by peer"), true},
		{"not found", errors.New("opensubtitles: search failed (404 Not Found)"), false},
		{"plain", errors.New("invalid response"), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsRetriable(tc.err); got != tc.expect {
				t.Fatalf("IsRetriable(%v) = %v, want %v", tc.err, got, tc.expect)
			}
		})
	}
}

func TestLimiterStopsOnNonRetriable(t *testing.T) {
	var limiter Limiter
	calls := 0
	err := limiter.Invoke(context.Background(), func() error {
		calls++
		return errors.New("fatal: bad request")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
}

func TestLimiterHonorsCancellation(t *testing.T) {
	var limiter Limiter
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()
	err := limiter.Invoke(ctx, func() error {
		calls++
		return errors.New("rate limit exceeded")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls == 0 {
		t.Fatal("operation never attempted")
	}
}

func TestSleepWithContextImmediateForNonPositive(t *testing.T) {
	if err := SleepWithContext(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
