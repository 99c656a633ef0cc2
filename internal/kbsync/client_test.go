package kbsync

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"programcheck/internal/config"
	"programcheck/internal/storage"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, payload any) *http.Response {
	blob, _ := json.Marshal(payload)
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(string(blob))),
		Header:     make(http.Header),
	}
}

func testConfig() config.Config {
	cfg, _ := config.Load()
	cfg.KBAPIToken = "test"
	cfg.KBAPIBaseURL = "https://example.test/api/v1/"
	cfg.KBKey = "programs"
	cfg.KBRateLimitRPS = 1000
	return cfg
}

func TestGetWithRetry(t *testing.T) {
	attempt := 0
	client := NewClient(testConfig())
	client.http.HTTPClient.Transport = roundTripFunc(func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/api/v1/kv/programs" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test" {
			t.Fatalf("auth=%q", r.Header.Get("Authorization"))
		}
		attempt++
		if attempt == 1 {
			return jsonResponse(http.StatusServiceUnavailable, map[string]any{"error": "busy"}), nil
		}
		return jsonResponse(http.StatusOK, map[string]any{"success": true, "data": map[string]any{"key": "programs", "value": "clamo, PENTH"}}), nil
	})

	entry, err := client.Get(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if attempt != 2 || entry.Value != "clamo, PENTH" {
		t.Fatalf("attempt=%d entry=%+v", attempt, entry)
	}
}

func TestGetNotFound(t *testing.T) {
	client := NewClient(testConfig())
	client.http.HTTPClient.Transport = roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusNotFound, map[string]any{"success": false}), nil
	})
	if _, err := client.Get(context.Background()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v", err)
	}
}

func TestMissingToken(t *testing.T) {
	cfg := testConfig()
	cfg.KBAPIToken = ""
	if _, err := NewClient(cfg).Get(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestPullAndPush(t *testing.T) {
	db, err := storage.Open(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var pushed string
	svc := NewSyncService(db, testConfig())
	svc.client.http.HTTPClient.Transport = roundTripFunc(func(r *http.Request) (*http.Response, error) {
		switch r.Method {
		case http.MethodGet:
			return jsonResponse(http.StatusOK, map[string]any{"success": true, "data": map[string]any{"key": "programs", "value": "clamo, PENTH\nclamo"}}), nil
		case http.MethodPut:
			var body map[string]string
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			pushed = body["value"]
			return jsonResponse(http.StatusOK, map[string]any{"success": true, "data": map[string]any{"key": "programs", "value": pushed}}), nil
		}
		t.Fatalf("unexpected method %s", r.Method)
		return nil, nil
	})

	n, err := svc.Pull(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	kb, _ := db.GetKnowledgeBase()
	if n != 2 || kb != "CLAMO\nPENTH" {
		t.Fatalf("n=%d kb=%q", n, kb)
	}

	if err := db.SetKnowledgeBase(kb + "\nNOTIC"); err != nil {
		t.Fatal(err)
	}
	n, err = svc.Push(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 || pushed != "CLAMO\nPENTH\nNOTIC" {
		t.Fatalf("n=%d pushed=%q", n, pushed)
	}
}

func TestRateLimiterHonoursContext(t *testing.T) {
	r := NewRateLimiter(1)
	ctx, cancel := context.WithCancel(context.Background())
	if err := r.Wait(ctx); err != nil {
		t.Fatal(err)
	}
	cancel()
	if err := r.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v", err)
	}
}

func TestPullReportsMetadataFailure(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "app.db")
	db, err := storage.Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	raw, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer raw.Close()
	if _, err := raw.Exec(`CREATE TRIGGER no_pull_time BEFORE INSERT ON metadata WHEN NEW.key = 'kb.last_pull'
BEGIN SELECT RAISE(ABORT, 'metadata locked'); END;`); err != nil {
		t.Fatal(err)
	}

	svc := NewSyncService(db, testConfig())
	svc.client.http.HTTPClient.Transport = roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, map[string]any{"success": true, "data": map[string]any{"key": "programs", "value": "CLAMO"}}), nil
	})
	if _, err := svc.Pull(context.Background()); err == nil {
		t.Fatal("expected metadata error")
	}
}
