package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHTTPFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method %s", r.Method)
		}
		if r.URL.Path != "/generateRiddle" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"riddleId": 42, "question": "moon riddle", "answer": "moon"}`))
	}))
	defer srv.Close()

	src := NewHTTP(srv.URL, "/generateRiddle", srv.Client())
	r, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if r.ID != 42 || r.Question != "moon riddle" || r.Answer != "moon" {
		t.Fatalf("unexpected riddle: %+v", r)
	}
}

func TestHTTPFetchBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "No riddles in database"}`))
	}))
	defer srv.Close()

	src := NewHTTP(srv.URL, "/generateRiddle", srv.Client())
	_, err := src.Fetch(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "status 404") || !strings.Contains(err.Error(), "No riddles in database") {
		t.Fatalf("error should carry status and backend detail, got %v", err)
	}
}

func TestHTTPFetchMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	src := NewHTTP(srv.URL, "/generateRiddle", srv.Client())
	if _, err := src.Fetch(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestHTTPFetchHonorsContextDeadline(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	src := NewHTTP(srv.URL, "/generateRiddle", srv.Client())
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := src.Fetch(ctx)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("fetch did not respect deadline, took %v", elapsed)
	}
}
