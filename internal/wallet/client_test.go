package wallet

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/umutdv/riddlebot/internal/riddle"
)

func TestRegisterPostsClaim(t *testing.T) {
	var got riddle.Claim
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if r.URL.Path != "/save-wallet" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode claim: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "/save-wallet", srv.Client())
	claim := riddle.Claim{Username: "alice", Wallet: "0xABC", RiddleID: 7}
	if err := c.Register(context.Background(), claim); err != nil {
		t.Fatalf("register: %v", err)
	}
	if got != claim {
		t.Fatalf("backend received %+v, want %+v", got, claim)
	}
}

func TestRegisterBackendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "duplicate wallet"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "/save-wallet", srv.Client())
	err := c.Register(context.Background(), riddle.Claim{Username: "bob", Wallet: "0xDEF", RiddleID: 1})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "status 500") || !strings.Contains(err.Error(), "duplicate wallet") {
		t.Fatalf("error should carry status and backend detail, got %v", err)
	}
}

func TestRegisterUnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL, "/save-wallet", nil)
	if err := c.Register(context.Background(), riddle.Claim{Username: "x"}); err == nil {
		t.Fatal("expected connection error")
	}
}
