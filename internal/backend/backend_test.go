package backend_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mwhitfield/bursar/internal/backend"
	"github.com/mwhitfield/bursar/internal/expense"
)

func newClient(t *testing.T, serverURL string) backend.System {
	t.Helper()

	cfg := &backend.Config{
		BaseURL:  serverURL,
		Username: "reviewer",
		Password: "secret",
		Timeout:  "5s",
	}
	sys, err := backend.New(cfg, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return sys
}

func TestAllowances(t *testing.T) {
	t.Run("parses rate table", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/allowances" {
				t.Errorf("path = %q, want /allowances", r.URL.Path)
			}
			if user, pass, ok := r.BasicAuth(); !ok || user != "reviewer" || pass != "secret" {
				t.Error("missing or wrong basic auth")
			}
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"Berlin": 50, "Paris": "62.5"}`)
		}))
		defer srv.Close()

		rates := newClient(t, srv.URL).Allowances(context.Background())
		if len(rates) != 2 {
			t.Fatalf("len(rates) = %d, want 2", len(rates))
		}
		if rates["Berlin"] != 50 || rates["Paris"] != 62.5 {
			t.Errorf("rates = %v", rates)
		}
	})

	t.Run("server error degrades to empty table", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		rates := newClient(t, srv.URL).Allowances(context.Background())
		if rates == nil || len(rates) != 0 {
			t.Errorf("rates = %v, want empty non-nil map", rates)
		}
	})

	t.Run("garbage body degrades to empty table", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, "not json")
		}))
		defer srv.Close()

		rates := newClient(t, srv.URL).Allowances(context.Background())
		if len(rates) != 0 {
			t.Errorf("rates = %v, want empty", rates)
		}
	})

	t.Run("unreachable backend degrades to empty table", func(t *testing.T) {
		srv := httptest.NewServer(nil)
		srv.Close()

		rates := newClient(t, srv.URL).Allowances(context.Background())
		if len(rates) != 0 {
			t.Errorf("rates = %v, want empty", rates)
		}
	})

	t.Run("non-numeric entry discards the table", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"Berlin": 50, "Paris": {"rate": 62}}`)
		}))
		defer srv.Close()

		rates := newClient(t, srv.URL).Allowances(context.Background())
		if len(rates) != 0 {
			t.Errorf("rates = %v, want empty", rates)
		}
	})
}

func TestFindTicket(t *testing.T) {
	t.Run("existing ticket", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("ticketID"); got != "992211" {
				t.Errorf("ticketID = %q, want 992211", got)
			}
			io.WriteString(w, `{"ticketID": "992211", "ticketStatus": "OPEN"}`)
		}))
		defer srv.Close()

		exists, ticket := newClient(t, srv.URL).FindTicket(context.Background(), "992211")
		if !exists {
			t.Fatal("exists = false, want true")
		}
		if ticket["ticketStatus"] != "OPEN" {
			t.Errorf("ticket = %v", ticket)
		}
	})

	t.Run("unknown ticket", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		exists, ticket := newClient(t, srv.URL).FindTicket(context.Background(), "000000")
		if exists || ticket != nil {
			t.Errorf("FindTicket = (%v, %v), want (false, nil)", exists, ticket)
		}
	})

	t.Run("empty id short-circuits without a request", func(t *testing.T) {
		called := false
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		defer srv.Close()

		exists, _ := newClient(t, srv.URL).FindTicket(context.Background(), "")
		if exists {
			t.Error("exists = true, want false")
		}
		if called {
			t.Error("backend was called for an empty ticket id")
		}
	})

	t.Run("server error degrades to not found", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		exists, _ := newClient(t, srv.URL).FindTicket(context.Background(), "992211")
		if exists {
			t.Error("exists = true, want false")
		}
	})
}

func TestUpdateTicket(t *testing.T) {
	t.Run("writes status and comment", func(t *testing.T) {
		var received map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut {
				t.Errorf("method = %s, want PUT", r.Method)
			}
			if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
				t.Errorf("decode payload: %v", err)
			}
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		ticket := backend.Ticket{"ticketID": "992211", "ticketStatus": "OPEN"}
		decision := expense.ApprovalDecision{Approve: true, Comment: "Approved: all checks passed."}

		err := newClient(t, srv.URL).UpdateTicket(context.Background(), "992211", decision, ticket)
		if err != nil {
			t.Fatalf("UpdateTicket error: %v", err)
		}

		if received["ticketStatus"] != "APPROVED" {
			t.Errorf("ticketStatus = %v, want APPROVED", received["ticketStatus"])
		}
		if received["comment"] != decision.Comment {
			t.Errorf("comment = %v, want %q", received["comment"], decision.Comment)
		}
		if ticket["ticketStatus"] != "OPEN" {
			t.Errorf("caller's record was mutated: %v", ticket)
		}
	})

	t.Run("rejection writes REJECTED", func(t *testing.T) {
		var received map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&received)
		}))
		defer srv.Close()

		decision := expense.ApprovalDecision{Approve: false, Comment: "Rejected: totals disagree."}
		err := newClient(t, srv.URL).UpdateTicket(context.Background(), "5", decision, backend.Ticket{})
		if err != nil {
			t.Fatalf("UpdateTicket error: %v", err)
		}
		if received["ticketStatus"] != "REJECTED" {
			t.Errorf("ticketStatus = %v, want REJECTED", received["ticketStatus"])
		}
	})

	t.Run("missing inputs are rejected locally", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("backend should not be called")
		}))
		defer srv.Close()

		client := newClient(t, srv.URL)
		if err := client.UpdateTicket(context.Background(), "", expense.ApprovalDecision{}, backend.Ticket{}); err == nil {
			t.Error("expected error for missing ticket id")
		}
		if err := client.UpdateTicket(context.Background(), "5", expense.ApprovalDecision{}, nil); err == nil {
			t.Error("expected error for missing ticket data")
		}
	})

	t.Run("unexpected status is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
		}))
		defer srv.Close()

		err := newClient(t, srv.URL).UpdateTicket(context.Background(), "5", expense.ApprovalDecision{}, backend.Ticket{})
		if err == nil {
			t.Error("expected error for HTTP 409")
		}
	})
}
