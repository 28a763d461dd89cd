// Package backend talks to the travel ticketing service. Read operations
// degrade to empty values with a warning when the backend is unreachable or
// answers unexpectedly; a review must reach its decision even when the
// backend is flaky.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mwhitfield/bursar/internal/expense"
)

// Ticket is the backend's travel ticket record. Its shape is owned by the
// backend; the reviewer only sets ticketStatus and comment on write-back.
type Ticket map[string]any

// System is the ticketing backend client contract.
type System interface {
	// Allowances fetches the city-to-daily-rate table. Any failure yields an
	// empty table.
	Allowances(ctx context.Context) map[string]float64
	// FindTicket looks up a travel ticket. Missing IDs, unknown tickets, and
	// failures all yield (false, nil).
	FindTicket(ctx context.Context, ticketID string) (bool, Ticket)
	// UpdateTicket writes the decision back to the ticket. The given record
	// is not mutated; status and comment are set on a copy.
	UpdateTicket(ctx context.Context, ticketID string, decision expense.ApprovalDecision, ticket Ticket) error
}

type client struct {
	http     *http.Client
	baseURL  string
	username string
	password string
	logger   *slog.Logger
}

// New creates a backend client from the given configuration.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse backend base url: %w", err)
	}

	return &client{
		http:     &http.Client{Timeout: cfg.TimeoutDuration()},
		baseURL:  base.String(),
		username: cfg.Username,
		password: cfg.Password,
		logger:   logger.With("system", "backend"),
	}, nil
}

func (c *client) Allowances(ctx context.Context) map[string]float64 {
	resp, err := c.request(ctx, http.MethodGet, "/allowances", nil, nil)
	if err != nil {
		c.logger.Warn("failed to fetch allowances", "error", err)
		return map[string]float64{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("unexpected status fetching allowances", "status", resp.StatusCode)
		return map[string]float64{}
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		c.logger.Warn("failed to parse allowances response", "error", err)
		return map[string]float64{}
	}

	rates := make(map[string]float64, len(raw))
	for city, v := range raw {
		rate, ok := toFloat(v)
		if !ok {
			c.logger.Warn("allowance entry is not numeric", "city", city)
			return map[string]float64{}
		}
		rates[city] = rate
	}

	c.logger.Info("allowances loaded", "entries", len(rates))
	return rates
}

func (c *client) FindTicket(ctx context.Context, ticketID string) (bool, Ticket) {
	if ticketID == "" {
		return false, nil
	}

	query := url.Values{"ticketID": {ticketID}}
	resp, err := c.request(ctx, http.MethodGet, "/travelTicket", query, nil)
	if err != nil {
		c.logger.Warn("failed to check ticket", "ticket_id", ticketID, "error", err)
		return false, nil
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var ticket Ticket
		if err := json.NewDecoder(resp.Body).Decode(&ticket); err != nil {
			c.logger.Warn("failed to parse ticket response", "ticket_id", ticketID, "error", err)
			return false, nil
		}
		c.logger.Info("ticket found", "ticket_id", ticketID)
		return true, ticket
	case http.StatusNotFound:
		return false, nil
	default:
		c.logger.Warn("unexpected status checking ticket",
			"ticket_id", ticketID, "status", resp.StatusCode)
		return false, nil
	}
}

func (c *client) UpdateTicket(ctx context.Context, ticketID string, decision expense.ApprovalDecision, ticket Ticket) error {
	if ticketID == "" || ticket == nil {
		return ErrMissingTicket
	}

	status := "REJECTED"
	if decision.Approve {
		status = "APPROVED"
	}

	payload := maps.Clone(ticket)
	payload["ticketStatus"] = status
	payload["comment"] = decision.Comment

	resp, err := c.request(ctx, http.MethodPut, "/travelTicket", nil, payload)
	if err != nil {
		return fmt.Errorf("%w: ticket %s: %w", ErrUpdateFailed, ticketID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: ticket %s: unexpected HTTP %d: %s",
			ErrUpdateFailed, ticketID, resp.StatusCode, bytes.TrimSpace(body))
	}

	c.logger.Info("ticket updated", "ticket_id", ticketID, "status", status)
	return nil
}

func (c *client) request(ctx context.Context, method, path string, query url.Values, payload any) (*http.Response, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("serialize payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	return c.http.Do(req)
}

// toFloat accepts the numeric encodings backends actually emit: JSON
// numbers and numeric strings.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
