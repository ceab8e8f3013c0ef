// Package kanboard implements the service.TaskSource interface using
// the Kanboard JSON-RPC 2.0 API.
package kanboard

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"kbreport/internal/config"
	"kbreport/internal/errkind"
	"kbreport/internal/service"
)

const (
	// APITimeout is the timeout for each RPC call. A single attempt
	// per call; no retries.
	APITimeout = 30 * time.Second

	// UnknownStatus is the status label assigned when no column can
	// be resolved for a task.
	UnknownStatus = "Unknown"

	step = "fetch"
)

// Client implements service.TaskSource against a Kanboard endpoint.
type Client struct {
	endpoint string
	user     string
	token    string
	http     *http.Client
	log      *slog.Logger
	nextID   atomic.Int64
}

// New creates a Kanboard client from the connection settings.
func New(cfg config.KanboardConfig, logger *slog.Logger) *Client {
	return &Client{
		endpoint: cfg.URL,
		user:     cfg.User,
		token:    cfg.Token,
		http:     &http.Client{},
		log:      logger,
	}
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(cfg config.KanboardConfig, logger *slog.Logger, httpClient *http.Client) *Client {
	c := New(cfg, logger)
	c.http = httpClient
	return c
}

// ListTasks returns all tasks for the project in API order.
// Tasks whose record carries no column name get one getTask call each
// to resolve the column title; the column title becomes the status label.
func (c *Client) ListTasks(ctx context.Context, projectID int) ([]service.Task, error) {
	var records []taskRecord
	if err := c.call(ctx, "getAllTasks", map[string]any{"project_id": projectID}, &records); err != nil {
		return nil, err
	}

	tasks := make([]service.Task, 0, len(records))
	for _, rec := range records {
		status := rec.ColumnName
		if status == "" {
			resolved, err := c.columnTitle(ctx, int(rec.ID))
			if err != nil {
				return nil, err
			}
			status = resolved
		}
		if status == "" {
			status = UnknownStatus
		}
		tasks = append(tasks, service.Task{
			ID:          int(rec.ID),
			Title:       rec.Title,
			Status:      status,
			Description: rec.Description,
			DueDate:     int64(rec.DateDue),
		})
	}

	c.log.Debug("fetched tasks", "project_id", projectID, "count", len(tasks))
	return tasks, nil
}

// columnTitle resolves the column title for one task via getTask.
func (c *Client) columnTitle(ctx context.Context, taskID int) (string, error) {
	var rec struct {
		ColumnTitle string `json:"column_title"`
	}
	if err := c.call(ctx, "getTask", map[string]any{"task_id": taskID}, &rec); err != nil {
		return "", err
	}
	return rec.ColumnTitle, nil
}

// rpcRequest is the JSON-RPC 2.0 request envelope.
type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	ID      int64  `json:"id"`
	Params  any    `json:"params,omitempty"`
}

// rpcResponse is the JSON-RPC 2.0 response envelope.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// call issues one JSON-RPC request and decodes the result into out.
func (c *Client) call(ctx context.Context, method string, params any, out any) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		ID:      c.nextID.Add(1),
		Params:  params,
	})
	if err != nil {
		return errkind.Newf(step, errkind.MalformedResponse, "encode %s request: %v", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return errkind.Newf(step, errkind.RemoteUnavailable, "build %s request: %v", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.user, c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return errkind.Newf(step, errkind.RemoteUnavailable, "%s: %v", method, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return errkind.Newf(step, errkind.Auth, "%s: endpoint rejected token (HTTP %d)", method, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return errkind.Newf(step, errkind.RemoteUnavailable, "%s: HTTP %d", method, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errkind.Newf(step, errkind.RemoteUnavailable, "%s: read response: %v", method, err)
	}

	var envelope rpcResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return errkind.Newf(step, errkind.MalformedResponse, "%s: decode response: %v", method, err)
	}
	if envelope.Error != nil {
		return rpcErrorToKind(method, envelope.Error)
	}
	if envelope.Result == nil {
		return errkind.Newf(step, errkind.MalformedResponse, "%s: response has no result", method)
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return errkind.Newf(step, errkind.MalformedResponse, "%s: decode result: %v", method, err)
	}
	return nil
}

// Kanboard JSON-RPC error codes for rejected credentials.
const (
	rpcCodeAuthFailed      = 401
	rpcCodeAccessForbidden = 403
)

func rpcErrorToKind(method string, e *rpcError) error {
	if e.Code == rpcCodeAuthFailed || e.Code == rpcCodeAccessForbidden {
		return errkind.Newf(step, errkind.Auth, "%s: %s (code %d)", method, e.Message, e.Code)
	}
	return errkind.Newf(step, errkind.MalformedResponse, "%s: rpc error: %s (code %d)", method, e.Message, e.Code)
}
