// Package client provides a Go client for the dispatch tracking API.
//
// It maintains the session cookie issued at login in an in-memory cookie
// jar, so a single Client behaves like one browser session:
//
//	c, err := client.New("http://localhost:8080")
//	if err := c.Login(ctx, "user@example.com", "password123"); err != nil { ... }
//
//	task, err := c.CreateTask(ctx, client.CreateTaskInput{
//	    UniqueID:    "SO-1",
//	    SoID:        "SO-1",
//	    ClientCode:  "C1",
//	    ProductCode: "P1",
//	    BatchSize:   1,
//	    Quantity:    10,
//	    DueDate:     "2025-01-01",
//	})
//
// Query state for list views (search text, status filter, page, sort) is
// carried in ListOptions; required-field checks run before any request is
// sent, mirroring the server-side validation.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client is an HTTP client for the dispatch tracking API.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom underlying HTTP client. A cookie jar is
// attached to it if it has none.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// WithLogger sets the logger used for request warnings.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for the API at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpc == nil {
		c.httpc = &http.Client{Timeout: 30 * time.Second}
	}
	if c.httpc.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("client: cookie jar: %w", err)
		}
		c.httpc.Jar = jar
	}
	return c, nil
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

// User is the public identity of a user.
type User struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Task is a dispatch task record as returned by the API.
type Task struct {
	ID             uint       `json:"id"`
	DispatchUnique string     `json:"dispatchUnique"`
	UniqueID       string     `json:"uniqueId"`
	SoID           string     `json:"soId"`
	ClientCode     string     `json:"clientCode"`
	ProductCode    string     `json:"productCode"`
	ProductName    string     `json:"productName"`
	BatchNumber    string     `json:"batchNumber"`
	BatchSize      int        `json:"batchSize"`
	Quantity       int        `json:"quantity"`
	Status         string     `json:"status"`
	DueDate        time.Time  `json:"dueDate"`
	DispatchDate   *time.Time `json:"dispatchDate"`
	AssignedTo     string     `json:"assignedTo"`
	CreatedBy      string     `json:"createdBy"`
	OrderType      string     `json:"orderType"`
	Dispatched     bool       `json:"dispatched"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Pagination describes the position of a list page.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalTasks  int64 `json:"totalTasks"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

// TaskList is one page of tasks with its pagination info.
type TaskList struct {
	Tasks      []Task     `json:"tasks"`
	Pagination Pagination `json:"pagination"`
}

// ListOptions holds the list view state: search text, status filter,
// page, and sort. Zero values fall back to the server defaults
// (page 1, limit 10, status "all", createdAt descending).
type ListOptions struct {
	Search    string
	Status    string
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// CreateTaskInput holds the form fields for a new task. Dates are strings
// in YYYY-MM-DD or RFC3339 form, as entered in a form.
type CreateTaskInput struct {
	UniqueID    string `json:"uniqueId"`
	SoID        string `json:"soId"`
	ClientCode  string `json:"clientCode"`
	ProductCode string `json:"productCode"`
	ProductName string `json:"productName,omitempty"`
	BatchNumber string `json:"batchNumber,omitempty"`
	BatchSize   int    `json:"batchSize"`
	Quantity    int    `json:"quantity"`
	DueDate     string `json:"dueDate"`
	AssignedTo  string `json:"assignedTo,omitempty"`
	OrderType   string `json:"orderType,omitempty"`
}

// UpdateTaskInput holds a partial update. Nil fields are omitted from the
// request and left untouched by the server.
type UpdateTaskInput struct {
	UniqueID     *string `json:"uniqueId,omitempty"`
	SoID         *string `json:"soId,omitempty"`
	ClientCode   *string `json:"clientCode,omitempty"`
	ProductCode  *string `json:"productCode,omitempty"`
	ProductName  *string `json:"productName,omitempty"`
	BatchNumber  *string `json:"batchNumber,omitempty"`
	BatchSize    *int    `json:"batchSize,omitempty"`
	Quantity     *int    `json:"quantity,omitempty"`
	Status       *string `json:"status,omitempty"`
	DueDate      *string `json:"dueDate,omitempty"`
	DispatchDate *string `json:"dispatchDate,omitempty"`
	AssignedTo   *string `json:"assignedTo,omitempty"`
	OrderType    *string `json:"orderType,omitempty"`
	Dispatched   *bool   `json:"dispatched,omitempty"`
}

// validateCreate mirrors the form's required-field checks. It does not
// replace server-side validation.
func validateCreate(in CreateTaskInput) error {
	missing := make([]string, 0, 4)
	if in.UniqueID == "" {
		missing = append(missing, "uniqueId")
	}
	if in.ClientCode == "" {
		missing = append(missing, "clientCode")
	}
	if in.ProductCode == "" {
		missing = append(missing, "productCode")
	}
	if in.DueDate == "" {
		missing = append(missing, "dueDate")
	}
	if len(missing) > 0 {
		return fmt.Errorf("client: missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// do sends a JSON request and decodes the response body into out (if non-nil).
// Non-2xx responses are returned as *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var envelope struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&envelope); decodeErr == nil && envelope.Error != "" {
			apiErr.Message = envelope.Error
		}
		c.logger.Warn("request failed", "method", method, "path", path, "status", resp.StatusCode)
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("client: decode response: %w", err)
		}
	}
	return nil
}

// Signup registers a new user.
func (c *Client) Signup(ctx context.Context, email, password string) (*User, error) {
	var res struct {
		User User `json:"user"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/user/signup", body, &res); err != nil {
		return nil, err
	}
	return &res.User, nil
}

// Login authenticates and stores the session cookie for subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var res struct {
		User User `json:"user"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/user/login", body, &res); err != nil {
		return nil, err
	}
	return &res.User, nil
}

// Logout clears the session on the server. Idempotent.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/user/logout", nil, nil)
}

// Me returns the authenticated user's public identity.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var res struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/user/me", nil, &res); err != nil {
		return nil, err
	}
	return &res.User, nil
}

// CreateTask validates the required form fields and creates the task.
func (c *Client) CreateTask(ctx context.Context, in CreateTaskInput) (*Task, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}
	var res struct {
		Task Task `json:"task"`
	}
	if err := c.do(ctx, http.MethodPost, "/tasks", in, &res); err != nil {
		return nil, err
	}
	return &res.Task, nil
}

// ListTasks fetches one page of tasks for the current list view state.
func (c *Client) ListTasks(ctx context.Context, opts ListOptions) (*TaskList, error) {
	params := url.Values{}
	if opts.Search != "" {
		params.Set("search", opts.Search)
	}
	if opts.Status != "" {
		params.Set("status", opts.Status)
	}
	if opts.Page > 0 {
		params.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.SortBy != "" {
		params.Set("sortBy", opts.SortBy)
	}
	if opts.SortOrder != "" {
		params.Set("sortOrder", opts.SortOrder)
	}

	path := "/tasks"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var res TaskList
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// GetTask fetches a single task by ID.
func (c *Client) GetTask(ctx context.Context, id uint) (*Task, error) {
	var res struct {
		Task Task `json:"task"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/tasks/%d", id), nil, &res); err != nil {
		return nil, err
	}
	return &res.Task, nil
}

// UpdateTask applies a partial update and returns the updated task.
func (c *Client) UpdateTask(ctx context.Context, id uint, in UpdateTaskInput) (*Task, error) {
	var res struct {
		Task Task `json:"task"`
	}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/tasks/%d", id), in, &res); err != nil {
		return nil, err
	}
	return &res.Task, nil
}

// DeleteTask permanently deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d", id), nil, nil)
}
