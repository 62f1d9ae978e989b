package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() CreateTaskInput {
	return CreateTaskInput{
		UniqueID:    "SO-1",
		SoID:        "SO-1",
		ClientCode:  "C1",
		ProductCode: "P1",
		BatchSize:   1,
		Quantity:    10,
		DueDate:     "2025-01-01",
	}
}

func TestClient_CreateTask_ValidationShortCircuits(t *testing.T) {
	// The server must not be reached when required form fields are missing.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request must be sent for invalid input")
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	in := validInput()
	in.ClientCode = ""
	in.DueDate = ""

	_, err = c.CreateTask(context.Background(), in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clientCode")
	assert.Contains(t, err.Error(), "dueDate")
}

func TestClient_CreateTask(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/tasks", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "SO-1", body["uniqueId"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"task":{"id":1,"dispatchUnique":"DISP-1-aaaaaaaaa","status":"PENDING"}}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	task, err := c.CreateTask(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, uint(1), task.ID)
	assert.Equal(t, "DISP-1-aaaaaaaaa", task.DispatchUnique)
	assert.Equal(t, "PENDING", task.Status)
}

func TestClient_SessionCookiePersistsAcrossCalls(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /user/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "jwt", Value: "session-token", Path: "/", HttpOnly: true})
		_, _ = w.Write([]byte(`{"user":{"id":1,"email":"user@example.com"}}`))
	})
	mux.HandleFunc("GET /user/me", func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("jwt")
		if err != nil || cookie.Value != "session-token" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
			return
		}
		_, _ = w.Write([]byte(`{"user":{"id":1,"email":"user@example.com"}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	// Me before login fails
	_, err = c.Me(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	// After login the jar replays the cookie automatically
	user, err := c.Login(context.Background(), "user@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", user.Email)

	user, err = c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint(1), user.ID)
}

func TestClient_ListTasks_QueryEncoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "power cord", q.Get("search"))
		assert.Equal(t, "PENDING", q.Get("status"))
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "5", q.Get("limit"))
		assert.Equal(t, "dueDate", q.Get("sortBy"))
		assert.Equal(t, "asc", q.Get("sortOrder"))

		_, _ = w.Write([]byte(`{"tasks":[{"id":1}],"pagination":{"currentPage":2,"totalPages":3,"totalTasks":11,"hasNext":true,"hasPrev":true}}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	list, err := c.ListTasks(context.Background(), ListOptions{
		Search:    "power cord",
		Status:    "PENDING",
		Page:      2,
		Limit:     5,
		SortBy:    "dueDate",
		SortOrder: "asc",
	})
	require.NoError(t, err)
	assert.Len(t, list.Tasks, 1)
	assert.Equal(t, int64(11), list.Pagination.TotalTasks)
	assert.True(t, list.Pagination.HasNext)
}

func TestClient_ListTasks_ZeroOptionsSendNoParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"tasks":[],"pagination":{"currentPage":1,"totalPages":0,"totalTasks":0,"hasNext":false,"hasPrev":false}}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	list, err := c.ListTasks(context.Background(), ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, list.Tasks)
}

func TestClient_UpdateTask_OmitsNilFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/tasks/3", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]interface{}{"status": "DISPATCH"}, body)

		_, _ = w.Write([]byte(`{"task":{"id":3,"status":"DISPATCH","dispatched":true}}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	status := "DISPATCH"
	task, err := c.UpdateTask(context.Background(), 3, UpdateTaskInput{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "DISPATCH", task.Status)
	assert.True(t, task.Dispatched)
}

func TestClient_APIErrorDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"task not found"}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	_, err = c.GetTask(context.Background(), 99)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "task not found", apiErr.Message)
	assert.Contains(t, apiErr.Error(), "404")
}

func TestClient_DeleteTask(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/tasks/3", r.URL.Path)
		_, _ = w.Write([]byte(`{"message":"task deleted"}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)
	require.NoError(t, c.DeleteTask(context.Background(), 3))
}
