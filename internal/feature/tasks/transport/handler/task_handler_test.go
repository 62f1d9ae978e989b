package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch_backend/internal/feature/tasks/domain/entity"
	"dispatch_backend/internal/feature/tasks/usecase"
	jwtmw "dispatch_backend/internal/platform/jwt"
)

// mockTaskUsecase is a mock implementation of the TaskUsecase interface.
type mockTaskUsecase struct {
	CreateTaskFunc func(ctx context.Context, userID uint, userEmail string, in usecase.CreateTaskInput) (*entity.Task, error)
	ListTasksFunc  func(ctx context.Context, userID uint, q usecase.ListQuery) ([]entity.Task, usecase.Pagination, error)
	GetTaskFunc    func(ctx context.Context, userID, id uint) (*entity.Task, error)
	UpdateTaskFunc func(ctx context.Context, userID, id uint, in usecase.UpdateTaskInput) (*entity.Task, error)
	DeleteTaskFunc func(ctx context.Context, userID, id uint) error
}

func (m *mockTaskUsecase) CreateTask(ctx context.Context, userID uint, userEmail string, in usecase.CreateTaskInput) (*entity.Task, error) {
	if m.CreateTaskFunc != nil {
		return m.CreateTaskFunc(ctx, userID, userEmail, in)
	}
	return &entity.Task{ID: 1}, nil
}

func (m *mockTaskUsecase) ListTasks(ctx context.Context, userID uint, q usecase.ListQuery) ([]entity.Task, usecase.Pagination, error) {
	if m.ListTasksFunc != nil {
		return m.ListTasksFunc(ctx, userID, q)
	}
	return nil, usecase.Pagination{}, nil
}

func (m *mockTaskUsecase) GetTask(ctx context.Context, userID, id uint) (*entity.Task, error) {
	if m.GetTaskFunc != nil {
		return m.GetTaskFunc(ctx, userID, id)
	}
	return nil, usecase.ErrTaskNotFound
}

func (m *mockTaskUsecase) UpdateTask(ctx context.Context, userID, id uint, in usecase.UpdateTaskInput) (*entity.Task, error) {
	if m.UpdateTaskFunc != nil {
		return m.UpdateTaskFunc(ctx, userID, id, in)
	}
	return nil, usecase.ErrTaskNotFound
}

func (m *mockTaskUsecase) DeleteTask(ctx context.Context, userID, id uint) error {
	if m.DeleteTaskFunc != nil {
		return m.DeleteTaskFunc(ctx, userID, id)
	}
	return usecase.ErrTaskNotFound
}

// newTestRouter wires the handler behind a stub authentication middleware.
func newTestRouter(uc TaskUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	auth := func(c *gin.Context) {
		c.Set(jwtmw.ContextUserID, uint(10))
		c.Set(jwtmw.ContextUserEmail, "user@example.com")
	}
	tasks := r.Group("/tasks", auth)
	h := NewTaskHandler(uc)
	tasks.POST("", h.Create)
	tasks.GET("", h.List)
	tasks.GET("/:id", h.Get)
	tasks.PUT("/:id", h.Update)
	tasks.DELETE("/:id", h.Delete)
	return r
}

func validCreateBody() gin.H {
	return gin.H{
		"uniqueId":    "SO-1",
		"soId":        "SO-1",
		"clientCode":  "C1",
		"productCode": "P1",
		"batchSize":   5,
		"quantity":    100,
		"dueDate":     "2025-01-01",
	}
}

func TestTaskHandler_Create(t *testing.T) {
	t.Run("success: returns 201 with the created task", func(t *testing.T) {
		uc := &mockTaskUsecase{
			CreateTaskFunc: func(ctx context.Context, userID uint, userEmail string, in usecase.CreateTaskInput) (*entity.Task, error) {
				assert.Equal(t, uint(10), userID)
				assert.Equal(t, "user@example.com", userEmail)
				assert.Equal(t, "SO-1", in.UniqueID)
				assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), in.DueDate)
				return &entity.Task{
					ID:             1,
					DispatchUnique: "DISP-1700000000000-abcdefghi",
					UniqueID:       in.UniqueID,
					Status:         entity.StatusPending,
					UserID:         userID,
				}, nil
			},
		}
		router := newTestRouter(uc)

		body, _ := json.Marshal(validCreateBody())
		req, _ := http.NewRequest(http.MethodPost, "/tasks", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var res struct {
			Task struct {
				DispatchUnique string `json:"dispatchUnique"`
				Status         string `json:"status"`
			} `json:"task"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, "DISP-1700000000000-abcdefghi", res.Task.DispatchUnique)
		assert.Equal(t, "PENDING", res.Task.Status)
	})

	t.Run("failure: missing required field returns 422 naming the field", func(t *testing.T) {
		router := newTestRouter(&mockTaskUsecase{
			CreateTaskFunc: func(ctx context.Context, userID uint, userEmail string, in usecase.CreateTaskInput) (*entity.Task, error) {
				t.Fatal("usecase must not be called for an invalid request")
				return nil, nil
			},
		})

		body := validCreateBody()
		delete(body, "clientCode")
		b, _ := json.Marshal(body)
		req, _ := http.NewRequest(http.MethodPost, "/tasks", bytes.NewBuffer(b))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "ClientCode")
	})

	t.Run("failure: invalid due date returns 422", func(t *testing.T) {
		router := newTestRouter(&mockTaskUsecase{})

		body := validCreateBody()
		body["dueDate"] = "not-a-date"
		b, _ := json.Marshal(body)
		req, _ := http.NewRequest(http.MethodPost, "/tasks", bytes.NewBuffer(b))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "dueDate")
	})

	t.Run("failure: invalid order type returns 422", func(t *testing.T) {
		router := newTestRouter(&mockTaskUsecase{})

		body := validCreateBody()
		body["orderType"] = "BANANA"
		b, _ := json.Marshal(body)
		req, _ := http.NewRequest(http.MethodPost, "/tasks", bytes.NewBuffer(b))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestTaskHandler_List(t *testing.T) {
	t.Run("query parameters are forwarded", func(t *testing.T) {
		var got usecase.ListQuery
		uc := &mockTaskUsecase{
			ListTasksFunc: func(ctx context.Context, userID uint, q usecase.ListQuery) ([]entity.Task, usecase.Pagination, error) {
				got = q
				return []entity.Task{{ID: 1}}, usecase.Pagination{CurrentPage: 2, TotalPages: 3, TotalTasks: 25, HasNext: true, HasPrev: true}, nil
			},
		}
		router := newTestRouter(uc)

		req, _ := http.NewRequest(http.MethodGet, "/tasks?page=2&limit=10&search=c100&status=PENDING&sortBy=dueDate&sortOrder=asc", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, usecase.ListQuery{
			Search: "c100", Status: "PENDING", Page: 2, Limit: 10, SortBy: "dueDate", SortOrder: "asc",
		}, got)

		var res struct {
			Tasks      []json.RawMessage  `json:"tasks"`
			Pagination usecase.Pagination `json:"pagination"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Len(t, res.Tasks, 1)
		assert.True(t, res.Pagination.HasNext)
		assert.True(t, res.Pagination.HasPrev)
	})

	t.Run("defaults are applied when parameters are absent", func(t *testing.T) {
		var got usecase.ListQuery
		uc := &mockTaskUsecase{
			ListTasksFunc: func(ctx context.Context, userID uint, q usecase.ListQuery) ([]entity.Task, usecase.Pagination, error) {
				got = q
				return nil, usecase.Pagination{}, nil
			},
		}
		router := newTestRouter(uc)

		req, _ := http.NewRequest(http.MethodGet, "/tasks", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, got.Page)
		assert.Equal(t, 10, got.Limit)
		assert.Equal(t, "all", got.Status)
		assert.Equal(t, "createdAt", got.SortBy)
		assert.Equal(t, "desc", got.SortOrder)
	})

	t.Run("empty result serializes as an empty array", func(t *testing.T) {
		router := newTestRouter(&mockTaskUsecase{})

		req, _ := http.NewRequest(http.MethodGet, "/tasks", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"tasks":[]`)
	})
}

func TestTaskHandler_Get(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		uc := &mockTaskUsecase{
			GetTaskFunc: func(ctx context.Context, userID, id uint) (*entity.Task, error) {
				assert.Equal(t, uint(10), userID)
				assert.Equal(t, uint(3), id)
				return &entity.Task{ID: id, DispatchUnique: "DISP-1-aaaaaaaaa"}, nil
			},
		}
		router := newTestRouter(uc)

		req, _ := http.NewRequest(http.MethodGet, "/tasks/3", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		router := newTestRouter(&mockTaskUsecase{})

		req, _ := http.NewRequest(http.MethodGet, "/tasks/3", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "task not found")
	})

	t.Run("non-numeric id is treated as not found", func(t *testing.T) {
		router := newTestRouter(&mockTaskUsecase{
			GetTaskFunc: func(ctx context.Context, userID, id uint) (*entity.Task, error) {
				t.Fatal("usecase must not be called for an invalid id")
				return nil, nil
			},
		})

		req, _ := http.NewRequest(http.MethodGet, "/tasks/abc", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTaskHandler_Update(t *testing.T) {
	t.Run("only fields present in the body are forwarded", func(t *testing.T) {
		var got usecase.UpdateTaskInput
		uc := &mockTaskUsecase{
			UpdateTaskFunc: func(ctx context.Context, userID, id uint, in usecase.UpdateTaskInput) (*entity.Task, error) {
				got = in
				return &entity.Task{ID: id, Status: entity.StatusCompleted}, nil
			},
		}
		router := newTestRouter(uc)

		body, _ := json.Marshal(gin.H{"status": "COMPLETED"})
		req, _ := http.NewRequest(http.MethodPut, "/tasks/3", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, got.Status)
		assert.Equal(t, entity.StatusCompleted, *got.Status)
		// Absent fields stay nil
		assert.Nil(t, got.UniqueID)
		assert.Nil(t, got.Quantity)
		assert.Nil(t, got.DueDate)
		assert.False(t, got.SetDispatchDate)
	})

	t.Run("empty dispatch date clears the value", func(t *testing.T) {
		var got usecase.UpdateTaskInput
		uc := &mockTaskUsecase{
			UpdateTaskFunc: func(ctx context.Context, userID, id uint, in usecase.UpdateTaskInput) (*entity.Task, error) {
				got = in
				return &entity.Task{ID: id}, nil
			},
		}
		router := newTestRouter(uc)

		body, _ := json.Marshal(gin.H{"dispatchDate": ""})
		req, _ := http.NewRequest(http.MethodPut, "/tasks/3", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, got.SetDispatchDate)
		assert.Nil(t, got.DispatchDate)
	})

	t.Run("invalid status value returns 422", func(t *testing.T) {
		router := newTestRouter(&mockTaskUsecase{})

		body, _ := json.Marshal(gin.H{"status": "SHIPPED"})
		req, _ := http.NewRequest(http.MethodPut, "/tasks/3", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		router := newTestRouter(&mockTaskUsecase{})

		body, _ := json.Marshal(gin.H{"status": "COMPLETED"})
		req, _ := http.NewRequest(http.MethodPut, "/tasks/3", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTaskHandler_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		uc := &mockTaskUsecase{
			DeleteTaskFunc: func(ctx context.Context, userID, id uint) error {
				assert.Equal(t, uint(10), userID)
				assert.Equal(t, uint(3), id)
				return nil
			},
		}
		router := newTestRouter(uc)

		req, _ := http.NewRequest(http.MethodDelete, "/tasks/3", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		router := newTestRouter(&mockTaskUsecase{})

		req, _ := http.NewRequest(http.MethodDelete, "/tasks/3", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
