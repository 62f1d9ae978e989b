// Package handler はtasksフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dispatch_backend/internal/api"
	"dispatch_backend/internal/feature/tasks/domain/entity"
	"dispatch_backend/internal/feature/tasks/transport/http/dto"
	"dispatch_backend/internal/feature/tasks/usecase"
	jwtmw "dispatch_backend/internal/platform/jwt"
)

// TaskUsecase はディスパッチタスク操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type TaskUsecase interface {
	CreateTask(ctx context.Context, userID uint, userEmail string, in usecase.CreateTaskInput) (*entity.Task, error)
	ListTasks(ctx context.Context, userID uint, q usecase.ListQuery) ([]entity.Task, usecase.Pagination, error)
	GetTask(ctx context.Context, userID, id uint) (*entity.Task, error)
	UpdateTask(ctx context.Context, userID, id uint, in usecase.UpdateTaskInput) (*entity.Task, error)
	DeleteTask(ctx context.Context, userID, id uint) error
}

// TaskHandler はディスパッチタスクのHTTPリクエストを処理します。
// すべての操作は認証ミドルウェアが設定したユーザーにスコープされます。
type TaskHandler struct {
	tasks TaskUsecase
}

// NewTaskHandler はTaskHandlerの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタで、外部からTaskUsecaseを注入します。
func NewTaskHandler(tasks TaskUsecase) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// taskID はパスパラメータからタスクIDをパースします。
// 不正なIDは存在しないIDとして扱います。
func taskID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// Create はタスク作成APIエンドポイントを処理します。
// - リクエストJSONをCreateTaskReqにバインド
// - 必須フィールド欠落時はフィールド名付きで422を返却
// - 成功時は201で作成されたタスクを返却
func (h *TaskHandler) Create(c *gin.Context) {
	userID := c.GetUint(jwtmw.ContextUserID)
	userEmail := c.GetString(jwtmw.ContextUserEmail)

	var req dto.CreateTaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("create task validation failed", "error", err, "user_id", userID)
		c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Error: err.Error()})
		return
	}
	in, err := req.ToInput()
	if err != nil {
		slog.Warn("create task validation failed", "error", err, "user_id", userID)
		c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Error: err.Error()})
		return
	}

	task, err := h.tasks.CreateTask(c.Request.Context(), userID, userEmail, in)
	if err != nil {
		slog.Error("create task failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}
	slog.Info("task created", "dispatch_unique", task.DispatchUnique, "user_id", userID)
	c.JSON(http.StatusCreated, dto.TaskRes{Task: dto.NewTaskItem(task)})
}

// List はタスク一覧APIエンドポイントを処理します。
// クエリパラメータ: page, limit, search, status, sortBy, sortOrder。
// 成功時は200でタスク一覧とページング情報を返却します。
func (h *TaskHandler) List(c *gin.Context) {
	userID := c.GetUint(jwtmw.ContextUserID)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	q := usecase.ListQuery{
		Search:    c.Query("search"),
		Status:    c.DefaultQuery("status", "all"),
		Page:      page,
		Limit:     limit,
		SortBy:    c.DefaultQuery("sortBy", "createdAt"),
		SortOrder: c.DefaultQuery("sortOrder", "desc"),
	}

	tasks, pagination, err := h.tasks.ListTasks(c.Request.Context(), userID, q)
	if err != nil {
		slog.Error("list tasks failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(http.StatusOK, dto.NewListTasksRes(tasks, pagination))
}

// Get はタスク1件取得APIエンドポイントを処理します。
// 所有者が異なる場合も404を返します（存在の秘匿）。
func (h *TaskHandler) Get(c *gin.Context) {
	userID := c.GetUint(jwtmw.ContextUserID)
	id, ok := taskID(c)
	if !ok {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "task not found"})
		return
	}

	task, err := h.tasks.GetTask(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, usecase.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "task not found"})
			return
		}
		slog.Error("get task failed", "error", err, "task_id", id, "user_id", userID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(http.StatusOK, dto.TaskRes{Task: dto.NewTaskItem(task)})
}

// Update はタスク部分更新APIエンドポイントを処理します。
// - リクエストに含まれないフィールドは変更されない
// - 不正な値は422を返却
// - 対象が存在しない（または所有者が異なる）場合は404を返却
func (h *TaskHandler) Update(c *gin.Context) {
	userID := c.GetUint(jwtmw.ContextUserID)
	id, ok := taskID(c)
	if !ok {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "task not found"})
		return
	}

	var req dto.UpdateTaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("update task validation failed", "error", err, "task_id", id, "user_id", userID)
		c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Error: err.Error()})
		return
	}
	in, err := req.ToInput()
	if err != nil {
		slog.Warn("update task validation failed", "error", err, "task_id", id, "user_id", userID)
		c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Error: err.Error()})
		return
	}

	task, err := h.tasks.UpdateTask(c.Request.Context(), userID, id, in)
	if err != nil {
		if errors.Is(err, usecase.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "task not found"})
			return
		}
		slog.Error("update task failed", "error", err, "task_id", id, "user_id", userID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(http.StatusOK, dto.TaskRes{Task: dto.NewTaskItem(task)})
}

// Delete はタスク削除APIエンドポイントを処理します。削除は完全削除です。
// 対象が存在しない（または所有者が異なる）場合は404を返却します。
func (h *TaskHandler) Delete(c *gin.Context) {
	userID := c.GetUint(jwtmw.ContextUserID)
	id, ok := taskID(c)
	if !ok {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "task not found"})
		return
	}

	if err := h.tasks.DeleteTask(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, usecase.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "task not found"})
			return
		}
		slog.Error("delete task failed", "error", err, "task_id", id, "user_id", userID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}
	slog.Info("task deleted", "task_id", id, "user_id", userID)
	c.JSON(http.StatusOK, api.MessageResponse{Message: "task deleted"})
}
