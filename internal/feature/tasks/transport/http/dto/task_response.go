package dto

import (
	"time"

	"dispatch_backend/internal/feature/tasks/domain/entity"
	"dispatch_backend/internal/feature/tasks/usecase"
)

// TaskItem はタスク1件のレスポンス表現です。
type TaskItem struct {
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

// NewTaskItem はタスクエンティティをレスポンス表現に変換します。
func NewTaskItem(t *entity.Task) TaskItem {
	return TaskItem{
		ID:             t.ID,
		DispatchUnique: t.DispatchUnique,
		UniqueID:       t.UniqueID,
		SoID:           t.SoID,
		ClientCode:     t.ClientCode,
		ProductCode:    t.ProductCode,
		ProductName:    t.ProductName,
		BatchNumber:    t.BatchNumber,
		BatchSize:      t.BatchSize,
		Quantity:       t.Quantity,
		Status:         string(t.Status),
		DueDate:        t.DueDate,
		DispatchDate:   t.DispatchDate,
		AssignedTo:     t.AssignedTo,
		CreatedBy:      t.CreatedBy,
		OrderType:      string(t.OrderType),
		Dispatched:     t.Dispatched,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

// TaskRes はタスク1件を返すエンドポイントのレスポンスボディです。
type TaskRes struct {
	Task TaskItem `json:"task"`
}

// ListTasksRes はGET /tasksのレスポンスボディです。
type ListTasksRes struct {
	Tasks      []TaskItem         `json:"tasks"`
	Pagination usecase.Pagination `json:"pagination"`
}

// NewListTasksRes はタスク一覧とページング情報をレスポンス表現に変換します。
func NewListTasksRes(tasks []entity.Task, p usecase.Pagination) ListTasksRes {
	items := make([]TaskItem, 0, len(tasks))
	for i := range tasks {
		items = append(items, NewTaskItem(&tasks[i]))
	}
	return ListTasksRes{Tasks: items, Pagination: p}
}
