// Package dto はtasksフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import (
	"fmt"
	"time"

	"dispatch_backend/internal/feature/tasks/domain/entity"
	"dispatch_backend/internal/feature/tasks/usecase"
)

// dateLayouts は日付フィールドとして受け付けるフォーマットです。
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// parseDate は日付文字列をパースします。
// RFC3339と日付のみ（YYYY-MM-DD）の両方を受け付けます。
func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date: %q", s)
}

// CreateTaskReq はPOST /tasksのリクエストボディを表します。
// 必須フィールドの欠落はバインディングエラーとしてフィールド名付きで報告されます。
type CreateTaskReq struct {
	UniqueID    string `json:"uniqueId" binding:"required"`
	SoID        string `json:"soId" binding:"required"`
	ClientCode  string `json:"clientCode" binding:"required"`
	ProductCode string `json:"productCode" binding:"required"`
	ProductName string `json:"productName"`
	BatchNumber string `json:"batchNumber"`
	BatchSize   int    `json:"batchSize" binding:"required,min=1"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
	DueDate     string `json:"dueDate" binding:"required"`
	AssignedTo  string `json:"assignedTo"`
	OrderType   string `json:"orderType" binding:"omitempty,oneof=POWER_CORD COMPRESSOR WIRE OTHER"`
}

// ToInput はリクエストをusecaseの入力に変換します。
// 日付が不正な場合はエラーを返します。
func (r *CreateTaskReq) ToInput() (usecase.CreateTaskInput, error) {
	dueDate, err := parseDate(r.DueDate)
	if err != nil {
		return usecase.CreateTaskInput{}, fmt.Errorf("dueDate: %w", err)
	}
	return usecase.CreateTaskInput{
		UniqueID:    r.UniqueID,
		SoID:        r.SoID,
		ClientCode:  r.ClientCode,
		ProductCode: r.ProductCode,
		ProductName: r.ProductName,
		BatchNumber: r.BatchNumber,
		BatchSize:   r.BatchSize,
		Quantity:    r.Quantity,
		DueDate:     dueDate,
		AssignedTo:  r.AssignedTo,
		OrderType:   entity.OrderType(r.OrderType),
	}, nil
}

// UpdateTaskReq はPUT /tasks/:idのリクエストボディを表します。
// nilのフィールドは「変更しない」を意味します。DispatchDateは空文字列で
// クリア（NULL設定）を表します。
type UpdateTaskReq struct {
	UniqueID     *string `json:"uniqueId"`
	SoID         *string `json:"soId"`
	ClientCode   *string `json:"clientCode"`
	ProductCode  *string `json:"productCode"`
	ProductName  *string `json:"productName"`
	BatchNumber  *string `json:"batchNumber"`
	BatchSize    *int    `json:"batchSize" binding:"omitempty,min=1"`
	Quantity     *int    `json:"quantity" binding:"omitempty,min=1"`
	Status       *string `json:"status" binding:"omitempty,oneof=PENDING DISPATCH STORE_1 STORE_2 COMPLETED CANCELLED"`
	DueDate      *string `json:"dueDate"`
	DispatchDate *string `json:"dispatchDate"`
	AssignedTo   *string `json:"assignedTo"`
	OrderType    *string `json:"orderType" binding:"omitempty,oneof=POWER_CORD COMPRESSOR WIRE OTHER"`
	Dispatched   *bool   `json:"dispatched"`
}

// ToInput はリクエストをusecaseの部分更新入力に変換します。
// 日付が不正な場合はエラーを返します。
func (r *UpdateTaskReq) ToInput() (usecase.UpdateTaskInput, error) {
	in := usecase.UpdateTaskInput{
		UniqueID:    r.UniqueID,
		SoID:        r.SoID,
		ClientCode:  r.ClientCode,
		ProductCode: r.ProductCode,
		ProductName: r.ProductName,
		BatchNumber: r.BatchNumber,
		BatchSize:   r.BatchSize,
		Quantity:    r.Quantity,
		AssignedTo:  r.AssignedTo,
		Dispatched:  r.Dispatched,
	}
	if r.Status != nil {
		status := entity.Status(*r.Status)
		in.Status = &status
	}
	if r.OrderType != nil {
		orderType := entity.OrderType(*r.OrderType)
		in.OrderType = &orderType
	}
	if r.DueDate != nil {
		dueDate, err := parseDate(*r.DueDate)
		if err != nil {
			return usecase.UpdateTaskInput{}, fmt.Errorf("dueDate: %w", err)
		}
		in.DueDate = &dueDate
	}
	if r.DispatchDate != nil {
		in.SetDispatchDate = true
		if *r.DispatchDate != "" {
			dispatchDate, err := parseDate(*r.DispatchDate)
			if err != nil {
				return usecase.UpdateTaskInput{}, fmt.Errorf("dispatchDate: %w", err)
			}
			in.DispatchDate = &dispatchDate
		}
	}
	return in, nil
}
