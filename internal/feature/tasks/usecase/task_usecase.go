// Package usecase はtasksフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"dispatch_backend/internal/feature/tasks/domain/entity"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100

	// dispatchSuffixLength はディスパッチIDのランダムサフィックスの文字数です。
	dispatchSuffixLength = 9
)

// ListQuery はタスク一覧の検索・フィルタ・ソート・ページング条件を表します。
type ListQuery struct {
	// Search は部分一致検索文字列です（大文字小文字を区別しない）。
	Search string
	// Status は"all"の場合フィルタなし、それ以外はステータスの完全一致です。
	Status string
	// Page は1始まりのページ番号です。
	Page int
	// Limit は1ページあたりの件数です。
	Limit int
	// SortBy はソート対象のフィールド名（JSONフィールド名）です。
	SortBy string
	// SortOrder は"desc"で降順、それ以外は昇順です。
	SortOrder string
}

// Pagination はタスク一覧のページング情報です。
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalTasks  int64 `json:"totalTasks"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

// CreateTaskInput はタスク作成時の入力フィールドです。
// バリデーション済みの値を受け取ります。
type CreateTaskInput struct {
	UniqueID    string
	SoID        string
	ClientCode  string
	ProductCode string
	ProductName string
	BatchNumber string
	BatchSize   int
	Quantity    int
	DueDate     time.Time
	AssignedTo  string
	OrderType   entity.OrderType
}

// UpdateTaskInput は部分更新の入力フィールドです。
// nilのフィールドは「変更しない」を意味し、保存済みの値はそのまま残ります。
type UpdateTaskInput struct {
	UniqueID    *string
	SoID        *string
	ClientCode  *string
	ProductCode *string
	ProductName *string
	BatchNumber *string
	BatchSize   *int
	Quantity    *int
	Status      *entity.Status
	DueDate     *time.Time
	AssignedTo  *string
	OrderType   *entity.OrderType
	Dispatched  *bool

	// SetDispatchDate がtrueの場合、DispatchDateの値（nilならクリア）を適用します。
	SetDispatchDate bool
	DispatchDate    *time.Time
}

// TaskRepository はタスクエンティティの永続化層を抽象化します。
// すべての操作は所有ユーザーにスコープされます。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type TaskRepository interface {
	// Create は新しいタスクをストレージに永続化します。
	// dispatch_uniqueが重複する場合、ErrDispatchUniqueConflictを返します。
	Create(ctx context.Context, task *entity.Task) error

	// List は指定ユーザーのタスクを条件付きで取得し、総件数も返します。
	List(ctx context.Context, userID uint, q ListQuery) ([]entity.Task, int64, error)

	// FindByID は指定ユーザーが所有するタスクを取得します。
	// 存在しない、または所有者が異なる場合、ErrTaskNotFoundを返します。
	FindByID(ctx context.Context, userID, id uint) (*entity.Task, error)

	// Update はタスクの全フィールドを保存します。
	Update(ctx context.Context, task *entity.Task) error

	// Delete は指定ユーザーが所有するタスクを完全に削除します。
	// 存在しない、または所有者が異なる場合、ErrTaskNotFoundを返します。
	Delete(ctx context.Context, userID, id uint) error
}

// TaskUsecase はディスパッチタスクのビジネスロジックを提供します。
type TaskUsecase struct {
	repo TaskRepository
}

// NewTaskUsecase は指定されたリポジトリでTaskUsecaseの新しいインスタンスを生成します。
func NewTaskUsecase(repo TaskRepository) *TaskUsecase {
	return &TaskUsecase{repo: repo}
}

// base36Chars はディスパッチIDのサフィックスに使用する文字集合です。
const base36Chars = "0123456789abcdefghijklmnopqrstuvwxyz"

// newDispatchUnique は衝突耐性のあるディスパッチIDを生成します。
// 形式: DISP-<ミリ秒タイムスタンプ>-<9桁のランダムbase36>
// 一意性はストア側のユニーク制約で保証されます。
func newDispatchUnique() string {
	buf := make([]byte, dispatchSuffixLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/randの失敗は実行環境の異常。時刻のみにフォールバックする。
		return fmt.Sprintf("DISP-%d", time.Now().UnixNano())
	}
	for i, b := range buf {
		buf[i] = base36Chars[int(b)%len(base36Chars)]
	}
	return fmt.Sprintf("DISP-%d-%s", time.Now().UnixMilli(), buf)
}

// CreateTask は認証済みユーザーのタスクを作成し、作成されたタスクを返します。
// ディスパッチIDはサーバー側で生成され、以後変更されません。
func (u *TaskUsecase) CreateTask(ctx context.Context, userID uint, userEmail string, in CreateTaskInput) (*entity.Task, error) {
	createdBy := userEmail
	if createdBy == "" {
		createdBy = "system"
	}

	assignedTo := in.AssignedTo
	if assignedTo == "" {
		assignedTo = "Unassigned"
	}

	orderType := in.OrderType
	if orderType == "" {
		orderType = entity.OrderTypeOther
	}

	task := &entity.Task{
		DispatchUnique: newDispatchUnique(),
		UniqueID:       in.UniqueID,
		SoID:           in.SoID,
		ClientCode:     in.ClientCode,
		ProductCode:    in.ProductCode,
		ProductName:    in.ProductName,
		BatchNumber:    in.BatchNumber,
		BatchSize:      in.BatchSize,
		Quantity:       in.Quantity,
		Status:         entity.StatusPending,
		DueDate:        in.DueDate,
		AssignedTo:     assignedTo,
		CreatedBy:      createdBy,
		OrderType:      orderType,
		Dispatched:     false,
		UserID:         userID,
	}

	if err := u.repo.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// ListTasks は認証済みユーザーのタスクを検索・フィルタ・ソート・ページングして返します。
// ページとリミットはデフォルト値に正規化されます。
func (u *TaskUsecase) ListTasks(ctx context.Context, userID uint, q ListQuery) ([]entity.Task, Pagination, error) {
	if q.Page < 1 {
		q.Page = defaultPage
	}
	if q.Limit < 1 {
		q.Limit = defaultLimit
	}
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	if q.SortBy == "" {
		q.SortBy = "createdAt"
	}
	if q.SortOrder == "" {
		q.SortOrder = "desc"
	}
	if q.Status == "" {
		q.Status = "all"
	}

	tasks, total, err := u.repo.List(ctx, userID, q)
	if err != nil {
		return nil, Pagination{}, err
	}

	totalPages := int((total + int64(q.Limit) - 1) / int64(q.Limit))
	skip := (q.Page - 1) * q.Limit
	p := Pagination{
		CurrentPage: q.Page,
		TotalPages:  totalPages,
		TotalTasks:  total,
		HasNext:     int64(skip+len(tasks)) < total,
		HasPrev:     q.Page > 1,
	}
	return tasks, p, nil
}

// GetTask は認証済みユーザーが所有するタスクを1件取得します。
func (u *TaskUsecase) GetTask(ctx context.Context, userID, id uint) (*entity.Task, error) {
	return u.repo.FindByID(ctx, userID, id)
}

// UpdateTask はタスクを部分更新して返します。
// 入力に含まれないフィールドは変更されません。ステータスがDISPATCHに遷移し、
// かつディスパッチ日が未設定の場合、同一更新内でディスパッチ日と
// dispatchedフラグを設定します。
func (u *TaskUsecase) UpdateTask(ctx context.Context, userID, id uint, in UpdateTaskInput) (*entity.Task, error) {
	task, err := u.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if in.UniqueID != nil {
		task.UniqueID = *in.UniqueID
	}
	if in.SoID != nil {
		task.SoID = *in.SoID
	}
	if in.ClientCode != nil {
		task.ClientCode = *in.ClientCode
	}
	if in.ProductCode != nil {
		task.ProductCode = *in.ProductCode
	}
	if in.ProductName != nil {
		task.ProductName = *in.ProductName
	}
	if in.BatchNumber != nil {
		task.BatchNumber = *in.BatchNumber
	}
	if in.BatchSize != nil {
		task.BatchSize = *in.BatchSize
	}
	if in.Quantity != nil {
		task.Quantity = *in.Quantity
	}
	if in.Status != nil {
		task.Status = *in.Status
	}
	if in.DueDate != nil {
		task.DueDate = *in.DueDate
	}
	if in.SetDispatchDate {
		task.DispatchDate = in.DispatchDate
	}
	if in.AssignedTo != nil {
		task.AssignedTo = *in.AssignedTo
	}
	if in.OrderType != nil {
		task.OrderType = *in.OrderType
	}
	if in.Dispatched != nil {
		task.Dispatched = *in.Dispatched
	}

	// ステータスがDISPATCHに設定され、ディスパッチ日が未設定の場合のみ自動設定する。
	// 既に日付がある場合は上書きしない。
	if in.Status != nil && *in.Status == entity.StatusDispatch && task.DispatchDate == nil {
		now := time.Now()
		task.DispatchDate = &now
		task.Dispatched = true
	}

	if err := u.repo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask は認証済みユーザーが所有するタスクを完全に削除します。
// 論理削除や復元はありません。
func (u *TaskUsecase) DeleteTask(ctx context.Context, userID, id uint) error {
	return u.repo.Delete(ctx, userID, id)
}
