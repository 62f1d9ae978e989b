// Package adapters はtasksフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"dispatch_backend/internal/feature/tasks/domain/entity"
	"dispatch_backend/internal/feature/tasks/usecase"
)

// sortColumns はソート可能なJSONフィールド名とデータベースカラムの対応表です。
// 未知のフィールドはcreated_atにフォールバックします（SQLインジェクション対策）。
var sortColumns = map[string]string{
	"id":             "id",
	"dispatchUnique": "dispatch_unique",
	"uniqueId":       "unique_id",
	"soId":           "so_id",
	"clientCode":     "client_code",
	"productCode":    "product_code",
	"productName":    "product_name",
	"batchNumber":    "batch_number",
	"batchSize":      "batch_size",
	"quantity":       "quantity",
	"status":         "status",
	"dueDate":        "due_date",
	"dispatchDate":   "dispatch_date",
	"assignedTo":     "assigned_to",
	"createdBy":      "created_by",
	"orderType":      "order_type",
	"dispatched":     "dispatched",
	"createdAt":      "created_at",
	"updatedAt":      "updated_at",
}

// searchColumns は部分一致検索の対象カラムです。
var searchColumns = []string{
	"dispatch_unique",
	"unique_id",
	"so_id",
	"client_code",
	"product_code",
	"product_name",
}

// taskMySQL はTaskRepositoryインターフェースのMySQL実装です。
// GORMを使用してデータベース操作を行います。すべてのクエリは所有ユーザーに
// スコープされます。
type taskMySQL struct {
	db *gorm.DB
}

// taskMySQLがTaskRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.TaskRepository = (*taskMySQL)(nil)

// NewTaskMySQL は指定されたgorm.DB接続でtaskMySQLの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタです。
func NewTaskMySQL(db *gorm.DB) *taskMySQL {
	return &taskMySQL{db: db}
}

// Create はタスクをデータベースに追加します。
// dispatch_uniqueが重複する場合、usecase.ErrDispatchUniqueConflictを返します。
func (r *taskMySQL) Create(ctx context.Context, t *entity.Task) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		// MySQLエラー1062: ユニークキーの重複エントリ
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return usecase.ErrDispatchUniqueConflict
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return usecase.ErrDispatchUniqueConflict
		}
		return err
	}
	return nil
}

// escapeLike はLIKEパターンのメタ文字をエスケープします。
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// List は指定ユーザーのタスクを検索・フィルタ・ソート・ページングして返します。
// 2つ目の戻り値はページング前の総件数です。
func (r *taskMySQL) List(ctx context.Context, userID uint, q usecase.ListQuery) ([]entity.Task, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Task{}).Where("user_id = ?", userID)

	// 大文字小文字を区別しない部分一致検索
	if q.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(q.Search)) + "%"
		conds := make([]string, 0, len(searchColumns))
		args := make([]interface{}, 0, len(searchColumns))
		for _, col := range searchColumns {
			conds = append(conds, "LOWER("+col+") LIKE ? ESCAPE '\\'")
			args = append(args, pattern)
		}
		query = query.Where("("+strings.Join(conds, " OR ")+")", args...)
	}

	// "all"はフィルタなし
	if q.Status != "" && q.Status != "all" {
		query = query.Where("status = ?", q.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[q.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if q.SortOrder == "desc" {
		direction = "DESC"
	}

	var tasks []entity.Task
	err := query.
		Order(column + " " + direction).
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// FindByID は指定ユーザーが所有するタスクを取得します。
// 存在しない、または所有者が異なる場合、usecase.ErrTaskNotFoundを返します。
func (r *taskMySQL) FindByID(ctx context.Context, userID, id uint) (*entity.Task, error) {
	var t entity.Task
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrTaskNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Update はタスクの全フィールドを保存します。
// Saveはゼロ値のフィールド（dispatch_dateのNULLクリア等）も書き込みます。
func (r *taskMySQL) Update(ctx context.Context, t *entity.Task) error {
	return r.db.WithContext(ctx).Save(t).Error
}

// Delete は指定ユーザーが所有するタスクを完全に削除します。
// 対象が存在しない場合、usecase.ErrTaskNotFoundを返します。
func (r *taskMySQL) Delete(ctx context.Context, userID, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&entity.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrTaskNotFound
	}
	return nil
}
