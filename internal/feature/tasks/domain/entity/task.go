// Package entity defines the domain entities for the tasks feature.
package entity

import "time"

// Status is the lifecycle state of a dispatch task.
// Any value may be set directly through an update; the forward flow
// PENDING → DISPATCH → STORE_1 → STORE_2 → COMPLETED is a convention,
// not an enforced state machine.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusDispatch  Status = "DISPATCH"
	StatusStore1    Status = "STORE_1"
	StatusStore2    Status = "STORE_2"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// OrderType classifies the product category of a dispatch task.
type OrderType string

const (
	OrderTypePowerCord  OrderType = "POWER_CORD"
	OrderTypeCompressor OrderType = "COMPRESSOR"
	OrderTypeWire       OrderType = "WIRE"
	OrderTypeOther      OrderType = "OTHER"
)

// Task represents a dispatch task: a manufacturing/shipping order record
// tracked through a status lifecycle. Every task belongs to exactly one
// user and is only visible to and mutable by that user.
type Task struct {
	// ID is the unique identifier for the task.
	ID uint `gorm:"primaryKey"`

	// DispatchUnique is the server-assigned, globally unique identifier.
	// It is set once at creation and never changes.
	DispatchUnique string `gorm:"uniqueIndex;size:64;not null"`

	// UniqueID and SoID are caller-supplied business identifiers.
	UniqueID string `gorm:"index;size:255;not null"`
	SoID     string `gorm:"size:255;not null"`

	ClientCode  string `gorm:"index;size:255;not null"`
	ProductCode string `gorm:"index;size:255;not null"`
	ProductName string `gorm:"size:255"`

	BatchNumber string `gorm:"size:255"`
	BatchSize   int    `gorm:"not null"`
	Quantity    int    `gorm:"not null"`

	// Status defaults to PENDING at creation.
	Status Status `gorm:"index:idx_tasks_user_status,priority:2;index:idx_tasks_status_due_date,priority:1;size:16;not null;default:PENDING"`

	// DueDate is the requested completion date.
	DueDate time.Time `gorm:"index;index:idx_tasks_status_due_date,priority:2;not null"`

	// DispatchDate is set when the task is dispatched; nil until then.
	DispatchDate *time.Time

	AssignedTo string `gorm:"size:255;not null;default:Unassigned"`

	// CreatedBy records the email of the user that created the task.
	CreatedBy string `gorm:"size:255;not null"`

	OrderType OrderType `gorm:"size:16;not null;default:OTHER"`

	Dispatched bool `gorm:"not null;default:false"`

	// UserID is the owning user. All queries are scoped to it.
	UserID uint `gorm:"index:idx_tasks_user_created_at,priority:1;index:idx_tasks_user_status,priority:1;not null"`

	CreatedAt time.Time `gorm:"index:idx_tasks_user_created_at,priority:2"`
	UpdatedAt time.Time
}
