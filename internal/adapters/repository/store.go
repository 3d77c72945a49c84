// Package repository persists computed account scores in the users table.
package repository

import (
	"context"
	"time"
)

// User is one score record. The numeric account ID is the primary key; a
// handle only reaches this table once the metrics source has resolved it.
type User struct {
	ID        int64     `gorm:"primaryKey;column:id" json:"ID"`
	Username  string    `gorm:"column:username;index" json:"Username"`
	Score     int       `gorm:"column:score" json:"Score"`
	CreatedAt time.Time `gorm:"column:created_at" json:"CreatedAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"UpdatedAt"`
}

// TableName pins the table the original schema used.
func (User) TableName() string { return "users" }

// InsertOutcome distinguishes a fresh insert from a benign duplicate.
type InsertOutcome int

const (
	// outcomeNone is the zero outcome, returned only alongside an error.
	outcomeNone InsertOutcome = iota
	// Inserted means the record was written.
	Inserted
	// AlreadyExists means a record for the account ID was already present
	// and the write was a no-op. The store is write-once: first insert wins.
	AlreadyExists
)

// Store provides read and write-once access to score records.
type Store interface {
	// Migrate creates the users table if absent.
	Migrate(ctx context.Context) error

	// Insert writes a record unless one exists for the same account ID.
	Insert(ctx context.Context, u User) (InsertOutcome, error)

	// FindByUsername returns the record for a handle, or ErrNotFound.
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindByID returns the record for an account ID, or ErrNotFound.
	FindByID(ctx context.Context, id int64) (*User, error)
}
