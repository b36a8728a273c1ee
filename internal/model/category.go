package model

import "time"

// Category represents a spending or income category. UserID is nil for
// global categories shared by every user.
type Category struct {
	CreatedAt time.Time
	Name      string
	Icon      string
	UserID    *int64
	ID        int64
}

// Currency is a per-user currency the application knows how to record
// transactions in.
type Currency struct {
	Code   string
	Name   string
	UserID int64
	ID     int64
}
