package models

import "time"

type Booking struct {
	ID         int64     `json:"id"`
	ItemID     int64     `json:"item_id"`
	ItemName   string    `json:"item_name,omitempty"`
	BookerID   int64     `json:"booker_id"`
	BookerName string    `json:"booker_name,omitempty"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Version    int64     `json:"version"`

	// Owner of the booked item, joined in by the store for authorization
	// checks. Never serialized.
	ItemOwnerID int64 `json:"-"`
}

// BookingPatch carries a booker's date revision. Nil fields are left untouched.
type BookingPatch struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}
