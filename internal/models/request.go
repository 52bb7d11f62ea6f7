package models

import "time"

// ItemRequest is a wish for an item matching a description. Items created in
// response link back through their request_id.
type ItemRequest struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	RequesterID int64     `json:"requester_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type RequestDetails struct {
	ItemRequest
	Items []Item `json:"items"`
}
