package models

import "time"

// Room statuses.
const (
	RoomOpen    = "open"
	RoomStarted = "started"
	RoomClosed  = "closed"
)

type Room struct {
	ID          string    `json:"id"`            // Primary key (uuid)
	Pin         string    `json:"pin"`           // 4-digit code, unique among open rooms
	OwnerUserID string    `json:"owner_user_id"` // Fixed at creation
	Status      string    `json:"status"`        // 'open', 'started', 'closed'
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
