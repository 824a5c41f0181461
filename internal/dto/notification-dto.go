package dto

import "time"

type NotificationResponse struct {
	ID            uint      `json:"id"`
	ApplicationID *string   `json:"application_id,omitempty"`
	Type          string    `json:"type"`
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	IsRead        bool      `json:"is_read"`
	CreatedAt     time.Time `json:"created_at"`
}

type NotificationList struct {
	Items  []NotificationResponse `json:"items"`
	Total  int64                  `json:"total"`
	Unread int64                  `json:"unread"`
}

// MarkReadRequest with empty IDs and All=true marks everything read.
type MarkReadRequest struct {
	IDs []uint `json:"ids"`
	All bool   `json:"all"`
}
