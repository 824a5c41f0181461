package domain

import "time"

type NotificationType string

const (
	NotificationStatusUpdate    NotificationType = "status_update"
	NotificationOfficerMessage  NotificationType = "officer_message"
	NotificationLecturerMessage NotificationType = "lecturer_message"
	NotificationGeneral         NotificationType = "general"
)

// Notification is append-only; is_read is the only field that ever changes.
type Notification struct {
	ID               uint             `gorm:"primaryKey" json:"id"`
	StudentID        uint             `gorm:"not null;index" json:"student_id"`
	ApplicationRecID *uint            `gorm:"index" json:"application_rec_id,omitempty"`
	Type             NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	Title            string           `gorm:"type:varchar(200);not null" json:"title"`
	Message          string           `gorm:"type:text;not null" json:"message"`
	IsRead           bool             `gorm:"not null;default:false" json:"is_read"`
	CreatedAt        time.Time        `gorm:"autoCreateTime" json:"created_at"`

	Application *ExamApplication `gorm:"foreignKey:ApplicationRecID" json:"application,omitempty"`
}

func (Notification) TableName() string { return "notifications" }
