package repository

import (
	"gorm.io/gorm"

	"exam_portal/internal/domain"
)

type NotificationRepository interface {
	Create(n *domain.Notification) error
	ListByStudent(studentID uint, limit, offset int) ([]domain.Notification, int64, error)
	CountUnread(studentID uint) (int64, error)
	// MarkRead with empty ids marks every notification for the student.
	// Already-read rows are untouched, so repeating the call is harmless.
	MarkRead(studentID uint, ids []uint) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(n *domain.Notification) error {
	return r.db.Create(n).Error
}

func (r *notificationRepository) ListByStudent(studentID uint, limit, offset int) ([]domain.Notification, int64, error) {
	tx := r.db.Model(&domain.Notification{}).Where("student_id = ?", studentID)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []domain.Notification
	err := tx.
		Preload("Application").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&out).Error
	return out, total, err
}

func (r *notificationRepository) CountUnread(studentID uint) (int64, error) {
	var n int64
	err := r.db.Model(&domain.Notification{}).
		Where("student_id = ? AND is_read = ?", studentID, false).
		Count(&n).Error
	return n, err
}

func (r *notificationRepository) MarkRead(studentID uint, ids []uint) error {
	tx := r.db.Model(&domain.Notification{}).Where("student_id = ?", studentID)
	if len(ids) > 0 {
		tx = tx.Where("id IN ?", ids)
	}
	return tx.Update("is_read", true).Error
}
