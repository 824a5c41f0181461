package services

import (
	"github.com/rs/zerolog"

	"exam_portal/internal/domain"
	"exam_portal/internal/dto"
	"exam_portal/internal/logger"
	"exam_portal/internal/repository"
)

type NotificationService interface {
	// Emit appends a notification for the student. It never returns an
	// error: a failed notification must not undo the transition that
	// produced it, so failures are logged and swallowed.
	Emit(studentID uint, appRecID *uint, appID string, typ domain.NotificationType, title, message string)

	List(studentUserID uint, limit, offset int) (*dto.NotificationList, error)
	MarkRead(studentUserID uint, input dto.MarkReadRequest) error
}

type notificationService struct {
	repo        repository.NotificationRepository
	studentRepo repository.StudentRepository
	log         zerolog.Logger
}

func NewNotificationService(
	repo repository.NotificationRepository,
	studentRepo repository.StudentRepository,
) NotificationService {
	return &notificationService{
		repo:        repo,
		studentRepo: studentRepo,
		log:         logger.Get(),
	}
}

func (s *notificationService) Emit(studentID uint, appRecID *uint, appID string, typ domain.NotificationType, title, message string) {
	n := &domain.Notification{
		StudentID:        studentID,
		ApplicationRecID: appRecID,
		Type:             typ,
		Title:            title,
		Message:          message,
	}
	if err := s.repo.Create(n); err != nil {
		s.log.Error().Err(err).
			Uint("student_id", studentID).
			Str("application_id", appID).
			Str("title", title).
			Msg("notification write failed")
	}
}

func (s *notificationService) List(studentUserID uint, limit, offset int) (*dto.NotificationList, error) {
	student, err := s.studentRepo.FindByUserID(studentUserID)
	if err != nil {
		return nil, err
	}

	items, total, err := s.repo.ListByStudent(student.ID, limit, offset)
	if err != nil {
		return nil, err
	}

	unread, err := s.repo.CountUnread(student.ID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.NotificationResponse, 0, len(items))
	for _, n := range items {
		res := dto.NotificationResponse{
			ID:        n.ID,
			Type:      string(n.Type),
			Title:     n.Title,
			Message:   n.Message,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		}
		if n.Application != nil {
			appID := n.Application.ApplicationID
			res.ApplicationID = &appID
		}
		out = append(out, res)
	}

	return &dto.NotificationList{Items: out, Total: total, Unread: unread}, nil
}

func (s *notificationService) MarkRead(studentUserID uint, input dto.MarkReadRequest) error {
	student, err := s.studentRepo.FindByUserID(studentUserID)
	if err != nil {
		return err
	}

	if !input.All && len(input.IDs) == 0 {
		return domain.Invalid("ids", "provide notification ids or set all=true")
	}

	ids := input.IDs
	if input.All {
		ids = nil
	}
	return s.repo.MarkRead(student.ID, ids)
}
