package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exam_portal/internal/domain"
	"exam_portal/internal/dto"
)

type fakeNotificationRepo struct {
	rows   []*domain.Notification
	nextID uint
}

func (r *fakeNotificationRepo) Create(n *domain.Notification) error {
	r.nextID++
	n.ID = r.nextID
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	r.rows = append(r.rows, n)
	return nil
}

func (r *fakeNotificationRepo) ListByStudent(studentID uint, limit, offset int) ([]domain.Notification, int64, error) {
	var out []domain.Notification
	for _, n := range r.rows {
		if n.StudentID == studentID {
			out = append(out, *n)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeNotificationRepo) CountUnread(studentID uint) (int64, error) {
	var count int64
	for _, n := range r.rows {
		if n.StudentID == studentID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkRead(studentID uint, ids []uint) error {
	idSet := map[uint]bool{}
	for _, id := range ids {
		idSet[id] = true
	}
	for _, n := range r.rows {
		if n.StudentID != studentID {
			continue
		}
		if len(ids) == 0 || idSet[n.ID] {
			n.IsRead = true
		}
	}
	return nil
}

func newNotificationFixture(t *testing.T) (NotificationService, *fakeNotificationRepo, *fakeStudentRepo) {
	t.Helper()

	repo := &fakeNotificationRepo{}
	studentRepo := &fakeStudentRepo{}
	studentRepo.students = append(studentRepo.students, &domain.Student{
		ID: 1, UserID: 10,
		RegistrationNumber: "SCT221-0001/2023",
		FirstName:          "Amina", LastName: "Odhiambo",
		Email: "amina@students.uni.ac.ke",
	})

	return NewNotificationService(repo, studentRepo), repo, studentRepo
}

func TestNotificationListAndUnread(t *testing.T) {
	svc, repo, _ := newNotificationFixture(t)

	svc.Emit(1, nil, "", domain.NotificationGeneral, "Welcome", "hello")
	svc.Emit(1, nil, "APP20260001", domain.NotificationStatusUpdate, "Application Submitted", "received")
	svc.Emit(2, nil, "", domain.NotificationGeneral, "Welcome", "someone else")

	list, err := svc.List(10, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.Total)
	assert.Equal(t, int64(2), list.Unread)
	require.Len(t, list.Items, 2)

	require.NoError(t, svc.MarkRead(10, dto.MarkReadRequest{IDs: []uint{repo.rows[0].ID}}))

	list, err = svc.List(10, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Unread)
}

func TestNotificationMarkAllRead(t *testing.T) {
	svc, _, _ := newNotificationFixture(t)

	svc.Emit(1, nil, "", domain.NotificationGeneral, "a", "a")
	svc.Emit(1, nil, "", domain.NotificationGeneral, "b", "b")

	require.NoError(t, svc.MarkRead(10, dto.MarkReadRequest{All: true}))

	list, err := svc.List(10, 20, 0)
	require.NoError(t, err)
	assert.Zero(t, list.Unread)

	// repeatable without error
	require.NoError(t, svc.MarkRead(10, dto.MarkReadRequest{All: true}))
}

func TestNotificationMarkReadRequiresSelection(t *testing.T) {
	svc, _, _ := newNotificationFixture(t)

	err := svc.MarkRead(10, dto.MarkReadRequest{})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestNotificationListUnknownStudent(t *testing.T) {
	svc, _, _ := newNotificationFixture(t)

	_, err := svc.List(99, 20, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
