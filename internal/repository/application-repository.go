package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"exam_portal/internal/domain"
)

type ApplicationQuery struct {
	Statuses []domain.ApplicationStatus
	ExamType string
	Search   string
	Limit    int
	Offset   int
}

type ApplicationRepository interface {
	Create(app *domain.ExamApplication) error
	FindByAppID(appID string) (*domain.ExamApplication, error)
	ListByStudent(studentID uint, q ApplicationQuery) ([]domain.ExamApplication, int64, error)
	ListByLecturer(lecturerID uint, q ApplicationQuery) ([]domain.ExamApplication, int64, error)
	List(q ApplicationQuery) ([]domain.ExamApplication, int64, error)

	// SubmitReview appends the review row and applies the status change
	// (plus lecturer assignment on approval) in one transaction. The
	// status update is guarded by the from-set; a race loser gets
	// domain.ErrConflict and writes nothing.
	SubmitReview(appRecID uint, review *domain.ApplicationReview, from []domain.ApplicationStatus, to domain.ApplicationStatus, assignedLecturerID *uint) error

	// UpsertMarking creates or updates the single marking row and moves
	// the application to marking_complete, atomically.
	UpsertMarking(appRecID uint, marking *domain.ExamMarking, from []domain.ApplicationStatus) error

	// SetStatus applies a bare transition (collaborator-owned edges).
	SetStatus(appRecID uint, from []domain.ApplicationStatus, to domain.ApplicationStatus) error

	AttachOCRResult(res *domain.OCRResult, autoVerified bool) error

	Count() (int64, error)
	CountByStatus() (map[string]int64, error)
	CountByExamType() (map[string]int64, error)
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(app *domain.ExamApplication) error {
	return r.db.Create(app).Error
}

func (r *applicationRepository) FindByAppID(appID string) (*domain.ExamApplication, error) {
	app := &domain.ExamApplication{}
	err := r.db.
		Preload("Student").
		Preload("AssignedLecturer").
		Preload("OCRResult").
		Preload("Reviews", func(tx *gorm.DB) *gorm.DB { return tx.Order("reviewed_at ASC") }).
		Preload("Reviews.Officer").
		Preload("Marking").
		First(app, "application_id = ?", appID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return app, nil
}

func applyQuery(tx *gorm.DB, q ApplicationQuery) *gorm.DB {
	if len(q.Statuses) > 0 {
		tx = tx.Where("status IN ?", q.Statuses)
	}
	if q.ExamType != "" {
		tx = tx.Where("exam_type = ?", q.ExamType)
	}
	if q.Search != "" {
		like := "%" + q.Search + "%"
		tx = tx.Where("application_id ILIKE ? OR unit_code ILIKE ?", like, like)
	}
	return tx
}

func (r *applicationRepository) list(tx *gorm.DB, q ApplicationQuery) ([]domain.ExamApplication, int64, error) {
	tx = applyQuery(tx, q)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []domain.ExamApplication
	err := tx.
		Preload("Student").
		Preload("AssignedLecturer").
		Order("submitted_at DESC").
		Limit(q.Limit).Offset(q.Offset).
		Find(&out).Error
	return out, total, err
}

func (r *applicationRepository) ListByStudent(studentID uint, q ApplicationQuery) ([]domain.ExamApplication, int64, error) {
	return r.list(r.db.Model(&domain.ExamApplication{}).Where("student_id = ?", studentID), q)
}

func (r *applicationRepository) ListByLecturer(lecturerID uint, q ApplicationQuery) ([]domain.ExamApplication, int64, error) {
	return r.list(r.db.Model(&domain.ExamApplication{}).Where("assigned_lecturer_id = ?", lecturerID), q)
}

func (r *applicationRepository) List(q ApplicationQuery) ([]domain.ExamApplication, int64, error) {
	return r.list(r.db.Model(&domain.ExamApplication{}), q)
}

func (r *applicationRepository) SubmitReview(
	appRecID uint,
	review *domain.ApplicationReview,
	from []domain.ApplicationStatus,
	to domain.ApplicationStatus,
	assignedLecturerID *uint,
) error {
	now := time.Now()

	return r.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"status":     to,
			"updated_at": now,
		}
		if assignedLecturerID != nil {
			updates["assigned_lecturer_id"] = *assignedLecturerID
		}

		res := tx.Model(&domain.ExamApplication{}).
			Where("id = ? AND status IN ?", appRecID, from).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrConflict
		}

		review.ApplicationRecID = appRecID
		review.ReviewedAt = now
		return tx.Create(review).Error
	})
}

func (r *applicationRepository) UpsertMarking(
	appRecID uint,
	marking *domain.ExamMarking,
	from []domain.ApplicationStatus,
) error {
	now := time.Now()

	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.ExamApplication{}).
			Where("id = ? AND status IN ?", appRecID, from).
			Updates(map[string]any{
				"status":     domain.StatusMarkingComplete,
				"updated_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrConflict
		}

		existing := &domain.ExamMarking{}
		err := tx.First(existing, "application_rec_id = ?", appRecID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			marking.ApplicationRecID = appRecID
			return tx.Create(marking).Error
		case err != nil:
			return err
		default:
			existing.Marks = marking.Marks
			existing.Comments = marking.Comments
			if err := tx.Save(existing).Error; err != nil {
				return err
			}
			*marking = *existing
			return nil
		}
	})
}

func (r *applicationRepository) SetStatus(appRecID uint, from []domain.ApplicationStatus, to domain.ApplicationStatus) error {
	res := r.db.Model(&domain.ExamApplication{}).
		Where("id = ? AND status IN ?", appRecID, from).
		Updates(map[string]any{
			"status":     to,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrConflict
	}
	return nil
}

func (r *applicationRepository) AttachOCRResult(res *domain.OCRResult, autoVerified bool) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(res).Error; err != nil {
			return err
		}
		return tx.Model(&domain.ExamApplication{}).
			Where("id = ?", res.ApplicationRecID).
			Update("auto_verified", autoVerified).Error
	})
}

func (r *applicationRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&domain.ExamApplication{}).Count(&n).Error
	return n, err
}

type countRow struct {
	Key   string
	Count int64
}

func (r *applicationRepository) CountByStatus() (map[string]int64, error) {
	var rows []countRow
	err := r.db.Model(&domain.ExamApplication{}).
		Select("status AS key, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Count
	}
	return out, nil
}

func (r *applicationRepository) CountByExamType() (map[string]int64, error) {
	var rows []countRow
	err := r.db.Model(&domain.ExamApplication{}).
		Select("exam_type AS key, COUNT(*) AS count").
		Group("exam_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Count
	}
	return out, nil
}
