package repository

import (
	"errors"

	"gorm.io/gorm"

	"exam_portal/internal/domain"
)

type AssignmentRepository interface {
	Create(a *domain.UnitAssignment) error
	// FindActiveByUnitCode returns the routing target for a unit: the
	// oldest active assignment wins (created_at ASC, id ASC), so repeated
	// approvals land on the same lecturer.
	FindActiveByUnitCode(unitCode string) (*domain.UnitAssignment, error)
	ListByLecturer(lecturerID uint) ([]domain.UnitAssignment, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Create(a *domain.UnitAssignment) error {
	return r.db.Create(a).Error
}

func (r *assignmentRepository) FindActiveByUnitCode(unitCode string) (*domain.UnitAssignment, error) {
	a := &domain.UnitAssignment{}
	err := r.db.
		Preload("Lecturer").
		Where("unit_code = ? AND active = ?", unitCode, true).
		Order("created_at ASC, id ASC").
		First(a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *assignmentRepository) ListByLecturer(lecturerID uint) ([]domain.UnitAssignment, error) {
	var out []domain.UnitAssignment
	err := r.db.
		Where("lecturer_id = ?", lecturerID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}
