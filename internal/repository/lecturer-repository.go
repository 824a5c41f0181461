package repository

import (
	"errors"

	"gorm.io/gorm"

	"exam_portal/internal/domain"
)

type LecturerQuery struct {
	Search     string
	Department string
	Limit      int
	Offset     int
}

type LecturerRepository interface {
	Provision(user *domain.User, lecturer *domain.Lecturer) error
	FindByUserID(userID uint) (*domain.Lecturer, error)
	FindByID(id uint) (*domain.Lecturer, error)
	List(q LecturerQuery) ([]domain.Lecturer, int64, error)
	Count() (int64, error)
}

type lecturerRepository struct {
	db *gorm.DB
}

func NewLecturerRepository(db *gorm.DB) LecturerRepository {
	return &lecturerRepository{db: db}
}

func (r *lecturerRepository) Provision(user *domain.User, lecturer *domain.Lecturer) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		lecturer.UserID = user.ID
		return tx.Create(lecturer).Error
	})
}

func (r *lecturerRepository) FindByUserID(userID uint) (*domain.Lecturer, error) {
	l := &domain.Lecturer{}
	if err := r.db.First(l, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

func (r *lecturerRepository) FindByID(id uint) (*domain.Lecturer, error) {
	l := &domain.Lecturer{}
	if err := r.db.First(l, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

func (r *lecturerRepository) List(q LecturerQuery) ([]domain.Lecturer, int64, error) {
	tx := r.db.Model(&domain.Lecturer{})

	if q.Search != "" {
		like := "%" + q.Search + "%"
		tx = tx.Where(
			"lecturer_id ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?",
			like, like, like, like,
		)
	}
	if q.Department != "" {
		tx = tx.Where("department = ?", q.Department)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []domain.Lecturer
	err := tx.Order("created_at DESC").Limit(q.Limit).Offset(q.Offset).Find(&out).Error
	return out, total, err
}

func (r *lecturerRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&domain.Lecturer{}).Count(&n).Error
	return n, err
}
