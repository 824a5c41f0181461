package repository

import (
	"errors"

	"gorm.io/gorm"

	"exam_portal/internal/domain"
)

type OfficerQuery struct {
	Search     string
	Department string
	Limit      int
	Offset     int
}

type OfficerRepository interface {
	Provision(user *domain.User, officer *domain.ExamOfficer) error
	FindByUserID(userID uint) (*domain.ExamOfficer, error)
	List(q OfficerQuery) ([]domain.ExamOfficer, int64, error)
	Count() (int64, error)
}

type officerRepository struct {
	db *gorm.DB
}

func NewOfficerRepository(db *gorm.DB) OfficerRepository {
	return &officerRepository{db: db}
}

func (r *officerRepository) Provision(user *domain.User, officer *domain.ExamOfficer) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		officer.UserID = user.ID
		return tx.Create(officer).Error
	})
}

func (r *officerRepository) FindByUserID(userID uint) (*domain.ExamOfficer, error) {
	o := &domain.ExamOfficer{}
	if err := r.db.First(o, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (r *officerRepository) List(q OfficerQuery) ([]domain.ExamOfficer, int64, error) {
	tx := r.db.Model(&domain.ExamOfficer{})

	if q.Search != "" {
		like := "%" + q.Search + "%"
		tx = tx.Where(
			"officer_id ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?",
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

	var out []domain.ExamOfficer
	err := tx.Order("created_at DESC").Limit(q.Limit).Offset(q.Offset).Find(&out).Error
	return out, total, err
}

func (r *officerRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&domain.ExamOfficer{}).Count(&n).Error
	return n, err
}
