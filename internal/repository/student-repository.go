package repository

import (
	"errors"

	"gorm.io/gorm"

	"exam_portal/internal/domain"
)

type StudentQuery struct {
	Search  string
	School  string
	Program string
	Limit   int
	Offset  int
}

type StudentRepository interface {
	// Provision creates the auth account and the student profile in one
	// transaction.
	Provision(user *domain.User, student *domain.Student) error
	FindByUserID(userID uint) (*domain.Student, error)
	FindByID(id uint) (*domain.Student, error)
	List(q StudentQuery) ([]domain.Student, int64, error)
	Count() (int64, error)
	// UpdateContact writes the mutable contact fields to the profile and
	// keeps the auth account's email and phone in step, in one transaction.
	UpdateContact(student *domain.Student) error
	// Delete removes the student profile, their notifications and the auth
	// account in one transaction.
	Delete(student *domain.Student) error
}

type studentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Provision(user *domain.User, student *domain.Student) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		student.UserID = user.ID
		return tx.Create(student).Error
	})
}

func (r *studentRepository) FindByUserID(userID uint) (*domain.Student, error) {
	s := &domain.Student{}
	if err := r.db.First(s, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *studentRepository) FindByID(id uint) (*domain.Student, error) {
	s := &domain.Student{}
	if err := r.db.First(s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *studentRepository) List(q StudentQuery) ([]domain.Student, int64, error) {
	tx := r.db.Model(&domain.Student{})

	if q.Search != "" {
		like := "%" + q.Search + "%"
		tx = tx.Where(
			"registration_number ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?",
			like, like, like, like,
		)
	}
	if q.School != "" {
		tx = tx.Where("school = ?", q.School)
	}
	if q.Program != "" {
		tx = tx.Where("program = ?", q.Program)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []domain.Student
	err := tx.Order("created_at DESC").Limit(q.Limit).Offset(q.Offset).Find(&out).Error
	return out, total, err
}

func (r *studentRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&domain.Student{}).Count(&n).Error
	return n, err
}

func (r *studentRepository) UpdateContact(student *domain.Student) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Student{}).Where("id = ?", student.ID).Updates(map[string]any{
			"email":   student.Email,
			"phone":   student.Phone,
			"school":  student.School,
			"program": student.Program,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&domain.User{}).Where("id = ?", student.UserID).Updates(map[string]any{
			"email": student.Email,
			"phone": student.Phone,
		}).Error
	})
}

func (r *studentRepository) Delete(student *domain.Student) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", student.ID).Delete(&domain.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.Student{}, student.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.User{}, student.UserID).Error
	})
}
