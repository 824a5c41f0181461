package domain

import "time"

type Student struct {
	ID                 uint   `gorm:"primaryKey" json:"id"`
	UserID             uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	RegistrationNumber string `gorm:"type:varchar(50);uniqueIndex;not null" json:"registration_number"`
	FirstName          string `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName           string `gorm:"type:varchar(100);not null" json:"last_name"`
	Email              string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone              string `gorm:"type:varchar(15)" json:"phone,omitempty"`
	School             string `gorm:"type:varchar(10)" json:"school,omitempty"`
	Program            string `gorm:"type:varchar(20)" json:"program,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Student) TableName() string { return "students" }

func (s Student) FullName() string { return s.FirstName + " " + s.LastName }

type ExamOfficer struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	UserID     uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	OfficerID  string `gorm:"type:varchar(50);uniqueIndex;not null" json:"officer_id"`
	FirstName  string `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName   string `gorm:"type:varchar(100);not null" json:"last_name"`
	Email      string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone      string `gorm:"type:varchar(15)" json:"phone,omitempty"`
	Department string `gorm:"type:varchar(10);not null" json:"department"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ExamOfficer) TableName() string { return "exam_officers" }

type Lecturer struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	UserID     uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	LecturerID string `gorm:"type:varchar(50);uniqueIndex;not null" json:"lecturer_id"`
	FirstName  string `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName   string `gorm:"type:varchar(100);not null" json:"last_name"`
	Email      string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone      string `gorm:"type:varchar(15)" json:"phone,omitempty"`
	Department string `gorm:"type:varchar(10);not null" json:"department"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Lecturer) TableName() string { return "lecturers" }

func (l Lecturer) FullName() string { return l.FirstName + " " + l.LastName }
