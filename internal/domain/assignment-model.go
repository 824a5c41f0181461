package domain

import "time"

// UnitAssignment authorizes a lecturer to mark a unit for a given term.
// At most one row per (lecturer, unit_code, year, semester); the unique
// index backs that up at the store.
type UnitAssignment struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	LecturerID uint   `gorm:"not null;index;uniqueIndex:uidx_unit_assignment_term" json:"lecturer_id"`
	UnitCode   string `gorm:"type:varchar(50);not null;index;uniqueIndex:uidx_unit_assignment_term" json:"unit_code"`
	UnitName   string `gorm:"type:varchar(200);not null" json:"unit_name"`
	Program    string `gorm:"type:varchar(20);not null" json:"program"`
	Year       int    `gorm:"not null;uniqueIndex:uidx_unit_assignment_term" json:"year"`
	Semester   string `gorm:"type:varchar(1);not null;uniqueIndex:uidx_unit_assignment_term" json:"semester"`
	Active     bool   `gorm:"not null;default:true" json:"active"`

	Lecturer *Lecturer `gorm:"foreignKey:LecturerID" json:"lecturer,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (UnitAssignment) TableName() string { return "unit_assignments" }
