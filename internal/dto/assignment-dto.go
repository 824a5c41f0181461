package dto

type UnitAssignmentCreate struct {
	LecturerID uint   `json:"lecturer_id" validate:"required"`
	UnitCode   string `json:"unit_code" validate:"required,max=50"`
	UnitName   string `json:"unit_name" validate:"required,max=200"`
	Program    string `json:"program" validate:"required,max=20"`
	Year       int    `json:"year" validate:"required,min=2000,max=2100"`
	Semester   string `json:"semester" validate:"required,oneof=1 2"`
	Active     *bool  `json:"active"`
}
