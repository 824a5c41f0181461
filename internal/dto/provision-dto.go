package dto

type StudentCreate struct {
	RegistrationNumber string `json:"registration_number" validate:"required,max=50"`
	FirstName          string `json:"first_name" validate:"required,max=100"`
	LastName           string `json:"last_name" validate:"required,max=100"`
	Email              string `json:"email" validate:"required,email"`
	Password           string `json:"password" validate:"required,min=6"`
	Phone              string `json:"phone" validate:"max=15"`
	School             string `json:"school" validate:"max=10"`
	Program            string `json:"program" validate:"max=20"`
}

// StudentUpdate carries the contact fields an admin may change after
// enrollment. Registration number and names are fixed at provisioning;
// empty fields are left unchanged.
type StudentUpdate struct {
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"max=15"`
	School  string `json:"school" validate:"max=10"`
	Program string `json:"program" validate:"max=20"`
}

type OfficerCreate struct {
	OfficerID  string `json:"officer_id" validate:"required,max=50"`
	FirstName  string `json:"first_name" validate:"required,max=100"`
	LastName   string `json:"last_name" validate:"required,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Phone      string `json:"phone" validate:"max=15"`
	Department string `json:"department" validate:"required,max=10"`
}

type LecturerCreate struct {
	LecturerID string `json:"lecturer_id" validate:"required,max=50"`
	FirstName  string `json:"first_name" validate:"required,max=100"`
	LastName   string `json:"last_name" validate:"required,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Phone      string `json:"phone" validate:"max=15"`
	Department string `json:"department" validate:"required,max=10"`
}

type DashboardStats struct {
	TotalStudents     int64            `json:"total_students"`
	TotalOfficers     int64            `json:"total_officers"`
	TotalLecturers    int64            `json:"total_lecturers"`
	TotalApplications int64            `json:"total_applications"`
	ByStatus          map[string]int64 `json:"by_status"`
	ByExamType        map[string]int64 `json:"by_exam_type"`
}
