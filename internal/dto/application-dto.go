package dto

import "time"

// ApplicationSubmit carries the multipart form fields; the document itself
// is read from the request separately.
type ApplicationSubmit struct {
	YearOfStudy         string `form:"year_of_study" validate:"required,oneof=1 2 3 4 5"`
	ExamType            string `form:"exam_type" validate:"required,oneof=resit retake special"`
	UnitName            string `form:"unit_name" validate:"required,max=200"`
	UnitCode            string `form:"unit_code" validate:"required,max=50"`
	YearTaken           int    `form:"year_taken" validate:"required,min=2000,max=2100"`
	SemesterTaken       string `form:"semester_taken" validate:"required,oneof=1 2"`
	DeclarationAccepted bool   `form:"declaration_accepted"`
}

type DocumentUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Bytes       []byte
}

type ApplicationResponse struct {
	ApplicationID    string    `json:"application_id"`
	Status           string    `json:"status"`
	YearOfStudy      string    `json:"year_of_study"`
	ExamType         string    `json:"exam_type"`
	UnitName         string    `json:"unit_name"`
	UnitCode         string    `json:"unit_code"`
	YearTaken        int       `json:"year_taken"`
	SemesterTaken    string    `json:"semester_taken"`
	DocumentURL      string    `json:"document_url"`
	AutoVerified     bool      `json:"auto_verified"`
	AssignedLecturer *string   `json:"assigned_lecturer,omitempty"`
	SubmittedAt      time.Time `json:"submitted_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type ApplicationList struct {
	Items []ApplicationResponse `json:"items"`
	Total int64                 `json:"total"`
}

type StatusPatchRequest struct {
	Action string `json:"action" validate:"required,oneof=start_review receive_exam submit_to_officer upload_to_portal"`
}
