package dto

// Event keys published to Kafka. The mailer switches on these.
const (
	EventApplicationSubmitted = "application.submitted"
	EventApplicationApproved  = "application.approved"
	EventApplicationRejected  = "application.rejected"
	EventApplicationMarked    = "application.marked"
	EventStudentWelcome       = "student.welcome"
)

type ApplicationEvent struct {
	Event         string `json:"event"`
	ApplicationID string `json:"application_id"`
	UnitCode      string `json:"unit_code"`
	Status        string `json:"status"`
	StudentEmail  string `json:"student_email"`
	StudentName   string `json:"student_name"`
	Comments      string `json:"comments,omitempty"`
}

type WelcomeEvent struct {
	Event        string `json:"event"`
	StudentEmail string `json:"student_email"`
	StudentName  string `json:"student_name"`
}
