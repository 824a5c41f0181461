package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ApplicationStatus string

const (
	StatusSubmitted          ApplicationStatus = "submitted"
	StatusUnderReview        ApplicationStatus = "under_review"
	StatusApproved           ApplicationStatus = "approved"
	StatusRejected           ApplicationStatus = "rejected"
	StatusExamReceived       ApplicationStatus = "exam_received"
	StatusMarkingComplete    ApplicationStatus = "marking_complete"
	StatusSubmittedToOfficer ApplicationStatus = "submitted_to_officer"
	StatusUploadedToPortal   ApplicationStatus = "uploaded_to_portal"
)

type StatusAction string

const (
	ActionStartReview     StatusAction = "start_review"
	ActionApprove         StatusAction = "approve"
	ActionReject          StatusAction = "reject"
	ActionReceiveExam     StatusAction = "receive_exam"
	ActionMark            StatusAction = "mark"
	ActionSubmitToOfficer StatusAction = "submit_to_officer"
	ActionUploadToPortal  StatusAction = "upload_to_portal"
)

// statusTransitions is the full lifecycle table: from-state x action -> to-state.
// Anything not listed here is an illegal transition. rejected and
// uploaded_to_portal have no outgoing edges, so they are terminal.
var statusTransitions = map[ApplicationStatus]map[StatusAction]ApplicationStatus{
	StatusSubmitted: {
		ActionStartReview: StatusUnderReview,
		ActionApprove:     StatusApproved,
		ActionReject:      StatusRejected,
	},
	StatusUnderReview: {
		ActionApprove: StatusApproved,
		ActionReject:  StatusRejected,
	},
	StatusApproved: {
		ActionReceiveExam: StatusExamReceived,
		ActionMark:        StatusMarkingComplete,
	},
	StatusExamReceived: {
		ActionMark: StatusMarkingComplete,
	},
	StatusMarkingComplete: {
		// a lecturer may revise marks until the script leaves their hands
		ActionMark:            StatusMarkingComplete,
		ActionSubmitToOfficer: StatusSubmittedToOfficer,
	},
	StatusSubmittedToOfficer: {
		ActionUploadToPortal: StatusUploadedToPortal,
	},
}

func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusSubmitted, StatusUnderReview, StatusApproved, StatusRejected,
		StatusExamReceived, StatusMarkingComplete, StatusSubmittedToOfficer,
		StatusUploadedToPortal:
		return true
	}
	return false
}

func (s ApplicationStatus) Terminal() bool {
	return len(statusTransitions[s]) == 0 && s.Valid()
}

// Apply returns the status reached by taking action a from s, or an
// InvalidTransitionError when the table has no such edge.
func (s ApplicationStatus) Apply(a StatusAction) (ApplicationStatus, error) {
	if next, ok := statusTransitions[s][a]; ok {
		return next, nil
	}
	return "", &InvalidTransitionError{From: s, Action: a}
}

// CanApply reports whether action a is legal from status s.
func (s ApplicationStatus) CanApply(a StatusAction) bool {
	_, ok := statusTransitions[s][a]
	return ok
}

type ExamType string

const (
	ExamTypeResit   ExamType = "resit"
	ExamTypeRetake  ExamType = "retake"
	ExamTypeSpecial ExamType = "special"
)

func (t ExamType) Valid() bool {
	switch t {
	case ExamTypeResit, ExamTypeRetake, ExamTypeSpecial:
		return true
	}
	return false
}

type ExamApplication struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	ApplicationID string `gorm:"type:varchar(20);uniqueIndex;not null" json:"application_id"`
	StudentID     uint   `gorm:"not null;index" json:"student_id"`

	YearOfStudy   string   `gorm:"type:varchar(1);not null" json:"year_of_study"`
	ExamType      ExamType `gorm:"type:varchar(10);not null" json:"exam_type"`
	UnitName      string   `gorm:"type:varchar(200);not null" json:"unit_name"`
	UnitCode      string   `gorm:"type:varchar(50);not null;index" json:"unit_code"`
	YearTaken     int      `gorm:"not null" json:"year_taken"`
	SemesterTaken string   `gorm:"type:varchar(1);not null" json:"semester_taken"`

	DocumentURL         string `gorm:"type:text;not null" json:"document_url"`
	DeclarationAccepted bool   `gorm:"not null;default:false" json:"declaration_accepted"`

	Status       ApplicationStatus `gorm:"type:varchar(30);not null;default:'submitted'" json:"status"`
	AutoVerified bool              `gorm:"not null;default:false" json:"auto_verified"`

	AssignedLecturerID *uint `gorm:"index" json:"assigned_lecturer_id,omitempty"`

	Student          *Student           `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	AssignedLecturer *Lecturer          `gorm:"foreignKey:AssignedLecturerID" json:"assigned_lecturer,omitempty"`
	OCRResult        *OCRResult         `gorm:"foreignKey:ApplicationRecID" json:"ocr_result,omitempty"`
	Reviews          []ApplicationReview `gorm:"foreignKey:ApplicationRecID" json:"reviews,omitempty"`
	Marking          *ExamMarking       `gorm:"foreignKey:ApplicationRecID" json:"marking,omitempty"`

	SubmittedAt time.Time `gorm:"autoCreateTime" json:"submitted_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ExamApplication) TableName() string { return "exam_applications" }

// NewApplicationID builds a reference like APP2026A3F09C41: the visible
// APP<year> prefix students quote on the phone, backed by uuid-derived
// entropy and a unique index.
func NewApplicationID(now time.Time) string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("APP%d%s", now.Year(), raw[:8])
}

type OCRResult struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	ApplicationRecID uint           `gorm:"uniqueIndex;not null" json:"application_rec_id"`
	ExtractedText    string         `gorm:"type:text" json:"extracted_text"`
	OCRSummary       string         `gorm:"type:text" json:"ocr_summary"`
	ConfidenceScore  float64        `gorm:"not null;default:0" json:"confidence_score"`
	KeywordsFound    datatypes.JSON `json:"keywords_found,omitempty"`
	Verified         bool           `gorm:"not null;default:false" json:"verified"`
	ProcessedAt      time.Time      `gorm:"autoCreateTime" json:"processed_at"`
}

func (OCRResult) TableName() string { return "ocr_results" }

type ReviewDecision string

const (
	DecisionPending  ReviewDecision = "pending"
	DecisionApproved ReviewDecision = "approved"
	DecisionRejected ReviewDecision = "rejected"
)

func (d ReviewDecision) Valid() bool {
	switch d {
	case DecisionPending, DecisionApproved, DecisionRejected:
		return true
	}
	return false
}

// ApplicationReview is an append-only audit row; nothing updates it after
// creation.
type ApplicationReview struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	ApplicationRecID uint           `gorm:"not null;index" json:"application_rec_id"`
	OfficerID        uint           `gorm:"not null;index" json:"officer_id"`
	Decision         ReviewDecision `gorm:"type:varchar(10);not null;default:'pending'" json:"decision"`
	Comments         string         `gorm:"type:text" json:"comments"`
	ReviewedAt       time.Time      `gorm:"autoCreateTime" json:"reviewed_at"`

	Officer *ExamOfficer `gorm:"foreignKey:OfficerID" json:"officer,omitempty"`
}

func (ApplicationReview) TableName() string { return "application_reviews" }

type ExamMarking struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	ApplicationRecID uint      `gorm:"uniqueIndex;not null" json:"application_rec_id"`
	LecturerID       uint      `gorm:"not null;index" json:"lecturer_id"`
	Marks            float64   `gorm:"type:numeric(5,2);not null" json:"marks"`
	Comments         string    `gorm:"type:text" json:"comments"`
	MarkedAt         time.Time `gorm:"autoCreateTime" json:"marked_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Lecturer *Lecturer `gorm:"foreignKey:LecturerID" json:"lecturer,omitempty"`
}

func (ExamMarking) TableName() string { return "exam_markings" }

const (
	MinMarks = 0.0
	MaxMarks = 100.0
)

func ValidMarks(m float64) bool { return m >= MinMarks && m <= MaxMarks }
