package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"exam_portal/internal/domain"
	"exam_portal/internal/dto"
	"exam_portal/internal/interfaces"
	"exam_portal/internal/logger"
	"exam_portal/internal/repository"
)

const maxDocumentSize = 5 << 20 // 5 MB

// allowedDocumentTypes maps accepted content types to the stored file
// extension.
var allowedDocumentTypes = map[string]string{
	"application/pdf": ".pdf",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
}

const ocrTimeout = 20 * time.Second

type ApplicationService interface {
	// Submit files a new application with its supporting document. The
	// document upload and row creation must succeed; the notification,
	// broker event and OCR scan that follow are best-effort.
	Submit(ctx context.Context, studentUserID uint, input dto.ApplicationSubmit, doc dto.DocumentUpload) (*domain.ExamApplication, error)

	// Get fetches one application scoped to the caller: students see only
	// their own, lecturers only what is assigned to them.
	Get(claims dto.AuthClaims, appID string) (*domain.ExamApplication, error)

	ListForStudent(studentUserID uint, q repository.ApplicationQuery) ([]domain.ExamApplication, int64, error)
	ListForLecturer(lecturerUserID uint, q repository.ApplicationQuery) ([]domain.ExamApplication, int64, error)
	List(q repository.ApplicationQuery) ([]domain.ExamApplication, int64, error)

	// Review records an officer decision. Approval routes the application
	// to the lecturer actively assigned to the unit; when no assignment
	// exists the approval still lands and the result carries a routing
	// warning. Rejection requires comments.
	Review(officerUserID uint, appID string, input dto.ReviewRequest) (*dto.ReviewResult, error)

	// Mark records marks for an application assigned to the calling
	// lecturer. Re-marking overwrites the previous marks while the
	// application has not yet been handed back to the officer.
	Mark(lecturerUserID uint, appID string, input dto.MarkingRequest) (*dto.MarkingResponse, error)

	// Advance applies one of the administrative lifecycle actions
	// (start_review, receive_exam, submit_to_officer, upload_to_portal).
	Advance(appID string, action domain.StatusAction) (*domain.ExamApplication, error)
}

type applicationService struct {
	repo           repository.ApplicationRepository
	studentRepo    repository.StudentRepository
	officerRepo    repository.OfficerRepository
	lecturerRepo   repository.LecturerRepository
	assignmentRepo repository.AssignmentRepository
	notifier       NotificationService
	uploader       interfaces.Uploader
	scanner        interfaces.DocumentScanner
	producer       interfaces.ProducerHandler
	log            zerolog.Logger
}

func NewApplicationService(
	repo repository.ApplicationRepository,
	studentRepo repository.StudentRepository,
	officerRepo repository.OfficerRepository,
	lecturerRepo repository.LecturerRepository,
	assignmentRepo repository.AssignmentRepository,
	notifier NotificationService,
	uploader interfaces.Uploader,
	scanner interfaces.DocumentScanner,
	producer interfaces.ProducerHandler,
) ApplicationService {
	return &applicationService{
		repo:           repo,
		studentRepo:    studentRepo,
		officerRepo:    officerRepo,
		lecturerRepo:   lecturerRepo,
		assignmentRepo: assignmentRepo,
		notifier:       notifier,
		uploader:       uploader,
		scanner:        scanner,
		producer:       producer,
		log:            logger.Get(),
	}
}

func validateDocument(doc dto.DocumentUpload) (string, error) {
	if len(doc.Bytes) == 0 {
		return "", domain.Invalid("document", "a supporting document is required")
	}
	if doc.Size > maxDocumentSize {
		return "", domain.Invalid("document", "document exceeds the 5MB limit")
	}
	ext, ok := allowedDocumentTypes[strings.ToLower(doc.ContentType)]
	if !ok {
		return "", domain.Invalid("document", "document must be a PDF, JPEG or PNG")
	}
	return ext, nil
}

func (s *applicationService) Submit(ctx context.Context, studentUserID uint, input dto.ApplicationSubmit, doc dto.DocumentUpload) (*domain.ExamApplication, error) {
	student, err := s.studentRepo.FindByUserID(studentUserID)
	if err != nil {
		return nil, err
	}

	if !input.DeclarationAccepted {
		return nil, domain.Invalid("declaration_accepted", "the declaration must be accepted to submit")
	}
	if !domain.ExamType(input.ExamType).Valid() {
		return nil, domain.Invalid("exam_type", "exam type must be resit, retake or special")
	}

	ext, err := validateDocument(doc)
	if err != nil {
		return nil, err
	}

	appID := domain.NewApplicationID(time.Now())

	docURL, err := s.uploader.UploadBytes(ctx, "exam-portal/documents", appID+ext, doc.Bytes)
	if err != nil {
		return nil, fmt.Errorf("document upload: %w", err)
	}

	app := &domain.ExamApplication{
		ApplicationID:       appID,
		StudentID:           student.ID,
		YearOfStudy:         input.YearOfStudy,
		ExamType:            domain.ExamType(input.ExamType),
		UnitName:            input.UnitName,
		UnitCode:            strings.ToUpper(strings.TrimSpace(input.UnitCode)),
		YearTaken:           input.YearTaken,
		SemesterTaken:       input.SemesterTaken,
		DocumentURL:         docURL,
		DeclarationAccepted: true,
		Status:              domain.StatusSubmitted,
	}
	if err := s.repo.Create(app); err != nil {
		return nil, err
	}
	app.Student = student

	s.notifier.Emit(student.ID, &app.ID, appID, domain.NotificationStatusUpdate,
		"Application Submitted",
		fmt.Sprintf("Your %s application %s for %s has been received and is awaiting review.",
			app.ExamType, appID, app.UnitCode))

	publishEvent(s.log, s.producer, dto.EventApplicationSubmitted, dto.ApplicationEvent{
		Event:         dto.EventApplicationSubmitted,
		ApplicationID: appID,
		UnitCode:      app.UnitCode,
		Status:        string(app.Status),
		StudentEmail:  student.Email,
		StudentName:   student.FullName(),
	})

	s.scanDocument(app, doc)

	return app, nil
}

// scanDocument runs the OCR collaborator over the uploaded document and
// attaches the result. The scan is advisory: any failure is logged and
// the application stands as submitted.
func (s *applicationService) scanDocument(app *domain.ExamApplication, doc dto.DocumentUpload) {
	if s.scanner == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), ocrTimeout)
	defer cancel()

	analysis, err := s.scanner.Analyze(ctx, doc.Filename, doc.ContentType, doc.Bytes)
	if err != nil {
		s.log.Warn().Err(err).Str("application_id", app.ApplicationID).Msg("document scan failed")
		return
	}

	keywords, err := json.Marshal(analysis.Keywords)
	if err != nil {
		keywords = []byte("[]")
	}

	res := &domain.OCRResult{
		ApplicationRecID: app.ID,
		ExtractedText:    analysis.ExtractedText,
		OCRSummary:       analysis.Summary,
		ConfidenceScore:  analysis.ConfidenceScore,
		KeywordsFound:    keywords,
		Verified:         analysis.Verified,
	}
	if err := s.repo.AttachOCRResult(res, analysis.Verified); err != nil {
		s.log.Warn().Err(err).Str("application_id", app.ApplicationID).Msg("ocr result write failed")
		return
	}

	app.OCRResult = res
	app.AutoVerified = analysis.Verified
}

func (s *applicationService) Get(claims dto.AuthClaims, appID string) (*domain.ExamApplication, error) {
	app, err := s.repo.FindByAppID(appID)
	if err != nil {
		return nil, err
	}

	switch domain.Role(claims.Role) {
	case domain.RoleStudent:
		student, err := s.studentRepo.FindByUserID(claims.UserID)
		if err != nil {
			return nil, err
		}
		if app.StudentID != student.ID {
			return nil, domain.ErrNotFound
		}
	case domain.RoleLecturer:
		lecturer, err := s.lecturerRepo.FindByUserID(claims.UserID)
		if err != nil {
			return nil, err
		}
		if app.AssignedLecturerID == nil || *app.AssignedLecturerID != lecturer.ID {
			return nil, domain.ErrNotFound
		}
	case domain.RoleOfficer, domain.RoleAdmin:
		// full visibility
	default:
		return nil, domain.ErrForbidden
	}

	return app, nil
}

func (s *applicationService) ListForStudent(studentUserID uint, q repository.ApplicationQuery) ([]domain.ExamApplication, int64, error) {
	student, err := s.studentRepo.FindByUserID(studentUserID)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.ListByStudent(student.ID, q)
}

func (s *applicationService) ListForLecturer(lecturerUserID uint, q repository.ApplicationQuery) ([]domain.ExamApplication, int64, error) {
	lecturer, err := s.lecturerRepo.FindByUserID(lecturerUserID)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.ListByLecturer(lecturer.ID, q)
}

func (s *applicationService) List(q repository.ApplicationQuery) ([]domain.ExamApplication, int64, error) {
	return s.repo.List(q)
}

func (s *applicationService) Review(officerUserID uint, appID string, input dto.ReviewRequest) (*dto.ReviewResult, error) {
	officer, err := s.officerRepo.FindByUserID(officerUserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, err
	}

	app, err := s.repo.FindByAppID(appID)
	if err != nil {
		return nil, err
	}

	decision := domain.ReviewDecision(input.Decision)
	comments := strings.TrimSpace(input.Comments)

	var action domain.StatusAction
	switch decision {
	case domain.DecisionApproved:
		action = domain.ActionApprove
	case domain.DecisionRejected:
		if comments == "" {
			return nil, domain.Invalid("comments", "a rejection must state the reason")
		}
		action = domain.ActionReject
	default:
		return nil, domain.Invalid("decision", "decision must be approved or rejected")
	}

	to, err := app.Status.Apply(action)
	if err != nil {
		return nil, err
	}

	result := &dto.ReviewResult{
		ApplicationID: appID,
		Status:        string(to),
		Decision:      string(decision),
	}

	var assignedLecturerID *uint
	var lecturerName string
	if decision == domain.DecisionApproved {
		assignment, err := s.assignmentRepo.FindActiveByUnitCode(app.UnitCode)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			result.RoutingWarning = "no active lecturer assignment for unit " + app.UnitCode + "; assign one manually"
			s.log.Warn().
				Str("application_id", appID).
				Str("unit_code", app.UnitCode).
				Msg("approval without lecturer routing")
		case err != nil:
			return nil, err
		default:
			assignedLecturerID = &assignment.LecturerID
			if assignment.Lecturer != nil {
				lecturerName = assignment.Lecturer.FullName()
				result.AssignedLecturer = &lecturerName
			}
		}
	}

	review := &domain.ApplicationReview{
		OfficerID: officer.ID,
		Decision:  decision,
		Comments:  comments,
	}
	reviewFrom := []domain.ApplicationStatus{domain.StatusSubmitted, domain.StatusUnderReview}
	if err := s.repo.SubmitReview(app.ID, review, reviewFrom, to, assignedLecturerID); err != nil {
		return nil, err
	}

	student := app.Student
	eventKey := dto.EventApplicationApproved
	if decision == domain.DecisionApproved {
		msg := fmt.Sprintf("Your application %s for %s has been approved.", appID, app.UnitCode)
		if lecturerName != "" {
			msg += " It has been forwarded to " + lecturerName + " for marking."
		}
		s.notifier.Emit(app.StudentID, &app.ID, appID, domain.NotificationStatusUpdate,
			"Application Approved", msg)
	} else {
		eventKey = dto.EventApplicationRejected
		s.notifier.Emit(app.StudentID, &app.ID, appID, domain.NotificationOfficerMessage,
			"Application Rejected",
			fmt.Sprintf("Your application %s for %s was rejected. Reason: %s", appID, app.UnitCode, comments))
	}

	event := dto.ApplicationEvent{
		Event:         eventKey,
		ApplicationID: appID,
		UnitCode:      app.UnitCode,
		Status:        string(to),
		Comments:      comments,
	}
	if student != nil {
		event.StudentEmail = student.Email
		event.StudentName = student.FullName()
	}
	publishEvent(s.log, s.producer, eventKey, event)

	return result, nil
}

func (s *applicationService) Mark(lecturerUserID uint, appID string, input dto.MarkingRequest) (*dto.MarkingResponse, error) {
	lecturer, err := s.lecturerRepo.FindByUserID(lecturerUserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, err
	}

	app, err := s.repo.FindByAppID(appID)
	if err != nil {
		return nil, err
	}
	if app.AssignedLecturerID == nil || *app.AssignedLecturerID != lecturer.ID {
		return nil, domain.ErrForbidden
	}

	if !domain.ValidMarks(input.Marks) {
		return nil, domain.Invalid("marks", "marks must be between 0 and 100")
	}

	if _, err := app.Status.Apply(domain.ActionMark); err != nil {
		return nil, err
	}

	marking := &domain.ExamMarking{
		LecturerID: lecturer.ID,
		Marks:      input.Marks,
		Comments:   input.Comments,
	}
	markFrom := []domain.ApplicationStatus{
		domain.StatusApproved,
		domain.StatusExamReceived,
		domain.StatusMarkingComplete,
	}
	if err := s.repo.UpsertMarking(app.ID, marking, markFrom); err != nil {
		return nil, err
	}

	s.notifier.Emit(app.StudentID, &app.ID, appID, domain.NotificationLecturerMessage,
		"Marking Complete",
		fmt.Sprintf("Your exam for %s (application %s) has been marked: %.2f.", app.UnitCode, appID, input.Marks))

	event := dto.ApplicationEvent{
		Event:         dto.EventApplicationMarked,
		ApplicationID: appID,
		UnitCode:      app.UnitCode,
		Status:        string(domain.StatusMarkingComplete),
	}
	if app.Student != nil {
		event.StudentEmail = app.Student.Email
		event.StudentName = app.Student.FullName()
	}
	publishEvent(s.log, s.producer, dto.EventApplicationMarked, event)

	return &dto.MarkingResponse{
		ApplicationID: appID,
		Status:        string(domain.StatusMarkingComplete),
		Marks:         marking.Marks,
		Comments:      marking.Comments,
	}, nil
}

func (s *applicationService) Advance(appID string, action domain.StatusAction) (*domain.ExamApplication, error) {
	app, err := s.repo.FindByAppID(appID)
	if err != nil {
		return nil, err
	}

	to, err := app.Status.Apply(action)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetStatus(app.ID, []domain.ApplicationStatus{app.Status}, to); err != nil {
		return nil, err
	}
	app.Status = to

	s.notifier.Emit(app.StudentID, &app.ID, appID, domain.NotificationStatusUpdate,
		"Application Update",
		fmt.Sprintf("Application %s is now %s.", appID, strings.ReplaceAll(string(to), "_", " ")))

	return app, nil
}
