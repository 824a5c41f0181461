package services

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"exam_portal/internal/domain"
	"exam_portal/internal/dto"
	"exam_portal/internal/helper"
	"exam_portal/internal/interfaces"
	"exam_portal/internal/logger"
	"exam_portal/internal/repository"
)

type AccountService interface {
	Login(input dto.LoginRequest) (*dto.LoginResponse, error)
	// Me resolves the caller's role profile; exactly one of the profile
	// fields in the result is populated.
	Me(claims dto.AuthClaims) (*dto.ActorProfile, error)

	ProvisionStudent(input dto.StudentCreate) (*domain.Student, error)
	ProvisionOfficer(input dto.OfficerCreate) (*domain.ExamOfficer, error)
	ProvisionLecturer(input dto.LecturerCreate) (*domain.Lecturer, error)

	// UpdateStudent changes a student's contact fields; registration number
	// and names are fixed at provisioning.
	UpdateStudent(studentID uint, input dto.StudentUpdate) (*domain.Student, error)
	// DeleteStudent removes the student and their login account. Students
	// with exam applications on record cannot be removed.
	DeleteStudent(studentID uint) error

	ListStudents(q repository.StudentQuery) ([]domain.Student, int64, error)
	ListOfficers(q repository.OfficerQuery) ([]domain.ExamOfficer, int64, error)
	ListLecturers(q repository.LecturerQuery) ([]domain.Lecturer, int64, error)

	CreateUnitAssignment(input dto.UnitAssignmentCreate) (*domain.UnitAssignment, error)
	LecturerAssignments(lecturerUserID uint) ([]domain.UnitAssignment, error)

	Dashboard() (*dto.DashboardStats, error)

	// EnsureAdmin creates the bootstrap admin account if no user with the
	// given email exists yet. Called once at startup.
	EnsureAdmin(email, password string) error
}

type accountService struct {
	userRepo       repository.UserRepository
	studentRepo    repository.StudentRepository
	officerRepo    repository.OfficerRepository
	lecturerRepo   repository.LecturerRepository
	assignmentRepo repository.AssignmentRepository
	appRepo        repository.ApplicationRepository
	auth           helper.Auth
	notifier       NotificationService
	producer       interfaces.ProducerHandler
	log            zerolog.Logger
}

func NewAccountService(
	userRepo repository.UserRepository,
	studentRepo repository.StudentRepository,
	officerRepo repository.OfficerRepository,
	lecturerRepo repository.LecturerRepository,
	assignmentRepo repository.AssignmentRepository,
	appRepo repository.ApplicationRepository,
	auth helper.Auth,
	notifier NotificationService,
	producer interfaces.ProducerHandler,
) AccountService {
	return &accountService{
		userRepo:       userRepo,
		studentRepo:    studentRepo,
		officerRepo:    officerRepo,
		lecturerRepo:   lecturerRepo,
		assignmentRepo: assignmentRepo,
		appRepo:        appRepo,
		auth:           auth,
		notifier:       notifier,
		producer:       producer,
		log:            logger.Get(),
	}
}

// publishEvent serializes and publishes a broker event. The broker is
// optional infrastructure: a nil producer or a publish failure is logged
// and never propagated to the caller.
func publishEvent(log zerolog.Logger, producer interfaces.ProducerHandler, key string, payload any) {
	if producer == nil {
		return
	}
	b, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("event", key).Msg("event marshal failed")
		return
	}
	if err := producer.PublishMessage([]byte(key), b); err != nil {
		log.Error().Err(err).Str("event", key).Msg("event publish failed")
	}
}

func (s *accountService) Login(input dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if !user.Active {
		return nil, domain.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	token, err := s.auth.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{Token: token, Role: string(user.Role)}, nil
}

func (s *accountService) Me(claims dto.AuthClaims) (*dto.ActorProfile, error) {
	out := &dto.ActorProfile{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
	}

	switch domain.Role(claims.Role) {
	case domain.RoleStudent:
		student, err := s.studentRepo.FindByUserID(claims.UserID)
		if err != nil {
			return nil, err
		}
		out.Student = student
	case domain.RoleOfficer:
		officer, err := s.officerRepo.FindByUserID(claims.UserID)
		if err != nil {
			return nil, err
		}
		out.Officer = officer
	case domain.RoleLecturer:
		lecturer, err := s.lecturerRepo.FindByUserID(claims.UserID)
		if err != nil {
			return nil, err
		}
		out.Lecturer = lecturer
	case domain.RoleAdmin:
		// admins carry no profile beyond the account
	default:
		return nil, domain.ErrForbidden
	}

	return out, nil
}

func (s *accountService) newAccount(email, password, phone string, role domain.Role) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, domain.Invalid("email", "an account with this email already exists")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Phone:        phone,
		Active:       true,
	}, nil
}

func (s *accountService) ProvisionStudent(input dto.StudentCreate) (*domain.Student, error) {
	user, err := s.newAccount(input.Email, input.Password, input.Phone, domain.RoleStudent)
	if err != nil {
		return nil, err
	}

	student := &domain.Student{
		RegistrationNumber: strings.ToUpper(strings.TrimSpace(input.RegistrationNumber)),
		FirstName:          input.FirstName,
		LastName:           input.LastName,
		Email:              user.Email,
		Phone:              input.Phone,
		School:             input.School,
		Program:            input.Program,
	}

	if err := s.studentRepo.Provision(user, student); err != nil {
		if helper.IsDuplicateKey(err) {
			return nil, domain.Invalid("registration_number", "email or registration number already in use")
		}
		return nil, err
	}

	s.notifier.Emit(student.ID, nil, "", domain.NotificationGeneral,
		"Welcome to the Exam Portal",
		"Your account is ready, "+student.FullName()+". You can now submit exam applications.")

	publishEvent(s.log, s.producer, dto.EventStudentWelcome, dto.WelcomeEvent{
		Event:        dto.EventStudentWelcome,
		StudentEmail: student.Email,
		StudentName:  student.FullName(),
	})

	return student, nil
}

func (s *accountService) ProvisionOfficer(input dto.OfficerCreate) (*domain.ExamOfficer, error) {
	user, err := s.newAccount(input.Email, input.Password, input.Phone, domain.RoleOfficer)
	if err != nil {
		return nil, err
	}

	officer := &domain.ExamOfficer{
		OfficerID:  strings.ToUpper(strings.TrimSpace(input.OfficerID)),
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Email:      user.Email,
		Phone:      input.Phone,
		Department: input.Department,
	}

	if err := s.officerRepo.Provision(user, officer); err != nil {
		if helper.IsDuplicateKey(err) {
			return nil, domain.Invalid("officer_id", "email or officer id already in use")
		}
		return nil, err
	}

	return officer, nil
}

func (s *accountService) ProvisionLecturer(input dto.LecturerCreate) (*domain.Lecturer, error) {
	user, err := s.newAccount(input.Email, input.Password, input.Phone, domain.RoleLecturer)
	if err != nil {
		return nil, err
	}

	lecturer := &domain.Lecturer{
		LecturerID: strings.ToUpper(strings.TrimSpace(input.LecturerID)),
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Email:      user.Email,
		Phone:      input.Phone,
		Department: input.Department,
	}

	if err := s.lecturerRepo.Provision(user, lecturer); err != nil {
		if helper.IsDuplicateKey(err) {
			return nil, domain.Invalid("lecturer_id", "email or lecturer id already in use")
		}
		return nil, err
	}

	return lecturer, nil
}

func (s *accountService) UpdateStudent(studentID uint, input dto.StudentUpdate) (*domain.Student, error) {
	student, err := s.studentRepo.FindByID(studentID)
	if err != nil {
		return nil, err
	}

	if input.Email != "" {
		email := strings.ToLower(strings.TrimSpace(input.Email))
		if email != student.Email {
			if _, err := s.userRepo.FindByEmail(email); err == nil {
				return nil, domain.Invalid("email", "an account with this email already exists")
			} else if !errors.Is(err, domain.ErrNotFound) {
				return nil, err
			}
			student.Email = email
		}
	}
	if input.Phone != "" {
		student.Phone = input.Phone
	}
	if input.School != "" {
		student.School = input.School
	}
	if input.Program != "" {
		student.Program = input.Program
	}

	if err := s.studentRepo.UpdateContact(student); err != nil {
		if helper.IsDuplicateKey(err) {
			return nil, domain.Invalid("email", "an account with this email already exists")
		}
		return nil, err
	}

	return student, nil
}

func (s *accountService) DeleteStudent(studentID uint) error {
	student, err := s.studentRepo.FindByID(studentID)
	if err != nil {
		return err
	}

	_, total, err := s.appRepo.ListByStudent(student.ID, repository.ApplicationQuery{Limit: 1})
	if err != nil {
		return err
	}
	if total > 0 {
		return domain.Invalid("student", "student has exam applications on record and cannot be removed")
	}

	if err := s.studentRepo.Delete(student); err != nil {
		return err
	}

	s.log.Info().Uint("student_id", student.ID).Str("email", student.Email).Msg("student account removed")
	return nil
}

func (s *accountService) ListStudents(q repository.StudentQuery) ([]domain.Student, int64, error) {
	return s.studentRepo.List(q)
}

func (s *accountService) ListOfficers(q repository.OfficerQuery) ([]domain.ExamOfficer, int64, error) {
	return s.officerRepo.List(q)
}

func (s *accountService) ListLecturers(q repository.LecturerQuery) ([]domain.Lecturer, int64, error) {
	return s.lecturerRepo.List(q)
}

func (s *accountService) CreateUnitAssignment(input dto.UnitAssignmentCreate) (*domain.UnitAssignment, error) {
	lecturer, err := s.lecturerRepo.FindByID(input.LecturerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Invalid("lecturer_id", "no such lecturer")
		}
		return nil, err
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	assignment := &domain.UnitAssignment{
		LecturerID: lecturer.ID,
		UnitCode:   strings.ToUpper(strings.TrimSpace(input.UnitCode)),
		UnitName:   input.UnitName,
		Program:    input.Program,
		Year:       input.Year,
		Semester:   input.Semester,
		Active:     active,
	}

	if err := s.assignmentRepo.Create(assignment); err != nil {
		if helper.IsDuplicateKey(err) {
			return nil, domain.Invalid("unit_code", "lecturer is already assigned this unit for the term")
		}
		return nil, err
	}

	assignment.Lecturer = lecturer
	return assignment, nil
}

func (s *accountService) LecturerAssignments(lecturerUserID uint) ([]domain.UnitAssignment, error) {
	lecturer, err := s.lecturerRepo.FindByUserID(lecturerUserID)
	if err != nil {
		return nil, err
	}
	return s.assignmentRepo.ListByLecturer(lecturer.ID)
}

func (s *accountService) Dashboard() (*dto.DashboardStats, error) {
	stats := &dto.DashboardStats{}

	var err error
	if stats.TotalStudents, err = s.studentRepo.Count(); err != nil {
		return nil, err
	}
	if stats.TotalOfficers, err = s.officerRepo.Count(); err != nil {
		return nil, err
	}
	if stats.TotalLecturers, err = s.lecturerRepo.Count(); err != nil {
		return nil, err
	}
	if stats.TotalApplications, err = s.appRepo.Count(); err != nil {
		return nil, err
	}
	if stats.ByStatus, err = s.appRepo.CountByStatus(); err != nil {
		return nil, err
	}
	if stats.ByExamType, err = s.appRepo.CountByExamType(); err != nil {
		return nil, err
	}

	return stats, nil
}

func (s *accountService) EnsureAdmin(email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		Active:       true,
	}
	if err := s.userRepo.Save(admin); err != nil {
		return err
	}

	s.log.Info().Str("email", email).Msg("bootstrap admin account created")
	return nil
}
