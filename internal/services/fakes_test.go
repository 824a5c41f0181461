package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"exam_portal/internal/domain"
	"exam_portal/internal/dto"
	"exam_portal/internal/interfaces"
	"exam_portal/internal/repository"
)

// In-memory stand-ins for the postgres repositories, close enough in
// behavior (guarded updates, duplicate keys, not-found mapping) to drive
// the services.

type fakeUserRepo struct {
	users  map[string]*domain.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) FindByEmail(email string) (*domain.User, error) {
	if u, ok := r.users[email]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) FindByID(userID uint) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) Save(user *domain.User) error {
	if user.ID == 0 {
		r.nextID++
		user.ID = r.nextID
	}
	r.users[user.Email] = user
	return nil
}

func (r *fakeUserRepo) Count() (int64, error) { return int64(len(r.users)), nil }

type fakeStudentRepo struct {
	users    *fakeUserRepo
	students []*domain.Student
	nextID   uint
}

func (r *fakeStudentRepo) Provision(user *domain.User, student *domain.Student) error {
	for _, s := range r.students {
		if s.RegistrationNumber == student.RegistrationNumber || s.Email == student.Email {
			return errDuplicateKey
		}
	}
	if r.users != nil {
		if err := r.users.Save(user); err != nil {
			return err
		}
	}
	student.UserID = user.ID
	r.nextID++
	student.ID = r.nextID
	r.students = append(r.students, student)
	return nil
}

func (r *fakeStudentRepo) FindByUserID(userID uint) (*domain.Student, error) {
	for _, s := range r.students {
		if s.UserID == userID {
			return s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeStudentRepo) FindByID(id uint) (*domain.Student, error) {
	for _, s := range r.students {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeStudentRepo) List(q repository.StudentQuery) ([]domain.Student, int64, error) {
	out := make([]domain.Student, 0, len(r.students))
	for _, s := range r.students {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *fakeStudentRepo) Count() (int64, error) { return int64(len(r.students)), nil }

func (r *fakeStudentRepo) userByID(userID uint) (string, *domain.User) {
	if r.users == nil {
		return "", nil
	}
	for email, u := range r.users.users {
		if u.ID == userID {
			return email, u
		}
	}
	return "", nil
}

func (r *fakeStudentRepo) UpdateContact(student *domain.Student) error {
	for i, s := range r.students {
		if s.ID == student.ID {
			if email, u := r.userByID(s.UserID); u != nil {
				delete(r.users.users, email)
				u.Email = student.Email
				u.Phone = student.Phone
				r.users.users[u.Email] = u
			}
			r.students[i] = student
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeStudentRepo) Delete(student *domain.Student) error {
	for i, s := range r.students {
		if s.ID == student.ID {
			if email, u := r.userByID(s.UserID); u != nil {
				delete(r.users.users, email)
			}
			r.students = append(r.students[:i], r.students[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeOfficerRepo struct {
	users    *fakeUserRepo
	officers []*domain.ExamOfficer
	nextID   uint
}

func (r *fakeOfficerRepo) Provision(user *domain.User, officer *domain.ExamOfficer) error {
	if r.users != nil {
		if err := r.users.Save(user); err != nil {
			return err
		}
	}
	officer.UserID = user.ID
	r.nextID++
	officer.ID = r.nextID
	r.officers = append(r.officers, officer)
	return nil
}

func (r *fakeOfficerRepo) FindByUserID(userID uint) (*domain.ExamOfficer, error) {
	for _, o := range r.officers {
		if o.UserID == userID {
			return o, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeOfficerRepo) List(q repository.OfficerQuery) ([]domain.ExamOfficer, int64, error) {
	out := make([]domain.ExamOfficer, 0, len(r.officers))
	for _, o := range r.officers {
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *fakeOfficerRepo) Count() (int64, error) { return int64(len(r.officers)), nil }

type fakeLecturerRepo struct {
	users     *fakeUserRepo
	lecturers []*domain.Lecturer
	nextID    uint
}

func (r *fakeLecturerRepo) Provision(user *domain.User, lecturer *domain.Lecturer) error {
	if r.users != nil {
		if err := r.users.Save(user); err != nil {
			return err
		}
	}
	lecturer.UserID = user.ID
	r.nextID++
	lecturer.ID = r.nextID
	r.lecturers = append(r.lecturers, lecturer)
	return nil
}

func (r *fakeLecturerRepo) FindByUserID(userID uint) (*domain.Lecturer, error) {
	for _, l := range r.lecturers {
		if l.UserID == userID {
			return l, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeLecturerRepo) FindByID(id uint) (*domain.Lecturer, error) {
	for _, l := range r.lecturers {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeLecturerRepo) List(q repository.LecturerQuery) ([]domain.Lecturer, int64, error) {
	out := make([]domain.Lecturer, 0, len(r.lecturers))
	for _, l := range r.lecturers {
		out = append(out, *l)
	}
	return out, int64(len(out)), nil
}

func (r *fakeLecturerRepo) Count() (int64, error) { return int64(len(r.lecturers)), nil }

type fakeAssignmentRepo struct {
	assignments []*domain.UnitAssignment
	nextID      uint
}

func (r *fakeAssignmentRepo) Create(a *domain.UnitAssignment) error {
	for _, existing := range r.assignments {
		if existing.LecturerID == a.LecturerID && existing.UnitCode == a.UnitCode &&
			existing.Year == a.Year && existing.Semester == a.Semester {
			return errDuplicateKey
		}
	}
	r.nextID++
	a.ID = r.nextID
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	r.assignments = append(r.assignments, a)
	return nil
}

func (r *fakeAssignmentRepo) FindActiveByUnitCode(unitCode string) (*domain.UnitAssignment, error) {
	var best *domain.UnitAssignment
	for _, a := range r.assignments {
		if !a.Active || a.UnitCode != unitCode {
			continue
		}
		if best == nil || a.CreatedAt.Before(best.CreatedAt) ||
			(a.CreatedAt.Equal(best.CreatedAt) && a.ID < best.ID) {
			best = a
		}
	}
	if best == nil {
		return nil, domain.ErrNotFound
	}
	return best, nil
}

func (r *fakeAssignmentRepo) ListByLecturer(lecturerID uint) ([]domain.UnitAssignment, error) {
	var out []domain.UnitAssignment
	for _, a := range r.assignments {
		if a.LecturerID == lecturerID {
			out = append(out, *a)
		}
	}
	return out, nil
}

type fakeAppRepo struct {
	apps     []*domain.ExamApplication
	reviews  []*domain.ApplicationReview
	markings map[uint]*domain.ExamMarking
	ocr      map[uint]*domain.OCRResult
	nextID   uint
}

func newFakeAppRepo() *fakeAppRepo {
	return &fakeAppRepo{
		markings: map[uint]*domain.ExamMarking{},
		ocr:      map[uint]*domain.OCRResult{},
	}
}

func (r *fakeAppRepo) Create(app *domain.ExamApplication) error {
	r.nextID++
	app.ID = r.nextID
	if app.SubmittedAt.IsZero() {
		app.SubmittedAt = time.Now()
	}
	r.apps = append(r.apps, app)
	return nil
}

func (r *fakeAppRepo) FindByAppID(appID string) (*domain.ExamApplication, error) {
	for _, app := range r.apps {
		if app.ApplicationID == appID {
			return app, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeAppRepo) byID(id uint) *domain.ExamApplication {
	for _, app := range r.apps {
		if app.ID == id {
			return app
		}
	}
	return nil
}

func statusIn(s domain.ApplicationStatus, set []domain.ApplicationStatus) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func (r *fakeAppRepo) ListByStudent(studentID uint, q repository.ApplicationQuery) ([]domain.ExamApplication, int64, error) {
	var out []domain.ExamApplication
	for _, app := range r.apps {
		if app.StudentID == studentID {
			out = append(out, *app)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeAppRepo) ListByLecturer(lecturerID uint, q repository.ApplicationQuery) ([]domain.ExamApplication, int64, error) {
	var out []domain.ExamApplication
	for _, app := range r.apps {
		if app.AssignedLecturerID != nil && *app.AssignedLecturerID == lecturerID {
			out = append(out, *app)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeAppRepo) List(q repository.ApplicationQuery) ([]domain.ExamApplication, int64, error) {
	var out []domain.ExamApplication
	for _, app := range r.apps {
		if len(q.Statuses) > 0 && !statusIn(app.Status, q.Statuses) {
			continue
		}
		out = append(out, *app)
	}
	return out, int64(len(out)), nil
}

func (r *fakeAppRepo) SubmitReview(
	appRecID uint,
	review *domain.ApplicationReview,
	from []domain.ApplicationStatus,
	to domain.ApplicationStatus,
	assignedLecturerID *uint,
) error {
	app := r.byID(appRecID)
	if app == nil || !statusIn(app.Status, from) {
		return domain.ErrConflict
	}
	app.Status = to
	if assignedLecturerID != nil {
		app.AssignedLecturerID = assignedLecturerID
	}
	review.ApplicationRecID = appRecID
	review.ReviewedAt = time.Now()
	r.reviews = append(r.reviews, review)
	return nil
}

func (r *fakeAppRepo) UpsertMarking(appRecID uint, marking *domain.ExamMarking, from []domain.ApplicationStatus) error {
	app := r.byID(appRecID)
	if app == nil || !statusIn(app.Status, from) {
		return domain.ErrConflict
	}
	app.Status = domain.StatusMarkingComplete

	if existing, ok := r.markings[appRecID]; ok {
		existing.Marks = marking.Marks
		existing.Comments = marking.Comments
		*marking = *existing
		return nil
	}
	marking.ApplicationRecID = appRecID
	marking.ID = uint(len(r.markings) + 1)
	r.markings[appRecID] = marking
	return nil
}

func (r *fakeAppRepo) SetStatus(appRecID uint, from []domain.ApplicationStatus, to domain.ApplicationStatus) error {
	app := r.byID(appRecID)
	if app == nil || !statusIn(app.Status, from) {
		return domain.ErrConflict
	}
	app.Status = to
	return nil
}

func (r *fakeAppRepo) AttachOCRResult(res *domain.OCRResult, autoVerified bool) error {
	r.ocr[res.ApplicationRecID] = res
	if app := r.byID(res.ApplicationRecID); app != nil {
		app.AutoVerified = autoVerified
	}
	return nil
}

func (r *fakeAppRepo) Count() (int64, error) { return int64(len(r.apps)), nil }

func (r *fakeAppRepo) CountByStatus() (map[string]int64, error) {
	out := map[string]int64{}
	for _, app := range r.apps {
		out[string(app.Status)]++
	}
	return out, nil
}

func (r *fakeAppRepo) CountByExamType() (map[string]int64, error) {
	out := map[string]int64{}
	for _, app := range r.apps {
		out[string(app.ExamType)]++
	}
	return out, nil
}

type emittedNotification struct {
	StudentID uint
	AppID     string
	Type      domain.NotificationType
	Title     string
	Message   string
}

type fakeNotifier struct {
	emitted []emittedNotification
}

func (n *fakeNotifier) Emit(studentID uint, appRecID *uint, appID string, typ domain.NotificationType, title, message string) {
	n.emitted = append(n.emitted, emittedNotification{
		StudentID: studentID,
		AppID:     appID,
		Type:      typ,
		Title:     title,
		Message:   message,
	})
}

func (n *fakeNotifier) List(studentUserID uint, limit, offset int) (*dto.NotificationList, error) {
	return &dto.NotificationList{}, nil
}

func (n *fakeNotifier) MarkRead(studentUserID uint, input dto.MarkReadRequest) error {
	return nil
}

type fakeUploader struct {
	uploads []string
	err     error
}

func (u *fakeUploader) UploadBytes(ctx context.Context, folder, filename string, b []byte) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	url := fmt.Sprintf("https://cdn.example.com/%s/%s", folder, filename)
	u.uploads = append(u.uploads, url)
	return url, nil
}

type fakeScanner struct {
	analysis *interfaces.DocumentAnalysis
	err      error
	calls    int
}

func (s *fakeScanner) Analyze(ctx context.Context, filename, contentType string, b []byte) (*interfaces.DocumentAnalysis, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.analysis, nil
}

type publishedEvent struct {
	Key   string
	Value string
}

type fakeProducer struct {
	events []publishedEvent
}

func (p *fakeProducer) PublishMessage(key, value []byte) error {
	p.events = append(p.events, publishedEvent{Key: string(key), Value: string(value)})
	return nil
}

// errDuplicateKey mimics a postgres unique violation the way the pgx
// driver surfaces it.
var errDuplicateKey = fmt.Errorf("create: %w", &pgconn.PgError{
	Code:    "23505",
	Message: "duplicate key value violates unique constraint",
})
