package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exam_portal/internal/domain"
	"exam_portal/internal/dto"
	"exam_portal/internal/helper"
	"exam_portal/internal/repository"
	"exam_portal/internal/services"
)

// Stub services so the round trips exercise routing, auth middleware and
// the domain-error-to-status mapping without a database behind them.

type stubAccounts struct {
	services.AccountService

	loginRes *dto.LoginResponse
	loginErr error
}

func (s *stubAccounts) Login(input dto.LoginRequest) (*dto.LoginResponse, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return s.loginRes, nil
}

type stubApplications struct {
	services.ApplicationService

	submitApp *domain.ExamApplication
	submitErr error
	reviewRes *dto.ReviewResult
	reviewErr error
}

func (s *stubApplications) Submit(ctx context.Context, studentUserID uint, input dto.ApplicationSubmit, doc dto.DocumentUpload) (*domain.ExamApplication, error) {
	if s.submitErr != nil {
		return nil, s.submitErr
	}
	return s.submitApp, nil
}

func (s *stubApplications) Review(officerUserID uint, appID string, input dto.ReviewRequest) (*dto.ReviewResult, error) {
	if s.reviewErr != nil {
		return nil, s.reviewErr
	}
	return s.reviewRes, nil
}

func (s *stubApplications) ListForStudent(studentUserID uint, q repository.ApplicationQuery) ([]domain.ExamApplication, int64, error) {
	return nil, 0, nil
}

func newTestApp(accounts services.AccountService, applications services.ApplicationService) *fiber.App {
	app := fiber.New()
	api := app.Group("/api")
	auth := helper.SetupAuth("handler-test-secret")
	NewAuthHandler(accounts, auth).SetupRoutes(api)
	NewApplicationHandler(applications, auth).SetupRoutes(api)
	return app
}

func bearerToken(t *testing.T, userID uint, email, role string) string {
	t.Helper()
	token, err := helper.SetupAuth("handler-test-secret").GenerateToken(userID, email, role)
	require.NoError(t, err)
	return "Bearer " + token
}

func jsonRequest(method, target string, body any) *http.Request {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(method, target, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	out := map[string]any{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestLoginRoute(t *testing.T) {
	app := newTestApp(&stubAccounts{
		loginRes: &dto.LoginResponse{Token: "signed-token", Role: "student"},
	}, &stubApplications{})

	resp, err := app.Test(jsonRequest("POST", "/api/auth/login", dto.LoginRequest{
		Email:    "amina@students.uni.ac.ke",
		Password: "s3cret-pass",
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "signed-token", data["token"])
	assert.Equal(t, "student", data["role"])

	// the token also lands in the session cookie
	var cookie string
	for _, c := range resp.Cookies() {
		if c.Name == "access_token" {
			cookie = c.Value
		}
	}
	assert.Equal(t, "signed-token", cookie)
}

func TestLoginRouteBadCredentials(t *testing.T) {
	app := newTestApp(&stubAccounts{loginErr: domain.ErrUnauthorized}, &stubApplications{})

	resp, err := app.Test(jsonRequest("POST", "/api/auth/login", dto.LoginRequest{
		Email:    "amina@students.uni.ac.ke",
		Password: "nope",
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestLoginRouteMissingFields(t *testing.T) {
	app := newTestApp(&stubAccounts{}, &stubApplications{})

	resp, err := app.Test(jsonRequest("POST", "/api/auth/login", dto.LoginRequest{
		Email: "amina@students.uni.ac.ke",
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	fields, ok := body["fields"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, fields, "Password")
}

func submitRequest(t *testing.T) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for field, value := range map[string]string{
		"year_of_study":        "3",
		"exam_type":            "resit",
		"unit_name":            "Data Structures",
		"unit_code":            "CSC201",
		"year_taken":           "2025",
		"semester_taken":       "1",
		"declaration_accepted": "true",
	} {
		require.NoError(t, w.WriteField(field, value))
	}
	fw, err := w.CreateFormFile("document", "result-slip.pdf")
	require.NoError(t, err)
	_, err = fw.Write([]byte("%PDF-1.4 result slip"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/api/student/applications", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestSubmitRoute(t *testing.T) {
	app := newTestApp(&stubAccounts{}, &stubApplications{
		submitApp: &domain.ExamApplication{
			ApplicationID: "APP2026c0ffee42",
			Status:        domain.StatusSubmitted,
			YearOfStudy:   "3",
			ExamType:      domain.ExamTypeResit,
			UnitName:      "Data Structures",
			UnitCode:      "CSC201",
			YearTaken:     2025,
			SemesterTaken: "1",
			SubmittedAt:   time.Now(),
		},
	})

	req := submitRequest(t)
	req.Header.Set("Authorization", bearerToken(t, 10, "amina@students.uni.ac.ke", "student"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "APP2026c0ffee42", data["application_id"])
	assert.Equal(t, "submitted", data["status"])
}

func TestSubmitRouteRequiresAuth(t *testing.T) {
	app := newTestApp(&stubAccounts{}, &stubApplications{})

	resp, err := app.Test(submitRequest(t))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestSubmitRouteRejectsNonStudents(t *testing.T) {
	app := newTestApp(&stubAccounts{}, &stubApplications{})

	req := submitRequest(t)
	req.Header.Set("Authorization", bearerToken(t, 20, "officer@uni.ac.ke", "officer"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestSubmitRouteRequiresDocument(t *testing.T) {
	app := newTestApp(&stubAccounts{}, &stubApplications{})

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("year_of_study", "3"))
	require.NoError(t, w.WriteField("exam_type", "resit"))
	require.NoError(t, w.WriteField("unit_name", "Data Structures"))
	require.NoError(t, w.WriteField("unit_code", "CSC201"))
	require.NoError(t, w.WriteField("year_taken", "2025"))
	require.NoError(t, w.WriteField("semester_taken", "1"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/api/student/applications", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", bearerToken(t, 10, "amina@students.uni.ac.ke", "student"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestReviewRoute(t *testing.T) {
	lecturer := "Grace Wanjiru"
	app := newTestApp(&stubAccounts{}, &stubApplications{
		reviewRes: &dto.ReviewResult{
			ApplicationID:    "APP2026c0ffee42",
			Status:           "approved",
			Decision:         "approved",
			AssignedLecturer: &lecturer,
		},
	})

	req := jsonRequest("POST", "/api/officer/applications/APP2026c0ffee42/review",
		dto.ReviewRequest{Decision: "approved"})
	req.Header.Set("Authorization", bearerToken(t, 20, "officer@uni.ac.ke", "officer"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "approved", data["status"])
	assert.Equal(t, "Grace Wanjiru", data["assigned_lecturer"])
}

func TestReviewRouteErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		svcErr error
		want   int
	}{
		{
			name:   "rejection without comments",
			svcErr: domain.Invalid("comments", "comments are required when rejecting"),
			want:   fiber.StatusBadRequest,
		},
		{
			name:   "already decided",
			svcErr: &domain.InvalidTransitionError{From: domain.StatusRejected, Action: domain.ActionApprove},
			want:   fiber.StatusConflict,
		},
		{
			name:   "concurrent update",
			svcErr: domain.ErrConflict,
			want:   fiber.StatusConflict,
		},
		{
			name:   "unknown application",
			svcErr: domain.ErrNotFound,
			want:   fiber.StatusNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(&stubAccounts{}, &stubApplications{reviewErr: tc.svcErr})

			req := jsonRequest("POST", "/api/officer/applications/APP2026c0ffee42/review",
				dto.ReviewRequest{Decision: "rejected", Comments: "missing result slip"})
			req.Header.Set("Authorization", bearerToken(t, 20, "officer@uni.ac.ke", "officer"))

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.StatusCode)

			body := decodeBody(t, resp)
			msg, ok := body["error"].(string)
			require.True(t, ok)
			assert.NotEmpty(t, strings.TrimSpace(msg))
		})
	}
}

func TestReviewRouteIsOfficerOnly(t *testing.T) {
	app := newTestApp(&stubAccounts{}, &stubApplications{})

	req := jsonRequest("POST", "/api/officer/applications/APP2026c0ffee42/review",
		dto.ReviewRequest{Decision: "approved"})
	req.Header.Set("Authorization", bearerToken(t, 10, "amina@students.uni.ac.ke", "student"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
