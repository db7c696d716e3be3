package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/medrec/medical-records-api/internal/core/domain"
	"github.com/medrec/medical-records-api/internal/core/ports"
)

type stubAuthService struct {
	registerUserFn  func(ctx context.Context, username, password string, patient ports.PatientInput) (*domain.User, string, error)
	registerAdminFn func(ctx context.Context, username, password string) (*domain.User, string, error)
	loginFn         func(ctx context.Context, username, password string) (*domain.User, string, error)
	verifyFn        func(token string) (*domain.AuthClaims, error)
	getUserFn       func(ctx context.Context, id int64) (*domain.User, error)
}

func (s *stubAuthService) RegisterUser(ctx context.Context, username, password string, patient ports.PatientInput) (*domain.User, string, error) {
	return s.registerUserFn(ctx, username, password, patient)
}

func (s *stubAuthService) RegisterAdmin(ctx context.Context, username, password string) (*domain.User, string, error) {
	return s.registerAdminFn(ctx, username, password)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) VerifyToken(token string) (*domain.AuthClaims, error) {
	return s.verifyFn(token)
}

func (s *stubAuthService) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.getUserFn(ctx, id)
}

type noopAudit struct{}

func (noopAudit) Enqueue(ports.AuditEvent) {}

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register_Success(t *testing.T) {
	patientID := int64(12)
	stub := &stubAuthService{
		registerUserFn: func(ctx context.Context, username, password string, patient ports.PatientInput) (*domain.User, string, error) {
			if username != "alice" || patient.Name != "Alice Moore" {
				t.Fatalf("unexpected args: %s %+v", username, patient)
			}
			return &domain.User{ID: 5, Username: username, Role: domain.RoleUser, PatientID: &patientID}, "token123", nil
		},
	}
	handler := NewAuthHandler(stub, noopAudit{})

	body := `{"user":{"username":"alice","password":"supersecret"},"patient":{"name":"Alice Moore","age":34,"address":"12 Elm St","phoneNumber":"555-0142"}}`
	c, rec := newTestContext(t, http.MethodPost, "/auth/register", body)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token, got %v", resp["token"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["username"] != "alice" || user["role"] != domain.RoleUser {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatal("password hash must not be serialised")
	}
}

func TestAuthHandler_Register_UserExists(t *testing.T) {
	stub := &stubAuthService{
		registerUserFn: func(ctx context.Context, username, password string, patient ports.PatientInput) (*domain.User, string, error) {
			return nil, "", domain.ErrUserExists
		},
	}
	handler := NewAuthHandler(stub, noopAudit{})

	body := `{"user":{"username":"bob","password":"supersecret"},"patient":{"name":"Bob","age":60,"address":"1 Oak Ave","phoneNumber":"555-0101"}}`
	c, _ := newTestContext(t, http.MethodPost, "/auth/register", body)

	err := handler.Register(c)
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Register_ShortPassword(t *testing.T) {
	stub := &stubAuthService{
		registerUserFn: func(ctx context.Context, username, password string, patient ports.PatientInput) (*domain.User, string, error) {
			t.Fatal("should not be called")
			return nil, "", nil
		},
	}
	handler := NewAuthHandler(stub, noopAudit{})

	body := `{"user":{"username":"bob","password":"short"},"patient":{"name":"Bob","age":60,"address":"1 Oak Ave","phoneNumber":"555-0101"}}`
	c, _ := newTestContext(t, http.MethodPost, "/auth/register", body)

	err := handler.Register(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		registerUserFn: func(ctx context.Context, username, password string, patient ports.PatientInput) (*domain.User, string, error) {
			t.Fatal("should not be called")
			return nil, "", nil
		},
	}
	handler := NewAuthHandler(stub, noopAudit{})

	c, _ := newTestContext(t, http.MethodPost, "/auth/register", "not-json")

	err := handler.Register(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_RegisterAdmin_Success(t *testing.T) {
	stub := &stubAuthService{
		registerAdminFn: func(ctx context.Context, username, password string) (*domain.User, string, error) {
			return &domain.User{ID: 1, Username: username, Role: domain.RoleAdmin}, "admintoken", nil
		},
	}
	handler := NewAuthHandler(stub, noopAudit{})

	c, rec := newTestContext(t, http.MethodPost, "/auth/register-admin", `{"username":"root","password":"supersecret"}`)

	if err := handler.RegisterAdmin(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	user := resp["user"].(map[string]any)
	if user["role"] != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %v", user["role"])
	}
	if user["patientId"] != nil {
		t.Fatalf("admin must have no patient binding, got %v", user["patient_id"])
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (*domain.User, string, error) {
			if username != "alice" || password != "supersecret" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return &domain.User{ID: 5, Username: "alice", Role: domain.RoleUser}, "token123", nil
		},
	}
	handler := NewAuthHandler(stub, noopAudit{})

	c, rec := newTestContext(t, http.MethodPost, "/auth/login", `{"username":"alice","password":"supersecret"}`)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token, got %v", resp["token"])
	}
}

func TestAuthHandler_NilAuditSink(t *testing.T) {
	patientID := int64(12)
	stub := &stubAuthService{
		registerUserFn: func(ctx context.Context, username, password string, patient ports.PatientInput) (*domain.User, string, error) {
			return &domain.User{ID: 5, Username: username, Role: domain.RoleUser, PatientID: &patientID}, "token123", nil
		},
		loginFn: func(ctx context.Context, username, password string) (*domain.User, string, error) {
			return &domain.User{ID: 5, Username: username, Role: domain.RoleUser, PatientID: &patientID}, "token123", nil
		},
	}
	handler := NewAuthHandler(stub, nil)

	body := `{"user":{"username":"alice","password":"supersecret"},"patient":{"name":"Alice Moore","age":34,"address":"12 Elm St","phoneNumber":"555-0142"}}`
	c, rec := newTestContext(t, http.MethodPost, "/auth/register", body)
	if err := handler.Register(c); err != nil {
		t.Fatalf("register error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	c, rec = newTestContext(t, http.MethodPost, "/auth/login", `{"username":"alice","password":"supersecret"}`)
	if err := handler.Login(c); err != nil {
		t.Fatalf("login error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (*domain.User, string, error) {
			return nil, "", domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub, noopAudit{})

	c, _ := newTestContext(t, http.MethodPost, "/auth/login", `{"username":"alice","password":"bad"}`)

	err := handler.Login(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Profile_Success(t *testing.T) {
	patientID := int64(12)
	stub := &stubAuthService{
		getUserFn: func(ctx context.Context, id int64) (*domain.User, error) {
			if id != 5 {
				t.Fatalf("unexpected id: %d", id)
			}
			return &domain.User{
				ID:        5,
				Username:  "alice",
				Role:      domain.RoleUser,
				PatientID: &patientID,
				Patient:   &domain.Patient{ID: patientID, Name: "Alice Moore"},
			}, nil
		},
	}
	handler := NewAuthHandler(stub, noopAudit{})

	c, rec := newTestContext(t, http.MethodGet, "/auth/profile", "")
	c.Set("auth_claims", &domain.AuthClaims{UserID: 5, Username: "alice", Role: domain.RoleUser})

	if err := handler.Profile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	patient, ok := resp["patient"].(map[string]any)
	if !ok || patient["name"] != "Alice Moore" {
		t.Fatalf("expected embedded patient, got %+v", resp)
	}
}

func TestAuthHandler_Profile_MissingClaims(t *testing.T) {
	stub := &stubAuthService{
		getUserFn: func(ctx context.Context, id int64) (*domain.User, error) {
			t.Fatal("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub, noopAudit{})

	c, _ := newTestContext(t, http.MethodGet, "/auth/profile", "")

	err := handler.Profile(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
