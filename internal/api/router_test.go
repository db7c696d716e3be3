package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/medrec/medical-records-api/internal/core/domain"
	"github.com/medrec/medical-records-api/internal/core/ports"
	"github.com/medrec/medical-records-api/internal/core/service"
)

type memUserRepo struct {
	byName map[string]*domain.User
	byID   map[int64]*domain.User
	nextID int64
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byName: map[string]*domain.User{}, byID: map[int64]*domain.User{}}
}

func (r *memUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.byName[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) FindByID(_ context.Context, id int64, _ bool) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) CreateUser(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.byName[user.Username]; ok {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	cp := *user
	cp.ID = r.nextID
	r.byName[cp.Username] = &cp
	r.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memUserRepo) CreateUserWithPatient(_ context.Context, user *domain.User, patient *domain.Patient) (*domain.User, error) {
	if _, ok := r.byName[user.Username]; ok {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	p := *patient
	p.ID = r.nextID
	r.nextID++
	cp := *user
	cp.ID = r.nextID
	cp.PatientID = &p.ID
	cp.Patient = &p
	r.byName[cp.Username] = &cp
	r.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

// fakeRecords stubs only the read paths the routing tests hit. Unstubbed
// methods panic through the embedded nil interface.
type fakeRecords struct {
	ports.RecordService
}

func (fakeRecords) ListPatients(context.Context) ([]domain.Patient, error) {
	return []domain.Patient{}, nil
}

func (fakeRecords) ListMedicalHistory(context.Context, int64) ([]domain.MedicalHistory, error) {
	return []domain.MedicalHistory{}, nil
}

func (fakeRecords) ListMedications(context.Context, int64) ([]domain.Medication, error) {
	return []domain.Medication{}, nil
}

type noopSink struct{}

func (noopSink) Enqueue(ports.AuditEvent) {}

type testEnv struct {
	echo *echo.Echo
	auth *service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	hasher := service.NewPasswordHasher(bcrypt.MinCost)
	codec := service.NewTokenCodec("test-secret", 8*time.Hour)
	auth := service.NewAuthService(newMemUserRepo(), hasher, codec, zerolog.Nop())

	e := NewRouter(RouterConfig{
		Auth:     auth,
		Records:  fakeRecords{},
		Audit:    noopSink{},
		Logger:   zerolog.Nop(),
		Registry: prometheus.NewRegistry(),
	})
	return &testEnv{echo: e, auth: auth}
}

func (env *testEnv) do(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.echo.ServeHTTP(rec, req)
	return rec
}

func registerPatientUser(t *testing.T, env *testEnv, username string) (token string, patientID int64) {
	t.Helper()
	body := fmt.Sprintf(`{"user":{"username":%q,"password":"supersecret"},"patient":{"name":"Test Patient","age":40,"address":"1 Test Ln","phoneNumber":"555-0100"}}`, username)
	rec := env.do(http.MethodPost, "/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
		User  struct {
			PatientID *int64 `json:"patientId"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token == "" || resp.User.PatientID == nil {
		t.Fatalf("incomplete register response: %s", rec.Body.String())
	}
	return resp.Token, *resp.User.PatientID
}

func assertMessage(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid error envelope: %v: %s", err, rec.Body.String())
	}
	if resp.Message != want {
		t.Fatalf("expected message %q, got %q", want, resp.Message)
	}
}

func TestRouter_RegisterThenAccessOwnRecords(t *testing.T) {
	env := newTestEnv(t)
	token, patientID := registerPatientUser(t, env, "alice")

	rec := env.do(http.MethodGet, fmt.Sprintf("/patients/%d/medical-history", patientID), "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty list, got %s", rec.Body.String())
	}
}

func TestRouter_CrossPatientAccessForbidden(t *testing.T) {
	env := newTestEnv(t)
	aliceToken, _ := registerPatientUser(t, env, "alice")
	_, bobPatientID := registerPatientUser(t, env, "bob")

	rec := env.do(http.MethodGet, fmt.Sprintf("/patients/%d/medical-history", bobPatientID), "", aliceToken)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	assertMessage(t, rec, "you can only access your own records")
}

func TestRouter_MissingToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/patients/1/medical-history", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	assertMessage(t, rec, "no token provided")
}

func TestRouter_ForgedToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/patients/1/medical-history", "", "not-a-real-token")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	assertMessage(t, rec, "invalid token")
}

func TestRouter_ExpiredToken(t *testing.T) {
	env := newTestEnv(t)
	_, patientID := registerPatientUser(t, env, "alice")

	// Correctly signed with the router's secret, but already expired.
	claims := jwt.MapClaims{
		"id":       1,
		"username": "alice",
		"role":     domain.RoleUser,
		"exp":      time.Now().Add(-time.Minute).Unix(),
		"iat":      time.Now().Add(-time.Hour).Unix(),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	rec := env.do(http.MethodGet, fmt.Sprintf("/patients/%d/medical-history", patientID), "", expired)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	assertMessage(t, rec, "invalid token")
}

func TestRouter_PatientListAdminGate(t *testing.T) {
	env := newTestEnv(t)
	userToken, _ := registerPatientUser(t, env, "alice")

	rec := env.do(http.MethodGet, "/patients", "", userToken)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for user role, got %d", rec.Code)
	}
	assertMessage(t, rec, "admin access required")

	_, adminToken, err := env.auth.RegisterAdmin(context.Background(), "root", "supersecret")
	if err != nil {
		t.Fatalf("register admin: %v", err)
	}
	rec = env.do(http.MethodGet, "/patients", "", adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_AdminBypassesOwnership(t *testing.T) {
	env := newTestEnv(t)
	_, patientID := registerPatientUser(t, env, "alice")

	_, adminToken, err := env.auth.RegisterAdmin(context.Background(), "root", "supersecret")
	if err != nil {
		t.Fatalf("register admin: %v", err)
	}

	rec := env.do(http.MethodGet, fmt.Sprintf("/patients/%d/medications", patientID), "", adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_RegisterAdminEndpointGated(t *testing.T) {
	env := newTestEnv(t)
	userToken, _ := registerPatientUser(t, env, "alice")

	body := `{"username":"newadmin","password":"supersecret"}`

	rec := env.do(http.MethodPost, "/auth/register-admin", body, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	rec = env.do(http.MethodPost, "/auth/register-admin", body, userToken)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for user role, got %d", rec.Code)
	}

	_, adminToken, err := env.auth.RegisterAdmin(context.Background(), "root", "supersecret")
	if err != nil {
		t.Fatalf("register admin: %v", err)
	}
	rec = env.do(http.MethodPost, "/auth/register-admin", body, adminToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 for admin, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_DuplicateUsernameConflict(t *testing.T) {
	env := newTestEnv(t)
	registerPatientUser(t, env, "alice")

	body := `{"user":{"username":"alice","password":"supersecret"},"patient":{"name":"Other","age":20,"address":"2 Test Ln","phoneNumber":"555-0101"}}`
	rec := env.do(http.MethodPost, "/auth/register", body, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	assertMessage(t, rec, "username already exists")
}

func TestRouter_LoginFailuresIndistinguishable(t *testing.T) {
	env := newTestEnv(t)
	registerPatientUser(t, env, "alice")

	unknown := env.do(http.MethodPost, "/auth/login", `{"username":"ghost","password":"supersecret"}`, "")
	wrongPassword := env.do(http.MethodPost, "/auth/login", `{"username":"alice","password":"wrongwrong"}`, "")

	if unknown.Code != http.StatusUnauthorized || wrongPassword.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", unknown.Code, wrongPassword.Code)
	}
	if unknown.Body.String() != wrongPassword.Body.String() {
		t.Fatalf("failure responses must match: %s vs %s", unknown.Body.String(), wrongPassword.Body.String())
	}
	assertMessage(t, unknown, "invalid username or password")
}

func TestRouter_ConstructedTwiceInOneProcess(t *testing.T) {
	// Each router carries its own metrics registry, so building a second one
	// must not trip duplicate-collector registration.
	first := newTestEnv(t)
	second := newTestEnv(t)

	for _, env := range []*testEnv{first, second} {
		rec := env.do(http.MethodGet, "/health", "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		rec = env.do(http.MethodGet, "/metrics", "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 from /metrics, got %d", rec.Code)
		}
	}
}

func TestRouter_ScheduleUnavailableWithoutLLM(t *testing.T) {
	env := newTestEnv(t)
	token, patientID := registerPatientUser(t, env, "alice")

	rec := env.do(http.MethodGet, fmt.Sprintf("/patients/%d/medications/schedule", patientID), "", token)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d: %s", rec.Code, rec.Body.String())
	}
}
