package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"staff-service/config"
	"staff-service/internal/delivery/dto"
	"staff-service/internal/delivery/http/handler"
	"staff-service/internal/delivery/http/middleware"
	"staff-service/internal/domain/entity"
	"staff-service/internal/infrastructure/authclient"
	"staff-service/internal/platform/metrics"
	"staff-service/internal/repository/memory"
	"staff-service/internal/service"
	"staff-service/internal/usecase"
	"staff-service/pkg/jwt"
	"staff-service/pkg/response"
	"staff-service/pkg/validator"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret   = "test-secret"
	testClinicID = "27163ac7-4f4d-4669-a0c1-4b8538405475"
)

// fakeAuthService records the calls the staff service makes to the auth service.
type fakeAuthService struct {
	mu              sync.Mutex
	provisionID     uuid.UUID
	provisionStatus int
	deleteStatus    int
	provisioned     []map[string]interface{}
	deleted         []string
	cookies         []string
}

func (f *fakeAuthService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if c, err := r.Cookie(authclient.SessionCookie); err == nil {
		f.cookies = append(f.cookies, c.Value)
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/users":
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		f.provisioned = append(f.provisioned, body)
		if f.provisionStatus != http.StatusCreated {
			http.Error(w, `{"message":"email already registered"}`, f.provisionStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"_id": f.provisionID.String()})
	case r.Method == http.MethodDelete:
		f.deleted = append(f.deleted, r.URL.Path)
		w.WriteHeader(f.deleteStatus)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type apiFixture struct {
	t        *testing.T
	handler  http.Handler
	doctors  *memory.DoctorRepository
	auth     *fakeAuthService
	tokens   *jwt.JWTService
	registry *prometheus.Registry
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	auth := &fakeAuthService{
		provisionID:     uuid.New(),
		provisionStatus: http.StatusCreated,
		deleteStatus:    http.StatusNoContent,
	}
	upstream := httptest.NewServer(auth)
	t.Cleanup(upstream.Close)

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	tokens := jwt.NewJWTService(config.JWTConfig{Secret: testSecret})
	doctors := memory.NewDoctorRepository()
	auditLogs := memory.NewAuditLogRepository()

	doctorUsecase := usecase.NewDoctorUsecase(
		log,
		doctors,
		authclient.NewClient(config.AuthServiceConfig{URL: upstream.URL, Timeout: 2 * time.Second}, m),
		service.NewNoopDoctorCache(),
		service.NewAuditService(log, auditLogs),
		validator.NewValidator(),
		m,
	)

	router := NewRouter(
		"/api/v1",
		log,
		handler.NewDoctorHandler(doctorUsecase, log),
		handler.NewAuditLogHandler(usecase.NewAuditLogUsecase(log, auditLogs, validator.NewValidator()), log),
		middleware.NewAuthMiddleware(tokens, log),
		middleware.NewCORSMiddleware([]string{"http://frontend.test"}),
		middleware.NewLoggingMiddleware(log),
		registry,
	)

	return &apiFixture{
		t:        t,
		handler:  router.Setup(),
		doctors:  doctors,
		auth:     auth,
		tokens:   tokens,
		registry: registry,
	}
}

func (f *apiFixture) token(roles ...string) string {
	return f.tokenFor(uuid.New(), roles...)
}

func (f *apiFixture) tokenFor(userID uuid.UUID, roles ...string) string {
	token, err := f.tokens.GenerateToken(userID, roles, time.Hour)
	require.NoError(f.t, err)
	return token
}

func (f *apiFixture) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(f.t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f *apiFixture) seed(nationalID string, specialty entity.Specialty, userID uuid.UUID) *entity.Doctor {
	doctor := &entity.Doctor{
		Name:       "Doctor",
		Surname:    nationalID,
		Specialty:  specialty,
		NationalID: nationalID,
		ClinicID:   uuid.MustParse(testClinicID),
		UserID:     userID,
		Active:     true,
	}
	require.NoError(f.t, f.doctors.Create(f.t.Context(), doctor))
	return doctor
}

func (f *apiFixture) doctorIDByNationalID(nationalID string) string {
	doctor, err := f.doctors.FindByNationalID(f.t.Context(), nationalID)
	require.NoError(f.t, err)
	require.NotNil(f.t, doctor)
	return doctor.ID.String()
}

func registerPayload() map[string]string {
	return map[string]string{
		"name":      "John",
		"surname":   "Doe",
		"specialty": "cardiology",
		"dni":       "64781738F",
		"clinicId":  testClinicID,
		"password":  "Passw0rd!",
		"email":     "johndoe@example.com",
	}
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Message
}

func TestRegisterDoctor(t *testing.T) {
	f := newAPIFixture(t)
	adminToken := f.token(entity.RoleClinicAdmin)

	rec := f.do(http.MethodPost, "/api/v1/staff/register", adminToken, registerPayload())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var doctor dto.DoctorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doctor))
	assert.Equal(t, "John", doctor.Name)
	assert.Equal(t, "Doe", doctor.Surname)
	assert.Equal(t, "cardiology", doctor.Specialty)
	assert.Equal(t, "64781738F", doctor.DNI)
	assert.Equal(t, testClinicID, doctor.ClinicID.String())
	assert.Equal(t, f.auth.provisionID, doctor.UserID)

	require.Len(t, f.auth.provisioned, 1)
	assert.Equal(t, "johndoe@example.com", f.auth.provisioned[0]["email"])
	assert.Equal(t, []interface{}{entity.RoleDoctor}, f.auth.provisioned[0]["roles"])
	assert.Equal(t, []string{adminToken}, f.auth.cookies)

	t.Run("same DNI again is rejected", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/api/v1/staff/register", adminToken, registerPayload())
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Len(t, f.auth.provisioned, 1)
	})

	t.Run("invalid payload is rejected before the auth service is called", func(t *testing.T) {
		payload := registerPayload()
		payload["dni"] = "64781738A"
		rec := f.do(http.MethodPost, "/api/v1/staff/register", adminToken, payload)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.NotEmpty(t, decodeMessage(t, rec))
		assert.Len(t, f.auth.provisioned, 1)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/staff/register", bytes.NewBufferString("{"))
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: adminToken})
		rec := httptest.NewRecorder()
		f.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRegisterDoctor_UpstreamFailure(t *testing.T) {
	f := newAPIFixture(t)
	f.auth.provisionStatus = http.StatusConflict

	rec := f.do(http.MethodPost, "/api/v1/staff/register", f.token(entity.RoleClinicAdmin), registerPayload())
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	count, err := f.doctors.Count(t.Context())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRegisterDoctor_Authorization(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodPost, "/api/v1/staff/register", "", registerPayload())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized", decodeMessage(t, rec))

	rec = f.do(http.MethodPost, "/api/v1/staff/register", "not-a-jwt", registerPayload())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(http.MethodPost, "/api/v1/staff/register", f.token(entity.RoleDoctor), registerPayload())
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Forbidden", decodeMessage(t, rec))

	assert.Empty(t, f.auth.provisioned)
}

func TestUpdateSpecialty(t *testing.T) {
	f := newAPIFixture(t)
	doctor := f.seed("20060493P", entity.SpecialtyCardiology, uuid.New())
	adminToken := f.token(entity.RoleClinicAdmin)

	rec := f.do(http.MethodPut, "/api/v1/staff/"+doctor.ID.String(), adminToken, map[string]string{"specialty": "neurology"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body dto.UpdateSpecialtyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Speciality updated successfully", body.Message)
	require.NotNil(t, body.Doctor)
	assert.Equal(t, "neurology", body.Doctor.Specialty)
	assert.Equal(t, doctor.ID, body.Doctor.ID)

	rec = f.do(http.MethodPut, "/api/v1/staff/"+doctor.ID.String(), adminToken, map[string]string{"specialty": "astrology"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodPut, "/api/v1/staff/"+uuid.NewString(), adminToken, map[string]string{"specialty": "neurology"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Doctor not found", decodeMessage(t, rec))
}

func TestGetDoctor(t *testing.T) {
	f := newAPIFixture(t)
	doctor := f.seed("10000004H", entity.SpecialtyCardiology, uuid.New())

	rec := f.do(http.MethodGet, "/api/v1/staff/"+doctor.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got dto.DoctorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, doctor.ID, got.ID)
	assert.Contains(t, rec.Body.String(), `"_id"`)

	for _, path := range []string{"/api/v1/staff/" + uuid.NewString(), "/api/v1/staff/not-a-uuid"} {
		rec := f.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, "Doctor not found", decodeMessage(t, rec))
	}
}

func TestGetMe(t *testing.T) {
	f := newAPIFixture(t)
	userID := uuid.New()
	doctor := f.seed("12345678Z", entity.SpecialtyNeurology, userID)

	rec := f.do(http.MethodGet, "/api/v1/staff/me", f.tokenFor(userID, entity.RoleDoctor), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got dto.DoctorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, doctor.ID, got.ID)

	rec = f.do(http.MethodGet, "/api/v1/staff/me", f.token(entity.RoleDoctor), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Authenticated doctor not found", decodeMessage(t, rec))

	rec = f.do(http.MethodGet, "/api/v1/staff/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetDoctorsBySpecialty(t *testing.T) {
	f := newAPIFixture(t)
	f.seed("10000004H", entity.SpecialtyCardiology, uuid.New())
	f.seed("64781738F", entity.SpecialtyNeurology, uuid.New())
	f.seed("20060493P", entity.SpecialtyNeurology, uuid.New())

	tests := []struct {
		name   string
		path   string
		status int
		count  int
	}{
		{"by specialty", "/api/v1/staff/clinic/" + testClinicID + "/speciality/neurology", http.StatusOK, 2},
		{"whole clinic", "/api/v1/staff/clinic/" + testClinicID + "/speciality", http.StatusOK, 3},
		{"no matches", "/api/v1/staff/clinic/" + testClinicID + "/speciality/urology", http.StatusNotFound, 0},
		{"other clinic", "/api/v1/staff/clinic/" + uuid.NewString() + "/speciality", http.StatusNotFound, 0},
		{"invalid clinic id", "/api/v1/staff/clinic/abc/speciality", http.StatusNotFound, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(http.MethodGet, tt.path, "", nil)
			require.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusNotFound {
				assert.Equal(t, "No doctors found for the given clinicId and speciality", decodeMessage(t, rec))
				return
			}
			var doctors []dto.DoctorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doctors))
			assert.Len(t, doctors, tt.count)
		})
	}
}

func TestDeleteDoctor(t *testing.T) {
	f := newAPIFixture(t)
	userID := uuid.New()
	doctor := f.seed("00000000T", entity.SpecialtyOther, userID)
	adminToken := f.token(entity.RoleClinicAdmin)

	t.Run("auth service failure keeps the record", func(t *testing.T) {
		f.auth.deleteStatus = http.StatusInternalServerError
		rec := f.do(http.MethodDelete, "/api/v1/staff/"+doctor.ID.String(), adminToken, nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		stored, err := f.doctors.FindByID(t.Context(), doctor.ID)
		require.NoError(t, err)
		assert.NotNil(t, stored)
	})

	t.Run("removes the record once the credential is gone", func(t *testing.T) {
		f.auth.deleteStatus = http.StatusNoContent
		rec := f.do(http.MethodDelete, "/api/v1/staff/"+doctor.ID.String(), adminToken, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.Bytes())
		assert.Equal(t, "/users/"+userID.String(), f.auth.deleted[len(f.auth.deleted)-1])

		stored, err := f.doctors.FindByID(t.Context(), doctor.ID)
		require.NoError(t, err)
		assert.Nil(t, stored)
	})

	t.Run("unknown doctor", func(t *testing.T) {
		calls := len(f.auth.deleted)
		rec := f.do(http.MethodDelete, "/api/v1/staff/"+doctor.ID.String(), adminToken, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Len(t, f.auth.deleted, calls)
	})
}

func TestAuditLogs(t *testing.T) {
	f := newAPIFixture(t)
	adminToken := f.token(entity.RoleClinicAdmin)
	require.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/api/v1/staff/register", adminToken, registerPayload()).Code)

	rec := f.do(http.MethodGet, "/api/v1/staff/audit-logs", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list dto.AuditLogListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Equal(t, 1, list.Total)
	assert.Equal(t, entity.AuditActionDoctorCreate, list.Logs[0].Action)

	assert.Equal(t, f.doctorIDByNationalID("64781738F"), list.Logs[0].DoctorID)

	rec = f.do(http.MethodGet, "/api/v1/staff/audit-logs?action=doctor.delete", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Zero(t, list.Total)

	rec = f.do(http.MethodGet, "/api/v1/staff/audit-logs?doctorId=nope", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodGet, "/api/v1/staff/audit-logs/999", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(http.MethodGet, "/api/v1/staff/audit-logs", f.token(entity.RoleDoctor), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodGet, "/api/v1/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	f.do(http.MethodPost, "/api/v1/staff/register", f.token(entity.RoleClinicAdmin), registerPayload())
	rec = f.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "staff_doctors_registered_total 1")
}

func TestCORSPreflight(t *testing.T) {
	f := newAPIFixture(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/staff/register", nil)
	req.Header.Set("Origin", "http://frontend.test")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://frontend.test", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}
