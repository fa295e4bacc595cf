package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/siamcare/doctrackgo/internal/config"
	"github.com/siamcare/doctrackgo/internal/logging"
	"github.com/siamcare/doctrackgo/internal/models"
	"github.com/siamcare/doctrackgo/internal/repository"
	"github.com/siamcare/doctrackgo/internal/service"
	"github.com/siamcare/doctrackgo/internal/utils"
	"github.com/siamcare/doctrackgo/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "router-test-secret"

type testEnv struct {
	handler http.Handler
	staff   repository.StaffRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger, ring := logging.New("error", 50)
	repo, err := repository.NewFileRepository(
		filepath.Join(t.TempDir(), "documents.json"), repository.NopCache{}, logger)
	require.NoError(t, err)

	cfg := &config.Config{
		Env:       "test",
		Port:      "0",
		JWTSecret: testSecret,
		BaseURL:   "http://localhost:3210",
		Storage:   config.StorageConfig{Backend: "file", CacheTTL: time.Second},
		Rosters: config.RosterConfig{
			Departments:   []string{"MED", "PED", "GI"},
			DocumentTypes: []string{"WI", "WP", "FORM"},
		},
	}

	hub := websocket.NewHub(logger)
	go hub.Run()

	staff := repository.NewMemoryStaffRepository()
	svc := service.New(repo, cfg.Rosters, logger, hub)
	router := NewRouter(svc, staff, hub, ring, logger, cfg)

	return &testEnv{handler: router.Handler(), staff: staff}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) token(t *testing.T) string {
	t.Helper()
	access, _, err := utils.GenerateTokens(&models.StaffAuth{
		ID:       "test-staff-id",
		Username: "nurse.a",
		Role:     "staff",
	}, testSecret)
	require.NoError(t, err)
	return access
}

func (e *testEnv) submit(t *testing.T, sender, department string) models.Document {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/documents", "", models.CreateDocumentDto{
		SenderName:   sender,
		Department:   department,
		DocumentType: "FORM",
		WeekRange:    "Sep 1 - Sep 7",
		Details:      "test submission",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var doc models.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	return doc
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCreateAndGetDocument(t *testing.T) {
	env := newTestEnv(t)

	doc := env.submit(t, "Somchai Jaidee", "MED")
	assert.Regexp(t, `^DOC-\d{8}-\d{4}$`, doc.ID)
	assert.Equal(t, models.StatusPending, doc.Status)

	rec := env.do(t, http.MethodGet, "/api/documents/"+doc.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, doc.ID, got.ID)
	assert.Equal(t, "Somchai Jaidee", got.SenderName)
}

func TestCreateDocumentValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/documents", "", models.CreateDocumentDto{
		SenderName:   "Somchai",
		Department:   "ICU",
		DocumentType: "FORM",
		WeekRange:    "Sep 1 - Sep 7",
		Details:      "x",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "department", body["field"])
}

func TestGetDocumentNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/documents/DOC-20250901-0001", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Malformed ids are a client error, not a miss.
	rec = env.do(t, http.MethodGet, "/api/documents/bogus", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListDocumentsByDepartment(t *testing.T) {
	env := newTestEnv(t)
	env.submit(t, "Somchai", "MED")
	env.submit(t, "Malee", "PED")

	rec := env.do(t, http.MethodGet, "/api/documents?department=MED", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var docs []models.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "Somchai", docs[0].SenderName)

	rec = env.do(t, http.MethodGet, "/api/documents", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &docs))
	assert.Len(t, docs, 2)
}

func TestSearchDocuments(t *testing.T) {
	env := newTestEnv(t)
	env.submit(t, "Somchai Jaidee", "MED")
	env.submit(t, "Malee Srisuk", "PED")

	rec := env.do(t, http.MethodGet, "/api/documents/search?senderName=somchai", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var docs []models.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "Somchai Jaidee", docs[0].SenderName)

	// No matches still returns an array.
	rec = env.do(t, http.MethodGet, "/api/documents/search?senderName=nobody", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestUpdateStatusRequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	doc := env.submit(t, "Somchai", "MED")

	rec := env.do(t, http.MethodPut, "/api/documents/"+doc.ID+"/status", "",
		models.UpdateStatusDto{Status: models.StatusProcessing})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/documents/"+doc.ID+"/status", "not-a-token",
		models.UpdateStatusDto{Status: models.StatusProcessing})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateStatusFlow(t *testing.T) {
	env := newTestEnv(t)
	doc := env.submit(t, "Somchai", "MED")
	token := env.token(t)

	rec := env.do(t, http.MethodPut, "/api/documents/"+doc.ID+"/status", token,
		models.UpdateStatusDto{Status: models.StatusProcessing, StaffName: "Nurse A"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated models.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, models.StatusProcessing, updated.Status)
	assert.NotEmpty(t, updated.ReceivedDate)

	// Skipping processing is rejected by the transition table.
	other := env.submit(t, "Malee", "PED")
	rec = env.do(t, http.MethodPut, "/api/documents/"+other.ID+"/status", token,
		models.UpdateStatusDto{Status: models.StatusCompleted})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAddNoteEndpoint(t *testing.T) {
	env := newTestEnv(t)
	doc := env.submit(t, "Somchai", "MED")
	token := env.token(t)

	rec := env.do(t, http.MethodPost, "/api/documents/"+doc.ID+"/note", token,
		map[string]string{"note": "call the sender"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var noted models.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &noted))
	assert.Equal(t, "call the sender", noted.StaffNote)

	rec = env.do(t, http.MethodPost, "/api/documents/"+doc.ID+"/note", token,
		map[string]string{"note": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteDocumentEndpoint(t *testing.T) {
	env := newTestEnv(t)
	doc := env.submit(t, "Somchai", "MED")
	token := env.token(t)

	rec := env.do(t, http.MethodDelete, "/api/documents/"+doc.ID, "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/documents/"+doc.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/documents/"+doc.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatisticsEndpoints(t *testing.T) {
	env := newTestEnv(t)
	env.submit(t, "Somchai", "MED")
	env.submit(t, "Malee", "PED")

	rec := env.do(t, http.MethodGet, "/api/statistics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats struct {
		Total    int            `json:"total"`
		ByStatus map[string]int `json:"byStatus"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 2, stats.ByStatus["pending"])

	rec = env.do(t, http.MethodGet, "/api/statistics/processing-time", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/statistics/departments", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRostersEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/rosters", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var rosters config.RosterConfig
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rosters))
	assert.Contains(t, rosters.Departments, "MED")
	assert.Contains(t, rosters.DocumentTypes, "FORM")
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	reg := RegisterRequest{
		Username:   "nurse.a",
		Password:   "long-enough-pw",
		Name:       "Nurse A",
		Department: "MED",
	}
	rec := env.do(t, http.MethodPost, "/auth/register", "", reg)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Duplicate username.
	rec = env.do(t, http.MethodPost, "/auth/register", "", reg)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Short password.
	rec = env.do(t, http.MethodPost, "/auth/register", "", RegisterRequest{
		Username: "nurse.b", Password: "short",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/auth/login", "",
		LoginRequest{Username: "nurse.a", Password: "long-enough-pw"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Tokens map[string]string `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Tokens["accessToken"])
	assert.NotEmpty(t, body.Tokens["refreshToken"])

	rec = env.do(t, http.MethodPost, "/auth/login", "",
		LoginRequest{Username: "nurse.a", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDocumentSlipAndQR(t *testing.T) {
	env := newTestEnv(t)
	doc := env.submit(t, "Somchai", "MED")

	rec := env.do(t, http.MethodGet, "/api/documents/"+doc.ID+"/slip", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")), "expected a PDF body")

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/documents/%s/qrcode?size=128", doc.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
}
