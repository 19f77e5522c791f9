package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ahmadchreiff/eigen-journal/internal/auth"
	"github.com/ahmadchreiff/eigen-journal/internal/config"
	"github.com/ahmadchreiff/eigen-journal/internal/model"
	"github.com/ahmadchreiff/eigen-journal/internal/service"
	serviceMocks "github.com/ahmadchreiff/eigen-journal/internal/service/mocks"
	"github.com/ahmadchreiff/eigen-journal/internal/storage"
)

var testAuthCfg = config.AuthConfig{
	AdminEmail:    "admin@eigenjournal.com",
	AdminPassword: "sekret",
	JWTSecret:     "handler-test-key",
	TokenTTLMin:   60,
}

// newTestApp wires the full route table with a mocked service, the way main does.
func newTestApp(t *testing.T, mockSvc *serviceMocks.MockDraftService) (*fiber.App, *auth.TokenManager) {
	t.Helper()

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tm := auth.NewTokenManager(testAuthCfg)
	authn := auth.NewAuthenticator(testAuthCfg, tm)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	RegisterRoutes(app, db, authn, tm, mockSvc)
	return app, tm
}

func adminHeader(t *testing.T, tm *auth.TokenManager) string {
	t.Helper()
	token, err := tm.Generate(testAuthCfg.AdminEmail, auth.RoleAdmin)
	require.NoError(t, err)
	return "Bearer " + token
}

func multipartSubmission(t *testing.T, metadata string, filename, content string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("metadata", metadata))
	fw, err := w.CreateFormFile("pdf", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestLogin(t *testing.T) {
	app, _ := newTestApp(t, new(serviceMocks.MockDraftService))

	t.Run("valid credentials return a token", func(t *testing.T) {
		body := `{"email":"admin@eigenjournal.com","password":"sekret"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var out map[string]string
		json.NewDecoder(resp.Body).Decode(&out)
		assert.NotEmpty(t, out["token"])
	})

	t.Run("wrong password and unknown identity answer identically", func(t *testing.T) {
		bodies := []string{
			`{"email":"admin@eigenjournal.com","password":"wrong"}`,
			`{"email":"nobody@eigenjournal.com","password":"sekret"}`,
		}
		var responses []string
		for _, body := range bodies {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
			req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			resp, _ := app.Test(req)

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			b, _ := io.ReadAll(resp.Body)
			responses = append(responses, string(b))
		}
		assert.Equal(t, responses[0], responses[1])
		assert.Contains(t, responses[0], "Invalid credentials")
	})
}

func TestSubmitDraft(t *testing.T) {
	meta := `{"firstName":"Lina","lastName":"Haddad","title":"On Parsing","category":"cmps","keywords":["security","parsing"]}`

	t.Run("happy path", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDraftService)
		app, _ := newTestApp(t, mockSvc)

		mockSvc.On("Submit", mock.Anything, mock.MatchedBy(func(in service.SubmitInput) bool {
			return in.Title == "On Parsing" && len(in.Keywords) == 2
		}), mock.Anything, mock.AnythingOfType("int64"), "paper.pdf").
			Return(&model.Draft{ID: "new-draft-id"}, nil)

		body, contentType := multipartSubmission(t, meta, "paper.pdf", "%PDF-1.4 content")
		req := httptest.NewRequest(http.MethodPost, "/drafts", body)
		req.Header.Set(fiber.HeaderContentType, contentType)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var out map[string]any
		json.NewDecoder(resp.Body).Decode(&out)
		assert.Equal(t, true, out["success"])
		assert.Equal(t, "new-draft-id", out["draftId"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing pdf part", func(t *testing.T) {
		app, _ := newTestApp(t, new(serviceMocks.MockDraftService))

		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		require.NoError(t, w.WriteField("metadata", meta))
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, "/drafts", &buf)
		req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("invalid metadata json", func(t *testing.T) {
		app, _ := newTestApp(t, new(serviceMocks.MockDraftService))

		body, contentType := multipartSubmission(t, "{not json", "paper.pdf", "x")
		req := httptest.NewRequest(http.MethodPost, "/drafts", body)
		req.Header.Set(fiber.HeaderContentType, contentType)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("empty file", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDraftService)
		app, _ := newTestApp(t, mockSvc)

		mockSvc.On("Submit", mock.Anything, mock.Anything, mock.Anything, mock.AnythingOfType("int64"), "paper.pdf").
			Return(nil, storage.ErrEmptyFile)

		body, contentType := multipartSubmission(t, meta, "paper.pdf", "")
		req := httptest.NewRequest(http.MethodPost, "/drafts", body)
		req.Header.Set(fiber.HeaderContentType, contentType)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestListDrafts_AccessGate(t *testing.T) {
	mockSvc := new(serviceMocks.MockDraftService)
	app, tm := newTestApp(t, mockSvc)

	t.Run("no token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/drafts", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "UNAUTHENTICATED", body.Error.Code)
	})

	t.Run("non-admin token is forbidden here but fine on public routes", func(t *testing.T) {
		token, err := tm.Generate("reader@eigenjournal.com", "READER")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/drafts", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		resp, _ := app.Test(req)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		mockSvc.On("Get", mock.Anything, "d1").
			Return(&model.Draft{ID: "d1"}, nil).Once()

		pub := httptest.NewRequest(http.MethodGet, "/drafts/d1", nil)
		pub.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		pubResp, _ := app.Test(pub)
		assert.Equal(t, http.StatusOK, pubResp.StatusCode)
	})

	t.Run("admin token lists everything", func(t *testing.T) {
		mockSvc.On("ListAll", mock.Anything).
			Return([]model.Draft{{ID: "d1"}, {ID: "d2"}}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/drafts", nil)
		req.Header.Set(fiber.HeaderAuthorization, adminHeader(t, tm))
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var items []model.Draft
		json.NewDecoder(resp.Body).Decode(&items)
		assert.Len(t, items, 2)
		mockSvc.AssertExpectations(t)
	})
}

func TestGetDraft(t *testing.T) {
	mockSvc := new(serviceMocks.MockDraftService)
	app, _ := newTestApp(t, mockSvc)

	t.Run("found", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, "d1").
			Return(&model.Draft{ID: "d1", Keywords: []string{"security", "parsing"}}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/drafts/d1", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var d model.Draft
		json.NewDecoder(resp.Body).Decode(&d)
		assert.Equal(t, []string{"security", "parsing"}, d.Keywords)
	})

	t.Run("missing", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, "nope").
			Return(nil, service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/drafts/nope", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "Draft not found", body["error"])
	})
}

func TestUpdateDraftStatus(t *testing.T) {
	mockSvc := new(serviceMocks.MockDraftService)
	app, tm := newTestApp(t, mockSvc)

	t.Run("approve", func(t *testing.T) {
		mockSvc.On("UpdateStatus", mock.Anything, "d1", model.StatusApproved).
			Return(&model.Draft{ID: "d1", Status: model.StatusApproved}, nil).Once()

		req := httptest.NewRequest(http.MethodPut, "/drafts/d1", strings.NewReader(`{"status":"APPROVED"}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		req.Header.Set(fiber.HeaderAuthorization, adminHeader(t, tm))
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var out map[string]bool
		json.NewDecoder(resp.Body).Decode(&out)
		assert.True(t, out["updated"])
	})

	t.Run("unrecognized status is rejected, not persisted", func(t *testing.T) {
		mockSvc.On("UpdateStatus", mock.Anything, "d1", "SHIPPED").
			Return(nil, service.ErrInvalidStatus).Once()

		req := httptest.NewRequest(http.MethodPut, "/drafts/d1", strings.NewReader(`{"status":"SHIPPED"}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		req.Header.Set(fiber.HeaderAuthorization, adminHeader(t, tm))
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing draft", func(t *testing.T) {
		mockSvc.On("UpdateStatus", mock.Anything, "nope", model.StatusRejected).
			Return(nil, service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodPut, "/drafts/nope", strings.NewReader(`{"status":"REJECTED"}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		req.Header.Set(fiber.HeaderAuthorization, adminHeader(t, tm))
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestDeleteDraft(t *testing.T) {
	mockSvc := new(serviceMocks.MockDraftService)
	app, tm := newTestApp(t, mockSvc)

	t.Run("deleted", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, "d1").Return(nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/drafts/d1", nil)
		req.Header.Set(fiber.HeaderAuthorization, adminHeader(t, tm))
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var out map[string]bool
		json.NewDecoder(resp.Body).Decode(&out)
		assert.True(t, out["deleted"])
	})

	t.Run("second delete is a plain 404", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, "d1").Return(service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodDelete, "/drafts/d1", nil)
		req.Header.Set(fiber.HeaderAuthorization, adminHeader(t, tm))
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestStreamDraftPDF(t *testing.T) {
	mockSvc := new(serviceMocks.MockDraftService)
	app, _ := newTestApp(t, mockSvc)

	t.Run("streams inline pdf named after the title", func(t *testing.T) {
		mockSvc.On("StreamFile", mock.Anything, "d1").
			Return(io.NopCloser(strings.NewReader("%PDF-1.4")), &model.Draft{ID: "d1", Title: "On Parsing"}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/drafts/d1/pdf", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
		assert.Equal(t, `inline; filename="On Parsing.pdf"`, resp.Header.Get(fiber.HeaderContentDisposition))

		b, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "%PDF-1.4", string(b))
	})

	t.Run("file removed behind the record is a 404, not a crash", func(t *testing.T) {
		mockSvc.On("StreamFile", mock.Anything, "d2").
			Return(nil, nil, service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/drafts/d2/pdf", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestHealthEndpoints(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})

	t.Run("liveness", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
