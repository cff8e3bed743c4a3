package test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"sugurico/internal/config"
	handlers "sugurico/internal/handler"
	"sugurico/internal/logger"
	"sugurico/internal/service"
)

type mocks struct {
	auth    *MockAuthService
	user    *MockUserService
	session *MockSessionService
	premium *MockPremiumService
	post    *MockPostService
	listing *MockListingService
	social  *MockSocialService
	tables  *MockTablesService
}

func createTestHandler() (*handlers.Handlers, *mocks) {
	m := &mocks{
		auth:    new(MockAuthService),
		user:    new(MockUserService),
		session: new(MockSessionService),
		premium: new(MockPremiumService),
		post:    new(MockPostService),
		listing: new(MockListingService),
		social:  new(MockSocialService),
		tables:  new(MockTablesService),
	}

	cfg := &config.Config{
		JWTSecretKey:  "test-secret-key",
		ServerPort:    8080,
		MaxUploadSize: 5 * 1024 * 1024,
	}

	h := &handlers.Handlers{
		AuthService:    m.auth,
		UserService:    m.user,
		SessionService: m.session,
		PremiumService: m.premium,
		PostService:    m.post,
		ListingService: m.listing,
		SocialService:  m.social,
		TablesService:  m.tables,
		Cfg:            cfg,
		Validate:       validator.New(),
		Log:            logger.Discard(),
	}

	return h, m
}

func (m *mocks) assertExpectations(t *testing.T) {
	t.Helper()
	m.auth.AssertExpectations(t)
	m.user.AssertExpectations(t)
	m.session.AssertExpectations(t)
	m.premium.AssertExpectations(t)
	m.post.AssertExpectations(t)
	m.listing.AssertExpectations(t)
	m.social.AssertExpectations(t)
	m.tables.AssertExpectations(t)
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	payload, err := json.Marshal(body)
	assert.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func asUser(req *http.Request, userID string) *http.Request {
	return req.WithContext(handlers.WithUserID(req.Context(), userID))
}

func withVars(req *http.Request, vars map[string]string) *http.Request {
	return mux.SetURLVars(req, vars)
}

func svcErr(kind error, message string) error {
	return &service.Error{Kind: kind, Message: message}
}

// assertJSONError checks the JSON response with an error
func assertJSONError(t *testing.T, rr *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	t.Helper()
	assert.Equal(t, expectedStatus, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var response map[string]string
	err := json.Unmarshal(rr.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Contains(t, response["error"], expectedError)
}

// assertJSONSuccess checks the successful JSON response and returns its body
func assertJSONSuccess(t *testing.T, rr *httptest.ResponseRecorder, expectedStatus int) map[string]interface{} {
	t.Helper()
	assert.Equal(t, expectedStatus, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var response map[string]interface{}
	err := json.Unmarshal(rr.Body.Bytes(), &response)
	assert.NoError(t, err)
	return response
}

func TestNewHandlers(t *testing.T) {
	services := &service.Service{
		Auth:    new(MockAuthService),
		User:    new(MockUserService),
		Session: new(MockSessionService),
		Premium: new(MockPremiumService),
		Post:    new(MockPostService),
		Listing: new(MockListingService),
		Social:  new(MockSocialService),
		Tables:  new(MockTablesService),
	}

	h := handlers.NewHandlers(services, &config.Config{}, logger.Discard())

	assert.NotNil(t, h.AuthService)
	assert.NotNil(t, h.PostService)
	assert.NotNil(t, h.ListingService)
	assert.NotNil(t, h.TablesService)
	assert.NotNil(t, h.Validate)
	assert.NotNil(t, h.Log)
}

func TestServiceErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"入力エラー", svcErr(service.ErrValidation, "タイトルと本文を入力してください。"), http.StatusBadRequest, "タイトルと本文を入力してください。"},
		{"認証エラー", svcErr(service.ErrUnauthorized, "パスワードが違います。"), http.StatusUnauthorized, "パスワードが違います。"},
		{"権限なし", svcErr(service.ErrForbidden, "この投稿を編集する権限がありません。"), http.StatusForbidden, "権限がありません"},
		{"プレミアム限定", svcErr(service.ErrPremiumRequired, "この機能はプレミアム会員限定です。"), http.StatusForbidden, "プレミアム会員限定"},
		{"存在しない", svcErr(service.ErrNotFound, "投稿が見つかりません。"), http.StatusNotFound, "投稿が見つかりません。"},
		{"重複", svcErr(service.ErrDuplicate, "既に使用されています"), http.StatusConflict, "既に使用されています"},
		{"ロック中", svcErr(service.ErrLocked, "アカウントはロックされました。"), http.StatusLocked, "ロック"},
		{"想定外のエラーは詳細を隠す", errors.New("pq: connection refused"), http.StatusInternalServerError, "サーバーエラー"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := createTestHandler()
			m.post.On("GetPost", mock.Anything, "", int64(1)).Return(nil, tt.err)

			req := withVars(httptest.NewRequest(http.MethodGet, "/api/posts/1", nil), map[string]string{"id": "1"})
			rr := httptest.NewRecorder()
			h.GetPost(rr, req)

			assertJSONError(t, rr, tt.status, tt.msg)
			assert.NotContains(t, rr.Body.String(), "pq:")
		})
	}
}

func TestTablesAndHealth(t *testing.T) {
	t.Run("テーブル数", func(t *testing.T) {
		h, m := createTestHandler()
		m.tables.On("GetCountTablesDB", mock.Anything).Return(9, nil)

		rr := httptest.NewRecorder()
		h.TablesHandler(rr, httptest.NewRequest(http.MethodGet, "/tables", nil))

		body := assertJSONSuccess(t, rr, http.StatusOK)
		assert.Equal(t, 9.0, body["countTables"])
	})

	t.Run("DB停止中は503", func(t *testing.T) {
		h, m := createTestHandler()
		m.tables.On("Ping", mock.Anything).Return(errors.New("down"))

		rr := httptest.NewRecorder()
		h.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		body := assertJSONSuccess(t, rr, http.StatusServiceUnavailable)
		assert.Equal(t, "unavailable", body["status"])
	})

	t.Run("正常", func(t *testing.T) {
		h, m := createTestHandler()
		m.tables.On("Ping", mock.Anything).Return(nil)

		rr := httptest.NewRecorder()
		h.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		body := assertJSONSuccess(t, rr, http.StatusOK)
		assert.Equal(t, "ok", body["status"])
		m.assertExpectations(t)
	})
}
