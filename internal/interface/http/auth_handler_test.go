package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/authguard/internal/application"
	"github.com/oksasatya/authguard/internal/application/command"
	"github.com/oksasatya/authguard/internal/application/query"
	"github.com/oksasatya/authguard/internal/infrastructure/memory"
	"github.com/oksasatya/authguard/internal/infrastructure/token"
	"github.com/oksasatya/authguard/pkg/validation"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	clock := clockwork.NewFakeClockAt(time.Now().UTC())
	users := memory.NewUserRepository()
	sessions := memory.NewSessionRepository()
	tokens := token.NewService("test-secret")

	commands := command.NewService(command.Deps{
		Users:          users,
		Sessions:       sessions,
		Tokens:         tokens,
		Events:         memory.NewPublisher(),
		Logger:         logger,
		Clock:          clock,
		SessionTTL:     time.Hour,
		RegisterActive: true,
	})
	queries := query.NewService(query.Deps{
		Sessions: sessions,
		Tokens:   tokens,
		Logger:   logger,
		Clock:    clock,
	})
	handler := NewAuthHandler(application.NewDispatcher(commands, queries), logger)

	r := gin.New()
	auth := r.Group("/api/auth")
	auth.POST("/register", handler.Register)
	auth.POST("/login", handler.Login)
	auth.POST("/logout", handler.Logout)
	auth.POST("/validate", handler.Validate)
	auth.GET("/me", handler.Me)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func registerAndLogin(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := postJSON(t, r, "/api/auth/register", gin.H{"email": "alice@example.com", "password": "Sup3rSecret"}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, r, "/api/auth/login", gin.H{"email": "alice@example.com", "password": "Sup3rSecret"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeBody(t, w)["data"].(map[string]any)
	tkn, _ := data["access_token"].(string)
	require.NotEmpty(t, tkn)
	return tkn
}

func TestRegisterEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := postJSON(t, r, "/api/auth/register", gin.H{"email": "alice@example.com", "password": "Sup3rSecret"}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])

	// Same email again: conflict, not a 500.
	w = postJSON(t, r, "/api/auth/register", gin.H{"email": "alice@example.com", "password": "Sup3rSecret"}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterEndpoint_BindingErrors(t *testing.T) {
	r := newTestRouter(t)

	w := postJSON(t, r, "/api/auth/register", gin.H{"email": "not-an-email", "password": "Sup3rSecret"}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = postJSON(t, r, "/api/auth/register", gin.H{"email": "alice@example.com", "password": "short"}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestLoginEndpoint_WrongPassword(t *testing.T) {
	r := newTestRouter(t)
	w := postJSON(t, r, "/api/auth/register", gin.H{"email": "alice@example.com", "password": "Sup3rSecret"}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, r, "/api/auth/login", gin.H{"email": "alice@example.com", "password": "WrongPass1"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Unknown account answers identically to a wrong password.
	w2 := postJSON(t, r, "/api/auth/login", gin.H{"email": "ghost@example.com", "password": "WrongPass1"}, nil)
	assert.Equal(t, w.Code, w2.Code)
	assert.Equal(t, decodeBody(t, w)["message"], decodeBody(t, w2)["message"])
}

func TestValidateEndpoint(t *testing.T) {
	r := newTestRouter(t)
	tkn := registerAndLogin(t, r)

	w := postJSON(t, r, "/api/auth/validate", gin.H{"token": tkn}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, true, data["is_valid"])

	w = postJSON(t, r, "/api/auth/validate", gin.H{"token": "garbage"}, nil)
	require.Equal(t, http.StatusOK, w.Code, "an invalid token is a result, not an error")
	data = decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, false, data["is_valid"])
}

func TestLogoutEndpoint(t *testing.T) {
	r := newTestRouter(t)
	tkn := registerAndLogin(t, r)
	authz := map[string]string{"Authorization": "Bearer " + tkn}

	w := postJSON(t, r, "/api/auth/logout", gin.H{}, authz)
	require.Equal(t, http.StatusOK, w.Code)

	// Token dies with the session.
	w = postJSON(t, r, "/api/auth/validate", gin.H{"token": tkn}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, false, data["is_valid"])

	// Repeating logout is still a success.
	w = postJSON(t, r, "/api/auth/logout", gin.H{}, authz)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogoutEndpoint_MissingToken(t *testing.T) {
	r := newTestRouter(t)
	w := postJSON(t, r, "/api/auth/logout", gin.H{}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMeEndpoint(t *testing.T) {
	r := newTestRouter(t)
	tkn := registerAndLogin(t, r)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+tkn)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, "alice@example.com", data["email"])

	// No token at all.
	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Tampered token.
	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+tkn+"x")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
