package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SimonMekail/Karate-Club-Dashboard-sub001/internal/api/handler"
)

var testSecret = []byte("test-secret")

func TestAdminToken_RoundTrip(t *testing.T) {
	token, err := handler.GenerateAdminToken(testSecret, "sensei")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := handler.ValidateAdminToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "sensei", subject)
}

func TestAdminToken_WrongSecretRejected(t *testing.T) {
	token, err := handler.GenerateAdminToken(testSecret, "sensei")
	require.NoError(t, err)

	_, err = handler.ValidateAdminToken([]byte("other-secret"), token)
	assert.ErrorIs(t, err, handler.ErrInvalidToken)
}

func TestAdminToken_GarbageRejected(t *testing.T) {
	_, err := handler.ValidateAdminToken(testSecret, "not-a-jwt")
	assert.ErrorIs(t, err, handler.ErrInvalidToken)

	_, err = handler.ValidateAdminToken(testSecret, "")
	assert.ErrorIs(t, err, handler.ErrInvalidToken)
}

func newLoginRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handler.NewHandler(nil, testSecret, "sensei", "black-belt")
	r := gin.New()
	r.POST("/auth/token", h.Login)
	return r
}

func postLogin(t *testing.T, r *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLogin_IssuesValidToken(t *testing.T) {
	r := newLoginRouter()

	w := postLogin(t, r, gin.H{"username": "sensei", "password": "black-belt"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	subject, err := handler.ValidateAdminToken(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "sensei", subject)
}

func TestLogin_RejectsBadCredentials(t *testing.T) {
	r := newLoginRouter()

	w := postLogin(t, r, gin.H{"username": "sensei", "password": "white-belt"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postLogin(t, r, gin.H{"username": "intruder", "password": "black-belt"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_RejectsMissingFields(t *testing.T) {
	r := newLoginRouter()

	w := postLogin(t, r, gin.H{"username": "sensei"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
