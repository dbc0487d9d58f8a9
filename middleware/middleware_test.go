package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ram-planner/backend/models"
	"ram-planner/backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubUserLoader struct {
	user models.User
	err  error
}

func (s stubUserLoader) GetByID(ctx context.Context, id string) (models.User, error) {
	return s.user, s.err
}

func sessionHandler(t *testing.T, loader UserLoader, manager *utils.JWTManager) http.Handler {
	t.Helper()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		require.True(t, ok)
		w.Write([]byte(user.Username))
	})
	return Session(manager, loader)(next)
}

func TestSessionRejectsMissingToken(t *testing.T) {
	manager := utils.NewJWTManager("secret", time.Hour)
	handler := sessionHandler(t, stubUserLoader{}, manager)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"message":"No token provided"}`, rec.Body.String())
}

func TestSessionRejectsInvalidToken(t *testing.T) {
	manager := utils.NewJWTManager("secret", time.Hour)
	handler := sessionHandler(t, stubUserLoader{}, manager)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer garbage")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Invalid token"}`, rec.Body.String())
}

func TestSessionRejectsDeletedUser(t *testing.T) {
	manager := utils.NewJWTManager("secret", time.Hour)
	user := models.User{ID: primitive.NewObjectID(), Username: "alice"}

	token, err := manager.GenerateToken(user.ID.Hex(), user.Username)
	require.NoError(t, err)

	handler := sessionHandler(t, stubUserLoader{err: assert.AnError}, manager)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionAcceptsCookieToken(t *testing.T) {
	manager := utils.NewJWTManager("secret", time.Hour)
	user := models.User{ID: primitive.NewObjectID(), Username: "alice"}

	token, err := manager.GenerateToken(user.ID.Hex(), user.Username)
	require.NoError(t, err)

	handler := sessionHandler(t, stubUserLoader{user: user}, manager)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", rec.Body.String())
}

func TestSessionAcceptsBearerToken(t *testing.T) {
	manager := utils.NewJWTManager("secret", time.Hour)
	user := models.User{ID: primitive.NewObjectID(), Username: "alice"}

	token, err := manager.GenerateToken(user.ID.Hex(), user.Username)
	require.NoError(t, err)

	handler := sessionHandler(t, stubUserLoader{user: user}, manager)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionPrefersCookieOverHeader(t *testing.T) {
	manager := utils.NewJWTManager("secret", time.Hour)
	user := models.User{ID: primitive.NewObjectID(), Username: "alice"}

	token, err := manager.GenerateToken(user.ID.Hex(), user.Username)
	require.NoError(t, err)

	handler := sessionHandler(t, stubUserLoader{user: user}, manager)

	// A stale header must not shadow a valid cookie.
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	req.Header.Set("Authorization", "Bearer garbage")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
