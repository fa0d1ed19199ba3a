package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/teamboard-api/internal/auth"
	apierrors "github.com/yukikurage/teamboard-api/internal/errors"
	"github.com/yukikurage/teamboard-api/internal/models"
	"github.com/yukikurage/teamboard-api/internal/repository"
	"github.com/yukikurage/teamboard-api/internal/testutil"
)

type middlewareTestEnv struct {
	router *gin.Engine
	tokens *auth.TokenManager
	users  repository.UserRepository
	admin  *models.User
	member *models.User
}

func setupMiddlewareTestEnv(t *testing.T) middlewareTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	users := repository.NewUserRepository(db)
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	admin := &models.User{Email: "admin@example.com", Username: "admin", PasswordHash: "x", Roles: []models.Role{models.RoleAdmin}}
	member := &models.User{Email: "member@example.com", Username: "member", PasswordHash: "x", Roles: []models.Role{models.RoleUser}}
	require.NoError(t, users.Create(admin))
	require.NoError(t, users.Create(member))

	router := gin.New()
	whoami := func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"user_id": ""})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": identity.UserID})
	}
	router.GET("/private", RequireAuth(tokens, users), whoami)
	router.GET("/admin", RequireAuth(tokens, users), RequireAdmin(), whoami)
	router.GET("/lead", RequireAuth(tokens, users), RequireRole(models.RoleTeamLead), whoami)
	router.GET("/public", OptionalAuth(tokens, users), whoami)
	router.GET("/gate-only", RequireAdmin(), whoami)

	return middlewareTestEnv{router: router, tokens: tokens, users: users, admin: admin, member: member}
}

func (env middlewareTestEnv) issue(t *testing.T, user *models.User, teamLead bool) string {
	t.Helper()
	token, err := env.tokens.Issue(user.ID, user.RoleNames(), teamLead)
	require.NoError(t, err)
	return token
}

func doRequest(router http.Handler, path string, setup func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if setup != nil {
		setup(req)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apierrors.APIError {
	t.Helper()
	var body apierrors.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func bearer(token string) func(*http.Request) {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

func TestRequireAuth(t *testing.T) {
	env := setupMiddlewareTestEnv(t)

	t.Run("no token", func(t *testing.T) {
		w := doRequest(env.router, "/private", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Unauthorized: No token provided", decodeError(t, w).Message)
	})

	t.Run("bearer header", func(t *testing.T) {
		w := doRequest(env.router, "/private", bearer(env.issue(t, env.member, false)))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), env.member.ID)
	})

	t.Run("cookie wins over header", func(t *testing.T) {
		w := doRequest(env.router, "/private", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "token", Value: env.issue(t, env.admin, false)})
			r.Header.Set("Authorization", "Bearer "+env.issue(t, env.member, false))
		})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), env.admin.ID)
	})

	t.Run("bad signature", func(t *testing.T) {
		forged, err := auth.NewTokenManager("other", time.Hour).Issue(env.admin.ID, []string{"admin"}, false)
		require.NoError(t, err)

		w := doRequest(env.router, "/private", bearer(forged))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Unauthorized: Token verification failed", decodeError(t, w).Message)
	})

	t.Run("expired", func(t *testing.T) {
		expired, err := auth.NewTokenManager("test-secret", -time.Minute).Issue(env.admin.ID, []string{"admin"}, false)
		require.NoError(t, err)

		w := doRequest(env.router, "/private", bearer(expired))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		token, err := env.tokens.Issue("deleted-user", []string{"admin"}, false)
		require.NoError(t, err)

		w := doRequest(env.router, "/private", bearer(token))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Unauthorized: Invalid token", decodeError(t, w).Message)
	})
}

func TestRequireRole(t *testing.T) {
	env := setupMiddlewareTestEnv(t)

	w := doRequest(env.router, "/admin", bearer(env.issue(t, env.admin, false)))
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(env.router, "/admin", bearer(env.issue(t, env.member, false)))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Forbidden: Requires admin role", decodeError(t, w).Message)

	w = doRequest(env.router, "/lead", bearer(env.issue(t, env.member, true)))
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(env.router, "/gate-only", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Forbidden: No user logged in", decodeError(t, w).Message)
}

func TestRequireRole_UsesStoredRoles(t *testing.T) {
	env := setupMiddlewareTestEnv(t)

	// Token still claims admin, but the role was revoked afterwards.
	token := env.issue(t, env.admin, false)
	require.NoError(t, env.users.UpdateRoles(env.admin.ID, []models.Role{models.RoleUser}))

	w := doRequest(env.router, "/admin", bearer(token))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestOptionalAuth(t *testing.T) {
	env := setupMiddlewareTestEnv(t)

	w := doRequest(env.router, "/public", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":""}`, w.Body.String())

	w = doRequest(env.router, "/public", bearer("garbage"))
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(env.router, "/public", bearer(env.issue(t, env.member, false)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), env.member.ID)
}

func TestRecoveryAndRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	router := gin.New()
	router.Use(RequestLogger(logger), Recovery(logger))
	router.GET("/boom", func(c *gin.Context) {
		panic("kaboom")
	})
	router.GET("/ok", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := doRequest(router, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, apierrors.ErrCodeInternalError, body.Code)
	assert.Equal(t, "An unexpected error occurred", body.Message)

	w = doRequest(router, "/ok", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	out, err := io.ReadAll(&logs)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"panic":"kaboom"`)
	assert.Contains(t, string(out), `"path":"/ok"`)
	assert.Contains(t, string(out), `"status":500`)
}
