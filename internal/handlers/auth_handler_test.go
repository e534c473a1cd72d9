package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"task-tracker-api/internal/auth"
	"task-tracker-api/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newLoginRouter(t *testing.T, enabled bool) (*gin.Engine, *auth.Issuer) {
	return newLoginRouterWith(t, enabled, func(*config.AuthConfig) {})
}

func newLoginRouterWith(t *testing.T, enabled bool, tweak func(*config.AuthConfig)) (*gin.Engine, *auth.Issuer) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	cfg := config.Default().Auth
	cfg.Enabled = enabled
	cfg.PasswordHash = hash
	tweak(&cfg)
	iss := auth.NewIssuer(cfg)

	r := gin.New()
	r.POST("/api/login", NewAuthHandler(iss, cfg).Login)
	return r, iss
}

func TestLogin_Success(t *testing.T) {
	r, iss := newLoginRouter(t, true)

	w := call(r, http.MethodPost, "/api/login", `{"username":"admin","password":"s3cret"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "admin", resp.Username)
	claims, err := iss.ValidateToken(resp.Token)
	require.NoError(t, err)
	require.Equal(t, "admin", claims.Username)
}

func TestLogin_Rejected(t *testing.T) {
	r, _ := newLoginRouter(t, true)

	require.Equal(t, http.StatusBadRequest, call(r, http.MethodPost, "/api/login", `{"username":"admin"}`).Code)
	require.Equal(t, http.StatusUnauthorized, call(r, http.MethodPost, "/api/login", `{"username":"admin","password":"nope"}`).Code)
	require.Equal(t, http.StatusUnauthorized, call(r, http.MethodPost, "/api/login", `{"username":"root","password":"s3cret"}`).Code)
}

func TestLogin_Disabled(t *testing.T) {
	r, _ := newLoginRouter(t, false)
	w := call(r, http.MethodPost, "/api/login", `{"username":"admin","password":"s3cret"}`)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestLogin_LockedOutAfterFailures(t *testing.T) {
	r, _ := newLoginRouterWith(t, true, func(cfg *config.AuthConfig) {
		cfg.MaxFailedLogins = 2
	})

	for i := 0; i < 2; i++ {
		w := call(r, http.MethodPost, "/api/login", `{"username":"admin","password":"nope"}`)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}
	w := call(r, http.MethodPost, "/api/login", `{"username":"admin","password":"s3cret"}`)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestLogin_SuccessResetsFailures(t *testing.T) {
	r, _ := newLoginRouterWith(t, true, func(cfg *config.AuthConfig) {
		cfg.MaxFailedLogins = 2
	})

	require.Equal(t, http.StatusUnauthorized, call(r, http.MethodPost, "/api/login", `{"username":"admin","password":"nope"}`).Code)
	require.Equal(t, http.StatusOK, call(r, http.MethodPost, "/api/login", `{"username":"admin","password":"s3cret"}`).Code)
	require.Equal(t, http.StatusUnauthorized, call(r, http.MethodPost, "/api/login", `{"username":"admin","password":"nope"}`).Code)
	require.Equal(t, http.StatusOK, call(r, http.MethodPost, "/api/login", `{"username":"admin","password":"s3cret"}`).Code)
}
