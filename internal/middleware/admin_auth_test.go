package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"brainiax-backend/internal/auth"
	"brainiax-backend/internal/config"
	"brainiax-backend/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var gateCfg = &config.Config{
	SecretKey:  "gate-test-secret",
	AdminToken: "gate-static-token",
}

// gateRouter exposes one guarded endpoint that echoes the attached identity.
func gateRouter(cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.GET("/guarded", RequireAdmin(cfg), func(c *gin.Context) {
		identity, ok := AdminFromContext(c)
		c.JSON(http.StatusOK, gin.H{"username": identity.Username, "hasIdentity": ok})
	})
	return r
}

func callGate(t *testing.T, r *gin.Engine, path string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, path, nil)
	assert.NoError(t, err)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func freshToken(t *testing.T, username string) string {
	t.Helper()
	token, err := auth.GenerateToken(gateCfg.SecretKey, uuid.New(), username)
	assert.NoError(t, err)
	return token
}

func TestRequireAdminStaticHeader(t *testing.T) {
	r := gateRouter(gateCfg)
	rec := callGate(t, r, "/guarded", map[string]string{"X-Admin-Token": gateCfg.AdminToken})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"hasIdentity":false`)
}

func TestRequireAdminStaticQuery(t *testing.T) {
	r := gateRouter(gateCfg)
	rec := callGate(t, r, "/guarded?adminToken="+gateCfg.AdminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdminQueryJWT(t *testing.T) {
	r := gateRouter(gateCfg)
	rec := callGate(t, r, "/guarded?adminToken="+freshToken(t, "query_admin"), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "query_admin")
}

func TestRequireAdminBearer(t *testing.T) {
	r := gateRouter(gateCfg)
	rec := callGate(t, r, "/guarded", map[string]string{
		"Authorization": "Bearer " + freshToken(t, "bearer_admin"),
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bearer_admin")
}

func TestRequireAdminRejections(t *testing.T) {
	r := gateRouter(gateCfg)

	cases := []struct {
		name   string
		path   string
		header map[string]string
	}{
		{"no credentials", "/guarded", nil},
		{"wrong static token", "/guarded", map[string]string{"X-Admin-Token": "nope"}},
		{"garbage query token", "/guarded?adminToken=garbage", nil},
		{"malformed header", "/guarded", map[string]string{"Authorization": "Token abc"}},
		{"tampered bearer", "/guarded", map[string]string{
			"Authorization": "Bearer " + freshToken(t, "x") + "xx",
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := callGate(t, r, tc.path, tc.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "Unauthorized")
		})
	}
}

func TestRequireAdminWithoutConfiguredSecret(t *testing.T) {
	r := gateRouter(&config.Config{})
	rec := callGate(t, r, "/guarded", map[string]string{"Authorization": "Bearer whatever"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "JWT not configured")
}

func TestRequireAdminEmptyStaticTokenNeverMatches(t *testing.T) {
	// With no static token configured, an empty header must not pass.
	r := gateRouter(&config.Config{SecretKey: gateCfg.SecretKey})
	rec := callGate(t, r, "/guarded", map[string]string{"X-Admin-Token": ""})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSettingsAuthPublicKey(t *testing.T) {
	r := gin.New()
	r.GET("/settings/:key", SettingsAuth(gateCfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"key": c.Param("key")})
	})

	rec := callGate(t, r, "/settings/"+model.SettingHiringBanner, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = callGate(t, r, "/settings/secretFlag", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = callGate(t, r, "/settings/secretFlag", map[string]string{"X-Admin-Token": gateCfg.AdminToken})
	assert.Equal(t, http.StatusOK, rec.Code)
}
