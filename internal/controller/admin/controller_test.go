package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"

	"brainiax-backend/internal/config"
	"brainiax-backend/internal/database"
	"brainiax-backend/internal/middleware"
	"brainiax-backend/internal/model"
	"brainiax-backend/internal/utilities"
)

var testDB *database.Service

var testCfg = &config.Config{
	SecretKey:  "admin-test-secret",
	AdminToken: "admin-static-token",
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	var err error
	var teardown func(context.Context, ...testcontainers.TerminateOption) error
	teardown, testDB, err = database.GetTestDB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start test db: %v\n", err)
		os.Exit(1)
	}
	m.Run()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if teardown != nil {
		_ = teardown(ctx)
	}
}

func adminRouter() *gin.Engine {
	ac := NewController(testDB)
	r := gin.Default()
	r.GET("/admin/stats", middleware.RequireAdmin(testCfg), ac.Stats)
	r.GET("/admin/settings/:key", middleware.SettingsAuth(testCfg), ac.GetSetting)
	r.PUT("/admin/settings/:key", middleware.RequireAdmin(testCfg), ac.PutSetting)
	return r
}

// adminGet calls a route without credentials; used for the public setting.
func adminGet(t *testing.T, r *gin.Engine, path string) map[string]interface{} {
	t.Helper()
	rec, resp := utilities.MakeJSONRequest(nil, "", r, path, http.MethodGet)
	if rec.Code == http.StatusUnauthorized {
		t.Fatalf("route unexpectedly rejected the request: %s", rec.Body.String())
	}
	return resp
}

// adminPut drives a route with the static admin token and returns the status
// code and parsed body.
func adminPut(t *testing.T, r *gin.Engine, method, path string, body gin.H) (int, map[string]interface{}) {
	t.Helper()
	payload, err := json.Marshal(body)
	assert.NoError(t, err)

	req, err := http.NewRequest(method, path, bytes.NewReader(payload))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Admin-Token", testCfg.AdminToken)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	resp := map[string]interface{}{}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec.Code, resp
}

func TestStats(t *testing.T) {
	r := adminRouter()

	rec, resp := adminPut(t, r, http.MethodGet, "/admin/stats", nil)
	assert.Equal(t, http.StatusOK, rec, "stats call failed")

	var totalJobs, activeJobs, totalContacts, newContacts int64
	assert.NoError(t, testDB.Model(&model.Job{}).Count(&totalJobs).Error)
	assert.NoError(t, testDB.Model(&model.Job{}).
		Where("is_active = ? AND (validity_date IS NULL OR validity_date > ?)", true, time.Now()).
		Count(&activeJobs).Error)
	assert.NoError(t, testDB.Model(&model.Contact{}).Count(&totalContacts).Error)
	assert.NoError(t, testDB.Model(&model.Contact{}).
		Where("status = ?", model.ContactStatusNew).Count(&newContacts).Error)

	assert.Equal(t, float64(totalJobs), resp["totalJobs"])
	assert.Equal(t, float64(activeJobs), resp["activeJobs"])
	assert.Equal(t, float64(totalContacts), resp["totalContacts"])
	assert.Equal(t, float64(newContacts), resp["newContacts"])
	assert.Less(t, resp["activeJobs"], resp["totalJobs"], "seed data includes inactive and expired postings")

	recent, ok := resp["recentResumes"].([]interface{})
	assert.True(t, ok)
	assert.LessOrEqual(t, len(recent), 5)
	assert.NotEmpty(t, recent)

	recentContacts, ok := resp["recentContacts"].([]interface{})
	assert.True(t, ok)
	assert.LessOrEqual(t, len(recentContacts), 5)
}

func TestGetSettingDefaults(t *testing.T) {
	r := adminRouter()

	// The hiring banner reads false before anyone sets it, without auth.
	resp := adminGet(t, r, "/admin/settings/"+model.SettingHiringBanner)
	assert.Equal(t, false, resp["value"])

	// Other unset keys read null, behind the gate.
	rec, resp := adminPut(t, r, http.MethodGet, "/admin/settings/maintenanceMode", nil)
	assert.Equal(t, http.StatusOK, rec)
	assert.Nil(t, resp["value"])
}

func TestPutSettingRoundTrip(t *testing.T) {
	r := adminRouter()

	rec, resp := adminPut(t, r, http.MethodPut, "/admin/settings/"+model.SettingHiringBanner, gin.H{"value": true})
	assert.Equal(t, http.StatusOK, rec)
	assert.Equal(t, true, resp["value"])

	// Publicly visible immediately.
	resp = adminGet(t, r, "/admin/settings/"+model.SettingHiringBanner)
	assert.Equal(t, true, resp["value"])

	// Overwrite with a structured value.
	rec, resp = adminPut(t, r, http.MethodPut, "/admin/settings/"+model.SettingHiringBanner,
		gin.H{"value": gin.H{"enabled": false, "text": "We are hiring"}})
	assert.Equal(t, http.StatusOK, rec)

	resp = adminGet(t, r, "/admin/settings/"+model.SettingHiringBanner)
	value, ok := resp["value"].(map[string]interface{})
	assert.True(t, ok, "structured values round-trip unchanged")
	assert.Equal(t, "We are hiring", value["text"])
}

func TestPutSettingValidation(t *testing.T) {
	r := adminRouter()

	rec, resp := adminPut(t, r, http.MethodPut, "/admin/settings/whatever", gin.H{})
	assert.Equal(t, http.StatusBadRequest, rec)
	assert.Equal(t, "Invalid data", resp["message"])
}

func TestSettingsGateNonPublicKeys(t *testing.T) {
	r := adminRouter()

	rec, _ := utilities.MakeJSONRequest(nil, "", r, "/admin/settings/maintenanceMode", http.MethodGet)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = utilities.MakeJSONRequest(gin.H{"value": true}, "", r,
		"/admin/settings/"+model.SettingHiringBanner, http.MethodPut)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "writes always require credentials")
}
