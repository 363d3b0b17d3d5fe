package contact

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"

	"brainiax-backend/internal/auth"
	"brainiax-backend/internal/config"
	"brainiax-backend/internal/database"
	"brainiax-backend/internal/middleware"
	"brainiax-backend/internal/model"
	"brainiax-backend/internal/utilities"
)

var testDB *database.Service

var testCfg = &config.Config{
	SecretKey:  "contact-test-secret",
	AdminToken: "contact-static-token",
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

func contactRouter() *gin.Engine {
	cc := NewController(testDB, nil)
	admin := middleware.RequireAdmin(testCfg)
	r := gin.Default()
	r.POST("/contacts", cc.Submit)
	r.GET("/admin/contacts", admin, cc.List)
	r.GET("/admin/contacts/:id", admin, cc.GetByID)
	r.PUT("/admin/contacts/:id", admin, cc.UpdateStatus)
	r.DELETE("/admin/contacts/:id", admin, cc.Delete)
	return r
}

func listContacts(t *testing.T, r *gin.Engine, query string) (int64, []interface{}) {
	t.Helper()
	rec, resp := utilities.MakeJSONRequest(nil, adminToken(t), r, "/admin/contacts"+query, http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	total, _ := resp["total"].(float64)
	items, _ := resp["items"].([]interface{})
	return int64(total), items
}

// adminToken logs nothing in; the static secret is enough here, but List is
// behind the bearer-capable gate, so mint a real token once.
func adminToken(t *testing.T) string {
	t.Helper()
	var admin model.AdminUser
	assert.NoError(t, testDB.Where("username = ?", database.TestAdminUsername).First(&admin).Error)

	token, err := auth.GenerateToken(testCfg.SecretKey, admin.ID, admin.Username)
	assert.NoError(t, err)
	return token
}

func TestSubmitAndList(t *testing.T) {
	r := contactRouter()

	rec, resp := utilities.MakeJSONRequest(gin.H{
		"name":    "Dana Lim",
		"email":   "dana@example.com",
		"company": "Acme Corp",
		"message": "Tell me about your pricing",
	}, "", r, "/contacts", http.MethodPost)
	assert.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	assert.Equal(t, "Submitted", resp["message"])

	_, items := listContacts(t, r, "")
	assert.NotEmpty(t, items)

	// Newest first, so the fresh submission leads and starts as new.
	first := items[0].(map[string]interface{})
	assert.Equal(t, "Dana Lim", first["name"])
	assert.Equal(t, model.ContactStatusNew, first["status"])
}

func TestSubmitValidation(t *testing.T) {
	r := contactRouter()

	rec, resp := utilities.MakeJSONRequest(gin.H{"name": "No Email"}, "", r, "/contacts", http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid data", resp["message"])

	rec, _ = utilities.MakeJSONRequest(gin.H{"email": "no-name@example.com"}, "", r, "/contacts", http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitIgnoresClientStatus(t *testing.T) {
	r := contactRouter()

	rec, _ := utilities.MakeJSONRequest(gin.H{
		"name":   "Eve Tan",
		"email":  "eve@example.com",
		"status": "resolved",
	}, "", r, "/contacts", http.MethodPost)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var stored model.Contact
	assert.NoError(t, testDB.Where("email = ?", "eve@example.com").First(&stored).Error)
	assert.Equal(t, model.ContactStatusNew, stored.Status)
}

func TestListStatusFilter(t *testing.T) {
	r := contactRouter()

	total, items := listContacts(t, r, "?status="+model.ContactStatusContacted)
	assert.GreaterOrEqual(t, total, int64(1))
	for _, raw := range items {
		item := raw.(map[string]interface{})
		assert.Equal(t, model.ContactStatusContacted, item["status"])
	}
}

func TestListPagination(t *testing.T) {
	r := contactRouter()

	total, items := listContacts(t, r, "?page=1&limit=1")
	assert.GreaterOrEqual(t, total, int64(2), "seed data provides at least two contacts")
	assert.Len(t, items, 1)

	_, secondPage := listContacts(t, r, "?page=2&limit=1")
	assert.Len(t, secondPage, 1)
	firstID := items[0].(map[string]interface{})["id"]
	secondID := secondPage[0].(map[string]interface{})["id"]
	assert.NotEqual(t, firstID, secondID)
}

func TestUpdateStatus(t *testing.T) {
	r := contactRouter()
	id := database.TestContactNew.ID.String()

	rec, resp := utilities.MakeJSONRequest(gin.H{"status": model.ContactStatusResolved},
		adminToken(t), r, "/admin/contacts/"+id, http.MethodPut)
	assert.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	assert.Equal(t, model.ContactStatusResolved, resp["status"])
	assert.Equal(t, database.TestContactNew.Name, resp["name"])
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	r := contactRouter()
	id := database.TestContactNew.ID.String()

	rec, resp := utilities.MakeJSONRequest(gin.H{"status": "archived"},
		adminToken(t), r, "/admin/contacts/"+id, http.MethodPut)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid status", resp["message"])
}

func TestGetByIDNotFound(t *testing.T) {
	r := contactRouter()

	rec, resp := utilities.MakeJSONRequest(nil, adminToken(t), r,
		"/admin/contacts/00000000-0000-0000-0000-000000000000", http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found", resp["message"])
}

func TestDeleteContact(t *testing.T) {
	r := contactRouter()

	victim := model.Contact{
		ContactSubmission: model.ContactSubmission{Name: "To Delete", Email: "gone@example.com"},
		Status:            model.ContactStatusNew,
		CreatedAt:         time.Now(),
	}
	assert.NoError(t, testDB.Create(&victim).Error)

	rec, resp := utilities.MakeJSONRequest(nil, adminToken(t), r,
		"/admin/contacts/"+victim.ID.String(), http.MethodDelete)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Deleted", resp["message"])

	rec, _ = utilities.MakeJSONRequest(nil, adminToken(t), r,
		"/admin/contacts/"+victim.ID.String(), http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
