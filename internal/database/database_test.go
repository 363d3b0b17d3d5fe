package database

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"

	"brainiax-backend/internal/events"
	"brainiax-backend/internal/model"
	"brainiax-backend/internal/utilities"
)

var testDB *Service

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	var err error
	var teardown func(context.Context, ...testcontainers.TerminateOption) error
	teardown, testDB, err = GetTestDB()
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

func TestHealth(t *testing.T) {
	health := testDB.Health()
	assert.Equal(t, "up", health["status"])
	assert.NotEmpty(t, health["open_connections"])
}

func TestMigrationCoversAllModels(t *testing.T) {
	for _, table := range []string{"jobs", "contacts", "resumes", "admin_users", "settings"} {
		assert.True(t, testDB.Migrator().HasTable(table), "table %q missing", table)
	}
}

func TestBootstrapAdmin(t *testing.T) {
	var admin model.AdminUser
	err := testDB.Where("username = ?", TestAdminUsername).First(&admin).Error
	assert.NoError(t, err)
	assert.True(t, utilities.VerifyPassword(TestSeedPassword, admin.PasswordHash))

	// Bootstrap is idempotent: running it again must not duplicate or
	// overwrite the account.
	testDB.bootstrapAdmin()
	var count int64
	assert.NoError(t, testDB.Model(&model.AdminUser{}).Where("username = ?", TestAdminUsername).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAdminUserCreationSetsCreatedAt(t *testing.T) {
	var seeded model.AdminUser
	assert.NoError(t, testDB.Where("username = ?", TestAdminUsername).First(&seeded).Error)
	assert.False(t, seeded.CreatedAt.IsZero())

	// Creation paths that do not set the instant explicitly still get one.
	account := model.AdminUser{Username: "created_at_check", PasswordHash: "irrelevant"}
	assert.NoError(t, testDB.Create(&account).Error)

	var reloaded model.AdminUser
	assert.NoError(t, testDB.Where("username = ?", "created_at_check").First(&reloaded).Error)
	assert.False(t, reloaded.CreatedAt.IsZero(), "created instant must never be the zero time")
}

func TestChangeTriggersFeedTheListener(t *testing.T) {
	feed := events.NewFeed()
	defer feed.Close()
	assert.NoError(t, feed.Start(testDB.Config.DSN()))

	sub := feed.Subscribe()
	defer sub.Close()

	// pq.Listener attaches asynchronously; give it a moment before the
	// write, then retry until the notification arrives.
	time.Sleep(500 * time.Millisecond)

	job := model.Job{
		EditableJobInfo: model.EditableJobInfo{Title: "Trigger Probe"},
		PostedDate:      time.Now(),
		UpdatedDate:     time.Now(),
	}
	assert.NoError(t, testDB.Create(&job).Error)

	select {
	case ev := <-sub.C:
		assert.Equal(t, "job-change", ev.Name)

		var payload struct {
			Operation string          `json:"operation"`
			Document  json.RawMessage `json:"document"`
		}
		assert.NoError(t, json.Unmarshal(ev.Payload, &payload))
		assert.Equal(t, "INSERT", payload.Operation)
		assert.Contains(t, string(payload.Document), "Trigger Probe")
	case <-time.After(5 * time.Second):
		t.Fatal("no notification for the inserted row")
	}

	// Deletes notify too, carrying the old row.
	assert.NoError(t, testDB.Delete(&job).Error)
	select {
	case ev := <-sub.C:
		assert.Equal(t, "job-change", ev.Name)
		var payload struct {
			Operation string `json:"operation"`
		}
		assert.NoError(t, json.Unmarshal(ev.Payload, &payload))
		assert.Equal(t, "DELETE", payload.Operation)
	case <-time.After(5 * time.Second):
		t.Fatal("no notification for the deleted row")
	}
}

func TestDSNRoundTrip(t *testing.T) {
	cfg := &Config{
		Host: "db.internal", Port: "5432", User: "svc", Password: "pw", DBName: "site",
	}
	assert.Equal(t, "postgres://svc:pw@db.internal:5432/site?sslmode=disable", cfg.DSN())

	constr := &Config{UseConstr: true, Constr: "postgres://elsewhere/db"}
	assert.Equal(t, "postgres://elsewhere/db", constr.DSN())
}
