package database

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	m "brainiax-backend/internal/model"
)

var testService *Service
var teardown func(context.Context, ...testcontainers.TerminateOption) error

// Exported seeded fixtures for handler tests.
var (
	TestAdminUsername = "admin_user"
	TestSeedPassword  = "SeedPass123!"

	TestJobActive   m.Job
	TestJobSecond   m.Job
	TestJobInactive m.Job
	TestJobExpired  m.Job

	TestContactNew       m.Contact
	TestContactContacted m.Contact

	TestResume m.Resume
)

// GetTestDB starts a PostgreSQL test container and returns a teardown
// function, the database service, and any error encountered during setup.
func GetTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, *Service, error) {

	if testService != nil && teardown != nil {
		return teardown, testService, nil
	}

	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:latest",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), nat.Port("5432/tcp"))
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	config := &Config{
		UseConstr:         true,
		Constr:            fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", dbUser, dbPwd, dbHost, dbPort.Port(), dbName),
		BootstrapUsername: TestAdminUsername,
		BootstrapPassword: TestSeedPassword,
	}

	db, err := NewService(config)
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	if err := seedTestData(db); err != nil {
		_ = dbContainer.Terminate(context.Background())
		return nil, nil, err
	}

	testService = db
	teardown = dbContainer.Terminate

	return dbContainer.Terminate, db, nil
}

// seedTestData inserts sample jobs, contacts and a resume if the tables are
// empty, and assigns the exported fixture variables.
func seedTestData(db *Service) error {
	var jobCount int64
	if err := db.Model(&m.Job{}).Count(&jobCount).Error; err != nil {
		return err
	}
	if jobCount > 0 {
		return nil
	}

	now := time.Now()
	future := now.AddDate(0, 1, 0)
	past := now.AddDate(0, -1, 0)

	jobs := []m.Job{
		{
			EditableJobInfo: m.EditableJobInfo{
				Title:        "Customer Support Agent",
				Department:   "Operations",
				Location:     "Remote",
				Type:         "Full-time",
				Salary:       "Competitive",
				Description:  "Front-line support for enterprise clients.",
				Requirements: pq.StringArray{"Fluent English", "Night shift availability"},
				Benefits:     pq.StringArray{"Health insurance", "Remote work"},
				IsActive:     ptr(true),
				ValidityDate: &future,
			},
			PostedDate:  now.Add(-3 * time.Hour),
			UpdatedDate: now.Add(-3 * time.Hour),
		},
		{
			EditableJobInfo: m.EditableJobInfo{
				Title:        "Team Lead",
				Department:   "Operations",
				Location:     "Manila",
				Type:         "Full-time",
				Requirements: pq.StringArray{"3y experience"},
				Benefits:     pq.StringArray{},
				IsActive:     ptr(true),
			},
			PostedDate:  now.Add(-2 * time.Hour),
			UpdatedDate: now.Add(-2 * time.Hour),
		},
		{
			EditableJobInfo: m.EditableJobInfo{
				Title:    "Archived Role",
				IsActive: ptr(false),
			},
			PostedDate:  now.Add(-time.Hour),
			UpdatedDate: now.Add(-time.Hour),
		},
		{
			EditableJobInfo: m.EditableJobInfo{
				Title:        "Expired Role",
				IsActive:     ptr(true),
				ValidityDate: &past,
			},
			PostedDate:  now,
			UpdatedDate: now,
		},
	}
	if err := db.Create(&jobs).Error; err != nil {
		return err
	}
	TestJobActive = jobs[0]
	TestJobSecond = jobs[1]
	TestJobInactive = jobs[2]
	TestJobExpired = jobs[3]

	contacts := []m.Contact{
		{
			ContactSubmission: m.ContactSubmission{
				Name:    "Alice Santos",
				Email:   "alice@example.com",
				Message: "Interested in your services",
			},
			Status:    m.ContactStatusNew,
			CreatedAt: now.Add(-time.Hour),
		},
		{
			ContactSubmission: m.ContactSubmission{
				Name:  "Bob Reyes",
				Email: "bob@example.com",
				Phone: "0123456789",
			},
			Status:    m.ContactStatusContacted,
			CreatedAt: now,
		},
	}
	if err := db.Create(&contacts).Error; err != nil {
		return err
	}
	TestContactNew = contacts[0]
	TestContactContacted = contacts[1]

	resume := m.Resume{
		Name:           "Carol Cruz",
		Email:          "carol@example.com",
		Position:       "Customer Support Agent",
		JobID:          &TestJobActive.ID,
		ResumeURL:      "/uploads/seed-resume.pdf",
		ResumeFileName: "seed-resume.pdf",
		ResumeSize:     1024,
		CreatedAt:      now,
	}
	if err := db.Create(&resume).Error; err != nil {
		return err
	}
	TestResume = resume

	return nil
}

// ptr helper
func ptr[T any](v T) *T { return &v }
