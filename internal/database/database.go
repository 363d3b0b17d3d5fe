// Package database implement connection to database service and initialize ORM.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	// Register the pgx stdlib driver.
	_ "github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"brainiax-backend/internal/config"
	"brainiax-backend/internal/model"
	"brainiax-backend/internal/utilities"
)

// Service holds the GORM DB instance and the configuration it was opened
// with. It is constructed once at startup and passed by reference into every
// handler.
type Service struct {
	*gorm.DB
	Config *Config
	// cached raw DB and mutex for lazy-init
	sqlDB *sql.DB
	mu    sync.RWMutex
}

// Config holds the connection parameters and the bootstrap admin credentials.
type Config struct {
	Host      string
	Port      string
	User      string
	Password  string
	DBName    string
	Constr    string
	UseConstr bool

	BootstrapUsername string
	BootstrapPassword string
}

// NewConfig derives a database Config from the process configuration.
func NewConfig(cfg *config.Config) *Config {
	return &Config{
		Host:      cfg.DBHost,
		Port:      cfg.DBPort,
		User:      cfg.DBUser,
		Password:  cfg.DBPassword,
		DBName:    cfg.DBName,
		Constr:    cfg.ConnStr,
		UseConstr: cfg.UseConnStr,

		BootstrapUsername: cfg.AdminUsername,
		BootstrapPassword: cfg.AdminPassword,
	}
}

// DSN returns the connection string used to open the database. The change
// feed listener dials with the same string.
func (c *Config) DSN() string {
	if c.UseConstr {
		if c.Constr == "" {
			log.Fatal("DB_CONNECTION_STR is empty")
		}
		return c.Constr
	}
	if c.Host == "" || c.Port == "" || c.User == "" || c.Password == "" || c.DBName == "" {
		log.Fatal("Database configuration is incomplete")
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", c.User, c.Password, c.Host, c.Port, c.DBName)
}

// NewService establishes a connection to the database, installs required
// extensions and change-notify triggers, migrates the schema and provisions
// the bootstrap admin account.
func NewService(config *Config) (*Service, error) {
	gdb, err := gorm.Open(postgres.Open(config.DSN()), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if gin.IsDebugging() {
		gdb = gdb.Debug()
	}

	svc := &Service{
		DB:     gdb,
		Config: config,
	}

	if err := svc.installExtension(); err != nil {
		return nil, fmt.Errorf("failed to install extension: %w", err)
	}
	if err := svc.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	if err := svc.installChangeNotify(); err != nil {
		return nil, fmt.Errorf("failed to install change triggers: %w", err)
	}
	svc.bootstrapAdmin()

	return svc, nil
}

// Migrate database
func (s *Service) Migrate() error {
	return s.AutoMigrate(model.MigrateAble...)
}

func (s *Service) installExtension() error {
	return s.WithContext(context.Background()).Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error
}

// changeChannels maps watched tables to the notification channel their
// triggers publish on.
var changeChannels = map[string]string{
	"jobs":     "job_change",
	"resumes":  "resume_change",
	"contacts": "contact_change",
}

// notifyFunction publishes each row change as {operation, document} JSON.
// pg_notify payloads are capped at 8000 bytes, so oversized documents degrade
// to an id-only snapshot instead of aborting the write.
const notifyFunction = `
CREATE OR REPLACE FUNCTION notify_row_change() RETURNS trigger AS $$
DECLARE
	doc json;
	payload text;
BEGIN
	IF TG_OP = 'DELETE' THEN
		doc := row_to_json(OLD);
	ELSE
		doc := row_to_json(NEW);
	END IF;
	payload := json_build_object('operation', TG_OP, 'document', doc)::text;
	IF octet_length(payload) > 7500 THEN
		payload := json_build_object('operation', TG_OP, 'document', json_build_object('id', doc->>'id'))::text;
	END IF;
	PERFORM pg_notify(TG_ARGV[0], payload);
	RETURN NULL;
END;
$$ LANGUAGE plpgsql;`

func (s *Service) installChangeNotify() error {
	if err := s.Exec(notifyFunction).Error; err != nil {
		return err
	}
	for table, channel := range changeChannels {
		drop := fmt.Sprintf(`DROP TRIGGER IF EXISTS %s_notify ON %s;`, table, table)
		if err := s.Exec(drop).Error; err != nil {
			return err
		}
		create := fmt.Sprintf(
			`CREATE TRIGGER %s_notify AFTER INSERT OR UPDATE OR DELETE ON %s FOR EACH ROW EXECUTE FUNCTION notify_row_change('%s');`,
			table, table, channel,
		)
		if err := s.Exec(create).Error; err != nil {
			return err
		}
	}
	return nil
}

// bootstrapAdmin provisions the default dashboard account when no user with
// the configured username exists yet.
func (s *Service) bootstrapAdmin() {
	username := s.Config.BootstrapUsername
	password := s.Config.BootstrapPassword

	if username == "" || password == "" {
		log.Println("Admin username or password not set, skipping admin creation")
		return
	}

	var count int64
	if err := s.Model(&model.AdminUser{}).Where("username = ?", username).Count(&count).Error; err != nil {
		log.Printf("Failed to check for existing admin: %v", err)
		return
	}
	if count > 0 {
		return
	}

	hash, err := utilities.HashPassword(password)
	if err != nil {
		log.Printf("Failed to hash bootstrap admin password: %v", err)
		return
	}
	admin := model.AdminUser{Username: username, PasswordHash: hash, CreatedAt: time.Now()}
	if err := s.Create(&admin).Error; err != nil {
		log.Printf("Failed to create bootstrap admin: %v", err)
		return
	}
	log.Printf("Default admin user created: %s (change the password after first login)", username)
}

// Raw returns the underlying *sql.DB, caching it after the first successful
// retrieval. It is safe for concurrent use.
func (s *Service) Raw() (*sql.DB, error) {
	if s == nil {
		return nil, fmt.Errorf("database service is nil")
	}

	// fast path: cached value
	s.mu.RLock()
	if s.sqlDB != nil {
		raw := s.sqlDB
		s.mu.RUnlock()
		return raw, nil
	}
	s.mu.RUnlock()

	// slow path: initialize
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sqlDB != nil {
		return s.sqlDB, nil
	}
	if s.DB == nil {
		return nil, fmt.Errorf("gorm DB is nil")
	}
	raw, err := s.DB.DB()
	if err != nil {
		return nil, err
	}
	s.sqlDB = raw
	return raw, nil
}

// Health checks the health of the database connection by pinging the
// database. It returns a map with keys indicating various health statistics.
func (s *Service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	stats := make(map[string]string)

	oriDB, err := s.Raw()
	if err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		log.Printf("db down: %v", err)
		return stats
	}

	if err := oriDB.PingContext(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		log.Printf("db down: %v", err)
		return stats
	}

	stats["status"] = "up"
	stats["message"] = "It's healthy"

	dbStats := oriDB.Stats()
	stats["open_connections"] = strconv.Itoa(dbStats.OpenConnections)
	stats["in_use"] = strconv.Itoa(dbStats.InUse)
	stats["idle"] = strconv.Itoa(dbStats.Idle)
	stats["wait_count"] = strconv.FormatInt(dbStats.WaitCount, 10)
	stats["wait_duration"] = dbStats.WaitDuration.String()

	if dbStats.WaitCount > 1000 {
		stats["message"] = "The database has a high number of wait events, indicating potential bottlenecks."
	}

	return stats
}

// Close closes the database connection.
func (s *Service) Close() error {
	log.Printf("Disconnected from database: %s", s.Config.DBName)
	oriDB, err := s.Raw()
	if err != nil {
		return err
	}
	return oriDB.Close()
}
