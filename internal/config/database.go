package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/planea/back/internal/platform/logger"
)

type DatabaseConfig struct {
	Host          string
	Port          string
	User          string
	Password      string
	DBName        string
	MigrationsDir string
	MaxRetries    int
	RetryInterval time.Duration
}

func LoadDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Host:          getEnv("DB_HOST", "localhost"),
		Port:          getEnv("DB_PORT", "3306"),
		User:          getEnv("DB_USER", "planea"),
		Password:      getEnv("DB_PASSWORD", "planea"),
		DBName:        getEnv("DB_NAME", "planea"),
		MigrationsDir: getEnv("DB_MIGRATIONS_DIR", "migrations"),
		MaxRetries:    getEnvInt("DB_MAX_RETRIES", 30),
		RetryInterval: 2 * time.Second,
	}
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local&multiStatements=true",
		c.User, c.Password, c.Host, c.Port, c.DBName)
}

// NewDatabaseWithRetry connects with retries, waiting for the database to
// come up, then applies the migrations directory.
func NewDatabaseWithRetry(cfg *DatabaseConfig, log *logger.Logger) (*sqlx.DB, error) {
	log.Info("📦 connecting to database", "user", cfg.User, "host", cfg.Host, "port", cfg.Port, "db", cfg.DBName)

	var lastErr error
	for i := 0; i < cfg.MaxRetries; i++ {
		db, err := sqlx.Connect("mysql", cfg.DSN())
		if err == nil {
			db.SetMaxOpenConns(25)
			db.SetMaxIdleConns(5)
			log.Info("✅ database connected", "db", cfg.DBName)

			if migErr := runMigrationFiles(db, cfg.MigrationsDir, log); migErr != nil {
				log.Warn("⚠️ migration warning", "error", migErr)
			}
			return db, nil
		}
		lastErr = err

		if i < cfg.MaxRetries-1 {
			log.Info("⏳ waiting for database", "attempt", i+1, "max", cfg.MaxRetries, "error", err)
			time.Sleep(cfg.RetryInterval)
		}
	}
	return nil, fmt.Errorf("database connection failed after %d attempts: %w", cfg.MaxRetries, lastErr)
}

// runMigrationFiles executes every .sql file in dir in lexical order.
func runMigrationFiles(db *sqlx.DB, dir string, log *logger.Logger) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("⚠️ migrations directory not found", "dir", dir)
			return nil
		}
		return fmt.Errorf("read migrations directory: %w", err)
	}

	var sqlFiles []string
	for _, file := range files {
		if !file.IsDir() && strings.HasSuffix(file.Name(), ".sql") {
			sqlFiles = append(sqlFiles, file.Name())
		}
	}
	sort.Strings(sqlFiles)

	for _, name := range sqlFiles {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("run migration %s: %w", name, err)
		}
		log.Info("📄 migration applied", "file", name)
	}
	return nil
}
