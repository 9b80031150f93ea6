package database

import (
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ecinar/unified-inbox/environments"
	"github.com/ecinar/unified-inbox/pkg/logger"
)

func NewMySQLDB(cfg environments.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&collation=utf8mb4_unicode_ci",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName,
	)

	db, err := sqlx.Connect("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Infof("Connected to MySQL database")
	return db, nil
}

func RunMigrations(db *sqlx.DB) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id CHAR(36) PRIMARY KEY,
			email VARCHAR(255),
			first_name VARCHAR(100),
			last_name VARCHAR(100),
			role VARCHAR(20) NOT NULL DEFAULT 'VIEWER',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uq_users_email (email)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS contacts (
			id CHAR(36) PRIMARY KEY,
			name VARCHAR(100),
			phone VARCHAR(20),
			email VARCHAR(255),
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uq_contacts_phone (phone),
			UNIQUE KEY uq_contacts_email (email)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS threads (
			id CHAR(36) PRIMARY KEY,
			contact_id CHAR(36) NOT NULL,
			channel VARCHAR(20) NOT NULL,
			unread BOOLEAN NOT NULL DEFAULT FALSE,
			last_message_at DATETIME,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uq_threads_contact_channel (contact_id, channel),
			CONSTRAINT fk_threads_contact FOREIGN KEY (contact_id) REFERENCES contacts(id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS messages (
			id CHAR(36) PRIMARY KEY,
			thread_id CHAR(36) NOT NULL,
			direction VARCHAR(10) NOT NULL,
			channel VARCHAR(20) NOT NULL,
			body TEXT NOT NULL,
			media JSON,
			from_addr VARCHAR(50) NOT NULL,
			to_addr VARCHAR(50) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'SENT',
			channel_meta JSON,
			provider_sid VARCHAR(64),
			received_at DATETIME,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE KEY uq_messages_provider_sid (provider_sid),
			INDEX idx_messages_thread_created (thread_id, created_at),
			INDEX idx_messages_channel (channel),
			CONSTRAINT fk_messages_thread FOREIGN KEY (thread_id) REFERENCES threads(id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS scheduled_messages (
			id CHAR(36) PRIMARY KEY,
			thread_id CHAR(36),
			contact_id VARCHAR(50) NOT NULL,
			channel VARCHAR(20) NOT NULL,
			body TEXT NOT NULL,
			media JSON,
			scheduled_at DATETIME NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			INDEX idx_scheduled_status_due (status, scheduled_at),
			INDEX idx_scheduled_thread (thread_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS notes (
			id CHAR(36) PRIMARY KEY,
			thread_id CHAR(36) NOT NULL,
			author_id CHAR(36) NOT NULL,
			content TEXT NOT NULL,
			is_private BOOLEAN NOT NULL DEFAULT FALSE,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_notes_thread_created (thread_id, created_at),
			CONSTRAINT fk_notes_thread FOREIGN KEY (thread_id) REFERENCES threads(id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
	}

	for _, schema := range schemas {
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	logger.Infof("Database migrations completed")

	return nil
}

func SeedTestData(db *sqlx.DB) error {
	var count int

	err := db.Get(&count, "SELECT COUNT(*) FROM contacts")
	if err != nil {
		return err
	}

	if count > 0 {
		logger.Infof("Database already has %d contacts, skipping seed", count)
		return nil
	}

	testContacts := []struct {
		name  string
		phone string
	}{
		{"Ayşe Yılmaz", "+905551234567"},
		{"Mehmet Demir", "+905559876543"},
		{"Fatma Kaya", "+905551112233"},
		{"Ali Çelik", "+905554445566"},
	}

	for _, c := range testContacts {
		contactID := uuid.NewString()
		_, err := db.Exec(
			"INSERT INTO contacts (id, name, phone) VALUES (?, ?, ?)",
			contactID, c.name, c.phone,
		)
		if err != nil {
			return fmt.Errorf("failed to seed test data: %w", err)
		}

		_, err = db.Exec(
			"INSERT INTO threads (id, contact_id, channel) VALUES (?, ?, 'SMS')",
			uuid.NewString(), contactID,
		)
		if err != nil {
			return fmt.Errorf("failed to seed test data: %w", err)
		}
	}

	adminEmail := "admin@example.com"
	_, err = db.Exec(
		"INSERT INTO users (id, email, first_name, last_name, role) VALUES (?, ?, 'Admin', 'User', 'ADMIN')",
		uuid.NewString(), adminEmail,
	)
	if err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	logger.Infof("Seeded %d test contacts and an admin user", len(testContacts))
	return nil
}
