package gormdb

import (
	"context"
	"errors"
	"log"
	"os"
	"path"

	"nutrifit/backend/internal/domain"
	"nutrifit/backend/internal/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InMemoryDSN opens a private in-memory database, used by tests.
const InMemoryDSN = ":memory:"

// Open connects to the SQLite database at dbPath, applies pragmas suitable
// for a single-node service, migrates the schema and seeds the role table.
func Open(dbPath string, debug bool) (*gorm.DB, error) {
	if dbPath == "" {
		return nil, errors.New("database path cannot be empty")
	}
	inMemory := dbPath == InMemoryDSN

	dsn := dbPath
	if !inMemory {
		if err := os.MkdirAll(path.Dir(dbPath), 0o755); err != nil {
			return nil, err
		}
		dsn = dbPath + "?_journal_mode=WAL&_synchronous=NORMAL"
	}

	gormLogger := logger.Discard
	if debug {
		gormLogger = logger.Default
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if inMemory {
		// Every new pooled connection to ":memory:" would see its own empty
		// database, so the pool is pinned to a single connection.
		sqlDB.SetMaxOpenConns(1)
	}
	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		return nil, err
	}

	if err := migrate(db); err != nil {
		return nil, err
	}
	if err := seedRoles(db); err != nil {
		return nil, err
	}
	return db, nil
}

func migrate(db *gorm.DB) error {
	models := []interface{}{
		&domain.User{},
		&domain.RoleRecord{},
		&domain.Client{},
		&domain.WorkoutPlan{},
		&domain.WorkoutExercise{},
		&domain.WorkoutLog{},
		&domain.DietPlan{},
		&domain.DietEntry{},
		&domain.FoodItem{},
		&domain.ProtocolGoal{},
		&domain.GoalProgress{},
		&domain.Subscription{},
		&domain.Notification{},
		&domain.UserSettings{},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			log.Printf("ERROR: auto migrating %T: %v", m, err)
			return err
		}
	}
	return nil
}

// seedRoles makes sure the closed role set exists before any request is
// served. Registration and authorization both rely on these rows.
func seedRoles(db *gorm.DB) error {
	users := &userRepository{db: db}
	seeds := []struct {
		role        domain.Role
		description string
	}{
		{domain.RoleUser, "Default role"},
		{domain.RoleProfessional, "Coach or nutritionist managing clients"},
		{domain.RoleGym, "Gym account"},
		{domain.RoleAdmin, "Full administrative access"},
	}
	for _, seed := range seeds {
		if _, err := users.EnsureRole(context.Background(), string(seed.role), seed.description); err != nil {
			return err
		}
	}
	return nil
}

// translateError maps GORM errors onto the repository sentinel errors so
// services never depend on the driver.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repository.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return repository.ErrDuplicate
	}
	return err
}
