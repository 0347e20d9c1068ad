package repositories

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/otabek-dev/poytaxt_bot/internal/models"
	"github.com/otabek-dev/poytaxt_bot/pkg/errors"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.CapitalFact{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestCapitalRepository_AllFacts_Empty(t *testing.T) {
	repo := NewCapitalRepository(openTestDB(t))

	_, err := repo.AllFacts()
	if err == nil {
		t.Fatal("AllFacts() expected error for empty table, got nil")
	}
	if code := errors.CodeOf(err); code != errors.ErrCodeNoData {
		t.Errorf("error code = %q, want %q", code, errors.ErrCodeNoData)
	}
}

func TestCapitalRepository_AllFacts_CachesAfterFirstLoad(t *testing.T) {
	db := openTestDB(t)
	db.Create(&[]models.CapitalFact{
		{Country: "Fransiya", Capital: "Parij"},
		{Country: "Yaponiya", Capital: "Tokio"},
	})

	repo := NewCapitalRepository(db)

	first, err := repo.AllFacts()
	if err != nil {
		t.Fatalf("AllFacts() error = %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("len(facts) = %d, want 2", len(first))
	}

	// Rows added after the first read are not visible through the cache.
	db.Create(&models.CapitalFact{Country: "Italiya", Capital: "Rim"})

	second, err := repo.AllFacts()
	if err != nil {
		t.Fatalf("AllFacts() error = %v", err)
	}
	if len(second) != 2 {
		t.Errorf("cached len(facts) = %d, want 2", len(second))
	}

	count, err := repo.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 3 {
		t.Errorf("Count() = %d, want 3", count)
	}
}
