package db

import (
	"context"
	"testing"

	"github.com/emergency-shield/backend/config"
)

func TestNewConnectionSQLite(t *testing.T) {
	database, err := NewConnection(&config.DatabaseConfig{
		Driver:     DriverSQLite,
		SQLitePath: "file:" + t.Name() + "?mode=memory&cache=shared",
	})
	if err != nil {
		t.Fatalf("NewConnection returned error: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	if err := database.Migrate(); err != nil {
		t.Fatalf("Migrate returned error: %v", err)
	}
	for _, table := range []string{"users", "transactions", "goals", "loans", "emergency_funds", "emergency_fund_contributions", "shield_accounts", "email_queue"} {
		if !database.DB().Migrator().HasTable(table) {
			t.Errorf("table %s was not created", table)
		}
	}
	if !database.HealthCheck(context.Background()) {
		t.Error("HealthCheck = false, want true")
	}
}

func TestNewConnectionRejectsUnknownDriver(t *testing.T) {
	if _, err := NewConnection(&config.DatabaseConfig{Driver: "mysql"}); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
