package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.HTTP.Addr != ":8080" || c.HTTP.WriteTimeout != 10*time.Second {
		t.Fatalf("unexpected http defaults: %+v", c.HTTP)
	}
	if c.DB.Driver != DriverMemory {
		t.Fatalf("expected memory driver, got %q", c.DB.Driver)
	}
	if c.Schedule.UpcomingDays != 10 || c.Schedule.BackfillDays != 60 {
		t.Fatalf("unexpected schedule defaults: %+v", c.Schedule)
	}
	if c.Expiry.Schedule != "@every 1h" || c.Expiry.GraceDays != 3 {
		t.Fatalf("unexpected expiry defaults: %+v", c.Expiry)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LAWN_DB_DRIVER", "SQLite")
	t.Setenv("LAWN_DB_DSN", "/tmp/lawn.db")
	t.Setenv("LAWN_SCHEDULE_UPCOMING_DAYS", "14")

	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.DB.Driver != DriverSQLite || c.DB.DSN != "/tmp/lawn.db" {
		t.Fatalf("unexpected db config: %+v", c.DB)
	}
	if c.Schedule.UpcomingDays != 14 {
		t.Fatalf("expected 14 upcoming days, got %d", c.Schedule.UpcomingDays)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lawn.yaml")
	body := `
http:
  addr: ":9090"
expiry:
  schedule: "0 3 * * *"
  grace_days: 7
catalog:
  path: ./templates.yaml
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.HTTP.Addr != ":9090" || c.Expiry.Schedule != "0 3 * * *" || c.Expiry.GraceDays != 7 {
		t.Fatalf("file values not applied: %+v", c)
	}
	if c.Catalog.Path != "./templates.yaml" {
		t.Fatalf("unexpected catalog path %q", c.Catalog.Path)
	}
	// lo no definido en el archivo sigue con default
	if c.Schedule.BackfillDays != 60 {
		t.Fatalf("expected default backfill days, got %d", c.Schedule.BackfillDays)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"ok", func(*Config) {}, ""},
		{"unknown driver", func(c *Config) { c.DB.Driver = "mysql" }, "unknown db.driver"},
		{"postgres without dsn", func(c *Config) { c.DB.Driver = DriverPostgres }, "db.dsn required"},
		{"negative window", func(c *Config) { c.Schedule.UpcomingDays = -1 }, "upcoming_days"},
		{"negative grace", func(c *Config) { c.Expiry.GraceDays = -2 }, "grace_days"},
		{"two verifiers", func(c *Config) {
			c.Auth.JWTSecret = "s"
			c.Auth.GoTrueURL = "https://auth.example.com"
		}, "mutually exclusive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := FromViper(New())
			if err != nil {
				t.Fatalf("defaults: %v", err)
			}
			tt.mutate(&c)
			err = c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
