package cliparse

import "testing"

func TestParseFlagsDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DATABASE_TYPE", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := ParseFlags([]string{"-d", "file:dev.db", "-jwt-secret", "s3cret"})
	if err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	if cfg.Port != 8000 {
		t.Errorf("Expected default port 8000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("Expected default database type sqlite, got %q", cfg.DatabaseType)
	}
}

func TestParseFlagsEnvFallback(t *testing.T) {
	t.Setenv("PORT", "9001")
	t.Setenv("DATABASE_URL", "postgres://localhost/marketrank")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := ParseFlags(nil)
	if err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	if cfg.Port != 9001 {
		t.Errorf("Expected port 9001, got %d", cfg.Port)
	}
	if cfg.JWTSecret != "from-env" {
		t.Errorf("Expected secret from env, got %q", cfg.JWTSecret)
	}
}

func TestParseFlagsMissingDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "s")

	if _, err := ParseFlags(nil); err == nil {
		t.Error("Expected error for missing database URL")
	}
}

func TestParseFlagsMissingSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "file:dev.db")
	t.Setenv("JWT_SECRET", "")

	if _, err := ParseFlags(nil); err == nil {
		t.Error("Expected error for missing JWT secret")
	}
}

func TestParseFlagsBadDatabaseType(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")

	if _, err := ParseFlags([]string{"-d", "x", "-t", "mysql"}); err == nil {
		t.Error("Expected error for unsupported database type")
	}
}

func TestParseFlagsSetupAdmin(t *testing.T) {
	t.Setenv("DATABASE_URL", "file:dev.db")
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("SETUP_ADMIN_EMAIL", "")
	t.Setenv("SETUP_ADMIN_PASSWORD", "")
	t.Setenv("SETUP_INVITATIONS", "")

	cfg, err := ParseFlags([]string{
		"-setup-admin-email", "admin@example.com",
		"-setup-admin-password", "changeme123",
		"-setup-invitations", "10",
	})
	if err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	if cfg.SetupAdminEmail != "admin@example.com" {
		t.Errorf("Expected setup admin email, got %q", cfg.SetupAdminEmail)
	}
	if cfg.SetupInvitations != 10 {
		t.Errorf("Expected 10 setup invitations, got %d", cfg.SetupInvitations)
	}
}

func TestParseFlagsSetupAdminValidation(t *testing.T) {
	t.Setenv("DATABASE_URL", "file:dev.db")
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("SETUP_ADMIN_EMAIL", "")
	t.Setenv("SETUP_ADMIN_PASSWORD", "")
	t.Setenv("SETUP_INVITATIONS", "")

	// Admin without a usable password
	if _, err := ParseFlags([]string{"-setup-admin-email", "a@b.com", "-setup-admin-password", "short"}); err == nil {
		t.Error("Expected error for short setup password")
	}

	// Invitations without an admin to attribute them to
	if _, err := ParseFlags([]string{"-setup-invitations", "5"}); err == nil {
		t.Error("Expected error for setup invitations without admin")
	}

	// Out-of-range batch
	if _, err := ParseFlags([]string{
		"-setup-admin-email", "a@b.com",
		"-setup-admin-password", "changeme123",
		"-setup-invitations", "101",
	}); err == nil {
		t.Error("Expected error for oversized invitation batch")
	}
}
