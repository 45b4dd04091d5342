package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	JWTSecret    string

	// First-run bootstrap (optional): create the initial admin and a
	// batch of invitations, then continue serving
	SetupAdminEmail    string
	SetupAdminPassword string
	SetupInvitations   int
}

// ParseFlags validates flags and sets port number
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("marketrank", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", "", "Access token signing secret (prefer env)")

	// Bootstrap of an empty database
	fs.StringVar(&cfg.SetupAdminEmail, "setup-admin-email", "", "Create/promote the initial admin with this email")
	fs.StringVar(&cfg.SetupAdminPassword, "setup-admin-password", "", "Password for the initial admin (prefer env)")
	fs.IntVar(&cfg.SetupInvitations, "setup-invitations", 0, "Number of invitations to mint during setup")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 8000 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}

	// Secrets - MUST be provided
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = os.Getenv("JWT_SECRET")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET required")
	}

	// Bootstrap settings
	if cfg.SetupAdminEmail == "" {
		cfg.SetupAdminEmail = os.Getenv("SETUP_ADMIN_EMAIL")
	}
	if cfg.SetupAdminPassword == "" {
		cfg.SetupAdminPassword = os.Getenv("SETUP_ADMIN_PASSWORD")
	}
	if cfg.SetupInvitations == 0 {
		if countStr := os.Getenv("SETUP_INVITATIONS"); countStr != "" {
			count, err := strconv.Atoi(countStr)
			if err != nil {
				return Config{}, errors.New("invalid SETUP_INVITATIONS env variable")
			}
			cfg.SetupInvitations = count
		}
	}
	if cfg.SetupAdminEmail != "" && len(cfg.SetupAdminPassword) < 8 {
		return Config{}, errors.New("setup admin password must be at least 8 characters")
	}
	if cfg.SetupInvitations < 0 || cfg.SetupInvitations > 100 {
		return Config{}, errors.New("setup invitations must be between 0 and 100")
	}
	if cfg.SetupInvitations > 0 && cfg.SetupAdminEmail == "" {
		return Config{}, errors.New("setup invitations require a setup admin")
	}

	return cfg, nil
}
