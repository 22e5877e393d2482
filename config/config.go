package config

import (
	"github.com/spf13/viper"
)

// StoreBackend selects which Repository implementation backs the catalog.
type StoreBackend string

const (
	BackendSQLite StoreBackend = "sqlite" // Durable store (default)
	BackendMemory StoreBackend = "memory" // In-memory store for offline use
)

type (
	Config struct {
		Store
		Loan
	}

	Store struct {
		Backend StoreBackend
		Path    string // SQLite database file
		Table   string // Books table name
	}
	Loan struct {
		Weeks int // Loan period applied on checkout
	}
)

// NewConfig reads configuration from the environment, falling back to
// defaults suitable for a local single-user install.
func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("store_backend", string(BackendSQLite))
	v.SetDefault("database_path", "library.db")
	v.SetDefault("books_table", "books")
	v.SetDefault("loan_weeks", 4)

	cfg := &Config{
		Store: Store{
			Backend: StoreBackend(v.GetString("STORE_BACKEND")),
			Path:    v.GetString("DATABASE_PATH"),
			Table:   v.GetString("BOOKS_TABLE"),
		},
		Loan: Loan{
			Weeks: v.GetInt("LOAN_WEEKS"),
		},
	}

	if cfg.Store.Backend != BackendMemory {
		cfg.Store.Backend = BackendSQLite
	}
	if cfg.Loan.Weeks < 1 {
		cfg.Loan.Weeks = 4
	}

	return cfg
}
