package config

// Backend selects which store implementation to open.
type Backend string

const (
	// BackendSQLite is the embedded single-file store.
	BackendSQLite Backend = "sqlite"
	// BackendMySQL is the client-server store.
	BackendMySQL Backend = "mysql"
)

// Config is the root configuration structure
type Config struct {
	Version int           `yaml:"version"`
	Backend Backend       `yaml:"backend"`
	SQLite  SQLiteConfig  `yaml:"sqlite"`
	MySQL   MySQLConfig   `yaml:"mysql,omitempty"`
	Metrics MetricsConfig `yaml:"metrics,omitempty"`
}

// SQLiteConfig locates the embedded database file
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// MySQLConfig holds the client-server connection parameters. The
// password is normally supplied through FACTBOT_MYSQL_PASSWORD rather
// than written to the file.
type MySQLConfig struct {
	Host     string `yaml:"host"`
	User     string `yaml:"user"`
	Password string `yaml:"password,omitempty"`
	Database string `yaml:"database"`
}

// MetricsConfig controls the Prometheus exposition endpoint
type MetricsConfig struct {
	Addr string `yaml:"addr,omitempty"` // empty disables the endpoint
}
