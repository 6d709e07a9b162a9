package config

import (
	"fmt"
	"strings"
	"time"
)

type StorageKind string

const (
	StorageRemote   StorageKind = "remote"
	StorageDatabase StorageKind = "database"
	StorageOffline  StorageKind = "offline"
)

// StorageMode is the resolved storage variant:
// Remote(url, key) | Database(db) | Offline.
// Only the fields belonging to Kind are set.
type StorageMode struct {
	Kind     StorageKind
	URL      string
	Key      string
	Database DatabaseConfig
}

func RemoteConfigured(url, key string) StorageMode {
	return StorageMode{Kind: StorageRemote, URL: url, Key: key}
}

func DatabaseConfigured(db DatabaseConfig) StorageMode {
	return StorageMode{Kind: StorageDatabase, Database: db}
}

func OfflineMode() StorageMode {
	return StorageMode{Kind: StorageOffline}
}

// String never includes credentials.
func (m StorageMode) String() string {
	switch m.Kind {
	case StorageRemote:
		return fmt.Sprintf("remote(%s)", m.URL)
	case StorageDatabase:
		return fmt.Sprintf("database(%s/%s)", m.Database.Host, m.Database.Name)
	default:
		return string(StorageOffline)
	}
}

// ResolveStorageMode picks the storage variant from the environment.
// Missing settings are not an error: the service runs offline.
//
// Env:
// - SUPABASE_URL + SUPABASE_ANON_KEY (VITE_ prefixed names also accepted)
// - DEVIATION_STORE=mysql with DB_USER, DB_PASSWORD, DB_HOST, DB_PORT, DB_NAME
func ResolveStorageMode(getenv func(string) string) StorageMode {
	url := firstNonEmpty(getenv("SUPABASE_URL"), getenv("VITE_SUPABASE_URL"))
	key := firstNonEmpty(getenv("SUPABASE_ANON_KEY"), getenv("VITE_SUPABASE_ANON_KEY"))
	if url != "" && key != "" {
		return RemoteConfigured(url, key)
	}

	if strings.EqualFold(strings.TrimSpace(getenv("DEVIATION_STORE")), "mysql") {
		db := databaseFrom(getenv)
		if db.Configured() {
			return DatabaseConfigured(db)
		}
	}
	return OfflineMode()
}

type DatabaseConfig struct {
	User     string
	Password string
	Host     string
	Port     string
	Name     string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	ConnectAttempts int
}

func (c DatabaseConfig) Configured() bool {
	return c.User != "" && c.Host != "" && c.Name != ""
}

// DSN builds a go-sql-driver/mysql data source name.
// A Host of "/cloudsql/<CONNECTION_NAME>" connects through the unix socket of the Cloud SQL proxy.
func (c DatabaseConfig) DSN() string {
	network := "tcp"
	address := fmt.Sprintf("%s:%s", c.Host, c.Port)
	if strings.HasPrefix(c.Host, "/cloudsql/") {
		network = "unix"
		address = c.Host
	}
	return fmt.Sprintf("%s:%s@%s(%s)/%s?charset=utf8mb4&parseTime=true",
		c.User,
		c.Password,
		network,
		address,
		c.Name,
	)
}

func databaseFrom(getenv func(string) string) DatabaseConfig {
	port := strings.TrimSpace(getenv("DB_PORT"))
	if port == "" {
		port = "3306"
	}
	return DatabaseConfig{
		User:            strings.TrimSpace(getenv("DB_USER")),
		Password:        getenv("DB_PASSWORD"),
		Host:            strings.TrimSpace(getenv("DB_HOST")),
		Port:            port,
		Name:            strings.TrimSpace(getenv("DB_NAME")),
		MaxOpenConns:    intFrom(getenv, "DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:    intFrom(getenv, "DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: time.Duration(intFrom(getenv, "DB_CONN_MAX_LIFETIME_SECONDS", 300)) * time.Second,
		ConnMaxIdleTime: time.Duration(intFrom(getenv, "DB_CONN_MAX_IDLE_TIME_SECONDS", 60)) * time.Second,
		ConnectAttempts: intFrom(getenv, "DB_CONNECT_ATTEMPTS", 5),
	}
}
