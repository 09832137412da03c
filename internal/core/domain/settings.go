package domain

import (
	"fmt"
	"net/url"
)

const unknownDescription = "Unknown"

// DefaultFeedBaseURL is the public asset API the browser reads from.
const DefaultFeedBaseURL = "https://api.coincap.io/v2"

// StorageBackend identifies where the durable selection record lives.
type StorageBackend string

// Available storage backends.
const (
	// StorageBackendSQLite stores records in a local SQLite database.
	StorageBackendSQLite StorageBackend = "sqlite"

	// StorageBackendFile stores each record as a JSON file and watches it for
	// changes made by other processes.
	StorageBackendFile StorageBackend = "file"

	// StorageBackendMemory keeps records for the lifetime of the process only.
	StorageBackendMemory StorageBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageBackendSQLite, StorageBackendFile, StorageBackendMemory:
		return true
	default:
		return false
	}
}

// IsDurable returns true if records survive a restart.
func (b StorageBackend) IsDurable() bool {
	return b == StorageBackendSQLite || b == StorageBackendFile
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b StorageBackend) Description() string {
	switch b {
	case StorageBackendSQLite:
		return "SQLite (local database)"
	case StorageBackendFile:
		return "File (JSON, watched for changes)"
	case StorageBackendMemory:
		return "Memory (not persisted)"
	default:
		return unknownDescription
	}
}

// AllStorageBackends returns all available storage backends.
func AllStorageBackends() []StorageBackend {
	return []StorageBackend{
		StorageBackendSQLite,
		StorageBackendFile,
		StorageBackendMemory,
	}
}

// FeedSettings holds asset feed configuration.
type FeedSettings struct {
	// BaseURL is the API endpoint, without a trailing /assets.
	BaseURL string

	// APIKey is sent as a bearer token when set.
	APIKey string

	// Limit is the number of assets requested per listing.
	Limit int

	// TimeoutSeconds bounds each HTTP request.
	TimeoutSeconds int

	// RequestsPerSecond is the sustained client-side request rate.
	RequestsPerSecond float64
}

// Validate checks the feed settings.
func (f FeedSettings) Validate() error {
	u, err := url.Parse(f.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: feed base URL %q", ErrInvalidInput, f.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: feed base URL scheme %q", ErrInvalidInput, u.Scheme)
	}
	if f.Limit < 1 || f.Limit > MaxFeedLimit {
		return fmt.Errorf("%w: feed limit %d (1-%d)", ErrInvalidInput, f.Limit, MaxFeedLimit)
	}
	if f.TimeoutSeconds < 1 {
		return fmt.Errorf("%w: feed timeout %ds", ErrInvalidInput, f.TimeoutSeconds)
	}
	if f.RequestsPerSecond <= 0 {
		return fmt.Errorf("%w: feed rate %.2f/s", ErrInvalidInput, f.RequestsPerSecond)
	}
	return nil
}

// MaxFeedLimit is the largest page the feed serves.
const MaxFeedLimit = 2000

// StorageSettings holds durable storage configuration.
type StorageSettings struct {
	// Backend selects the storage implementation.
	Backend StorageBackend

	// DataDir is where durable backends keep their files.
	// Empty means ~/.assetdeck/data.
	DataDir string
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Feed holds asset feed settings.
	Feed FeedSettings

	// Storage holds durable storage settings.
	Storage StorageSettings
}

// Validate checks every section.
func (s AppSettings) Validate() error {
	if err := s.Feed.Validate(); err != nil {
		return err
	}
	if !s.Storage.Backend.IsValid() {
		return fmt.Errorf("%w: storage backend %q", ErrUnsupportedType, s.Storage.Backend)
	}
	return nil
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Feed: FeedSettings{
			BaseURL:           DefaultFeedBaseURL,
			Limit:             100, // the feed's own default page size
			TimeoutSeconds:    15,
			RequestsPerSecond: 2,
		},
		Storage: StorageSettings{
			Backend: StorageBackendSQLite,
		},
	}
}
