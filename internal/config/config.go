package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Config holds the configuration for the board gateway.
// Environment variables are parsed from the BOARDGATE_ prefix,
// e.g. BOARDGATE_HTTP_PORT, BOARDGATE_BOARD_API_URL.
type Config struct {
	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// APIKey, when set, is required as a bearer token on every route except
	// the health endpoint.
	APIKey string `envconfig:"API_KEY" default:""`

	// Upstream board service
	BoardAPIURL         string `envconfig:"BOARD_API_URL" default:"http://localhost:8088"`
	BoardAPIToken       string `envconfig:"BOARD_API_TOKEN" default:""`
	BoardTimeoutSeconds int    `envconfig:"BOARD_TIMEOUT_SECONDS" default:"30"`
	BoardPageSize       int    `envconfig:"BOARD_PAGE_SIZE" default:"100"`

	// Cache TTLs. Joined query results go stale quickly; asset metadata is
	// effectively immutable and can live much longer.
	CacheTTLSeconds      int `envconfig:"CACHE_TTL_SECONDS" default:"300"`
	AssetCacheTTLSeconds int `envconfig:"ASSET_CACHE_TTL_SECONDS" default:"3600"`

	// Workers board
	WorkersBoardID    string `envconfig:"WORKERS_BOARD_ID" default:""`
	WorkerEmailColumn string `envconfig:"WORKER_EMAIL_COLUMN" default:"email"`

	// Assignments board. The worker relation column is optional per
	// deployment; when unset, matching falls back to the email text column.
	AssignmentsBoardID       string `envconfig:"ASSIGNMENTS_BOARD_ID" default:""`
	AssignmentWorkerColumn   string `envconfig:"ASSIGNMENT_WORKER_COLUMN" default:""`
	AssignmentEmailColumn    string `envconfig:"ASSIGNMENT_EMAIL_COLUMN" default:"email"`
	AssignmentTimelineColumn string `envconfig:"ASSIGNMENT_TIMELINE_COLUMN" default:"timeline"`
	AssignmentJobColumn      string `envconfig:"ASSIGNMENT_JOB_COLUMN" default:"job"`
	AssignmentDescColumn     string `envconfig:"ASSIGNMENT_DESC_COLUMN" default:"description"`
	AssignmentFilesColumn    string `envconfig:"ASSIGNMENT_FILES_COLUMN" default:""`
	AssignmentStatusColumn   string `envconfig:"ASSIGNMENT_STATUS_COLUMN" default:"scope_status"`

	// Materials boards. The whole feature is optional: deployments without
	// the column mapping simply get no materials resolution.
	SubMaterialsBoardID    string `envconfig:"SUB_MATERIALS_BOARD_ID" default:""`
	MainMaterialsBoardID   string `envconfig:"MAIN_MATERIALS_BOARD_ID" default:""`
	MaterialTitleColumn    string `envconfig:"MATERIAL_TITLE_COLUMN" default:""`
	MaterialNotesColumn    string `envconfig:"MATERIAL_NOTES_COLUMN" default:""`
	MaterialStatusColumn   string `envconfig:"MATERIAL_STATUS_COLUMN" default:""`
	MaterialSupplierColumn string `envconfig:"MATERIAL_SUPPLIER_COLUMN" default:""`

	// Timesheet board
	TimesheetBoardID     string `envconfig:"TIMESHEET_BOARD_ID" default:""`
	TimesheetEmailColumn string `envconfig:"TIMESHEET_EMAIL_COLUMN" default:"email"`
	TimesheetGroupColumn string `envconfig:"TIMESHEET_GROUP_COLUMN" default:"group"`
	TimesheetHoursColumn string `envconfig:"TIMESHEET_HOURS_COLUMN" default:"hours"`

	// API paging
	DefaultPageLimit int `envconfig:"DEFAULT_PAGE_LIMIT" default:"20"`
	MaxPageLimit     int `envconfig:"MAX_PAGE_LIMIT" default:"100"`

	// Health probes
	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"30"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"2"`
}

// Validate checks the values a running gateway cannot do without.
func (c *Config) Validate() error {
	if c.HTTPPort <= 0 {
		return fmt.Errorf("invalid HTTP_PORT: %d", c.HTTPPort)
	}
	if c.BoardAPIURL == "" {
		return fmt.Errorf("BOARD_API_URL is required")
	}
	if c.BoardTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid BOARD_TIMEOUT_SECONDS: %d", c.BoardTimeoutSeconds)
	}
	if c.BoardPageSize <= 0 {
		return fmt.Errorf("invalid BOARD_PAGE_SIZE: %d", c.BoardPageSize)
	}
	if c.DefaultPageLimit <= 0 || c.MaxPageLimit < c.DefaultPageLimit {
		return fmt.Errorf("invalid page limits: default %d, max %d", c.DefaultPageLimit, c.MaxPageLimit)
	}
	return nil
}

// MaterialsConfigured reports whether the materials column mapping is
// complete enough to resolve materials at all.
func (c *Config) MaterialsConfigured() bool {
	return c.MaterialTitleColumn != "" && c.MaterialNotesColumn != "" && c.MaterialStatusColumn != ""
}

// New creates a new Config by parsing environment variables.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("BOARDGATE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Info().
		Int("http_port", cfg.HTTPPort).
		Str("board_api_url", cfg.BoardAPIURL).
		Int("board_timeout_seconds", cfg.BoardTimeoutSeconds).
		Int("cache_ttl_seconds", cfg.CacheTTLSeconds).
		Bool("materials_configured", cfg.MaterialsConfigured()).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config with a full column mapping for tests.
func NewForTesting() *Config {
	return &Config{
		HTTPPort:            8080,
		BoardAPIURL:         "http://localhost:8088",
		BoardTimeoutSeconds: 30,
		BoardPageSize:       100,

		CacheTTLSeconds:      300,
		AssetCacheTTLSeconds: 3600,

		WorkersBoardID:    "workers",
		WorkerEmailColumn: "email",

		AssignmentsBoardID:       "assignments",
		AssignmentWorkerColumn:   "worker",
		AssignmentEmailColumn:    "email",
		AssignmentTimelineColumn: "timeline",
		AssignmentJobColumn:      "job",
		AssignmentDescColumn:     "description",
		AssignmentFilesColumn:    "files",
		AssignmentStatusColumn:   "scope_status",

		SubMaterialsBoardID:    "sub-materials",
		MainMaterialsBoardID:   "main-materials",
		MaterialTitleColumn:    "title",
		MaterialNotesColumn:    "notes",
		MaterialStatusColumn:   "status",
		MaterialSupplierColumn: "supplier",

		TimesheetBoardID:     "timesheets",
		TimesheetEmailColumn: "email",
		TimesheetGroupColumn: "group",
		TimesheetHoursColumn: "hours",

		DefaultPageLimit: 20,
		MaxPageLimit:     100,

		HealthIntervalSeconds:     30,
		HealthProbeTimeoutSeconds: 2,
	}
}
