package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
	Tips     TipsConfig     `mapstructure:"tips" validate:"required"`
	Task     TaskConfig     `mapstructure:"task" validate:"required"`
	Garden   GardenConfig   `mapstructure:"garden" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig selects the storage backend.
// For sqlite the URL is a file path or DSN, for postgres a connection URL.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=sqlite postgres"`
	URL    string `mapstructure:"url" validate:"required"`
}

// LLMConfig contains all LLM integration related settings.
// An empty GeminiAPIKey disables remote generation; static tips are served instead.
type LLMConfig struct {
	GeminiAPIKey      string  `mapstructure:"gemini_api_key"`
	ModelName         string  `mapstructure:"model_name" validate:"required"`
	MaxRetries        int     `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryDelaySeconds int     `mapstructure:"retry_delay_seconds" validate:"gte=1,lte=60"`
	Temperature       float32 `mapstructure:"temperature" validate:"gte=0,lte=2"`
}

// Enabled reports whether a remote generator can be constructed.
func (c LLMConfig) Enabled() bool {
	return c.GeminiAPIKey != ""
}

// TipsConfig controls the device capability check in front of remote generation.
type TipsConfig struct {
	// DeviceMinMajor is the lowest hardware generation allowed to request generated tips.
	DeviceMinMajor int `mapstructure:"device_min_major" validate:"gte=1"`
	// DeviceOverride forces the check: "auto" inspects the model, "always" and "never" ignore it.
	DeviceOverride string `mapstructure:"device_override" validate:"required,oneof=auto always never"`
}

// TaskConfig sizes the background worker pool that runs tip generation.
type TaskConfig struct {
	WorkerCount int `mapstructure:"worker_count" validate:"gt=0,lte=64"`
	QueueSize   int `mapstructure:"queue_size" validate:"gt=0"`
}

// GardenConfig tunes plant placement.
type GardenConfig struct {
	PlacementAttempts int     `mapstructure:"placement_attempts" validate:"gt=0"`
	ItemSize          float64 `mapstructure:"item_size" validate:"gt=0"`
	MinGap            float64 `mapstructure:"min_gap" validate:"gte=0"`
}
