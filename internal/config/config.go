// Package config provides configuration loading, validation, and management
// for the bot. Values come from an optional YAML file, BOT_* environment
// variables and a handful of well-known environment names (TELEGRAM_TOKEN,
// NEXALO_API_KEY, ADMIN_LIST, BOT_PREFIX, DEFAULT_LANGUAGE).
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// ErrConfiguration wraps every error returned by LoadConfig.
var ErrConfiguration = errors.New("configuration error")

// Config is the root application configuration.
type Config struct {
	Logger       LoggerConfig       `mapstructure:"logger"`
	Telegram     TelegramConfig     `mapstructure:"telegram"`
	Commands     CommandsConfig     `mapstructure:"commands"`
	Nexalo       NexaloConfig       `mapstructure:"nexalo"`
	Gemini       GeminiConfig       `mapstructure:"gemini"`
	Conversation ConversationConfig `mapstructure:"conversation"`
	Preferences  PreferencesConfig  `mapstructure:"preferences"`
	Onboarding   OnboardingConfig   `mapstructure:"onboarding"`
	Training     TrainingConfig     `mapstructure:"training"`
	Scheduler    SchedulerConfig    `mapstructure:"scheduler"`
	Messages     MessagesConfig     `mapstructure:"messages"`
}

// LoggerConfig controls log level and output format.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the bot token and admin list.
type TelegramConfig struct {
	Token string `mapstructure:"token" validate:"required"`
	// AdminList is the raw comma-separated list of admin user ids.
	AdminList       string        `mapstructure:"admin_list"`
	AdminIDs        []int64       `mapstructure:"-"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"min=1s,max=5m"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout" validate:"min=1s,max=10m"`
	// Workers is the number of updates handled concurrently.
	Workers int `mapstructure:"workers" validate:"min=1,max=256"`
}

// CommandsConfig controls command detection.
type CommandsConfig struct {
	Prefix string `mapstructure:"prefix" validate:"required,max=8"`
}

// NexaloConfig configures the remote conversational and training API.
type NexaloConfig struct {
	APIKey   string        `mapstructure:"api_key" validate:"required"`
	ChatURL  string        `mapstructure:"chat_url" validate:"required,url"`
	TrainURL string        `mapstructure:"train_url" validate:"required,url"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"min=1s,max=5m"`
}

// GeminiConfig configures the optional Gemini conversation backend.
type GeminiConfig struct {
	APIKey            string  `mapstructure:"api_key"`
	ModelName         string  `mapstructure:"model_name"`
	Temperature       float32 `mapstructure:"temperature" validate:"min=0,max=2"`
	SystemInstruction string  `mapstructure:"system_instruction"`
}

// Conversation backends.
const (
	BackendNexalo = "nexalo"
	BackendGemini = "gemini"
)

// ConversationConfig controls free-form message forwarding.
type ConversationConfig struct {
	Backend         string `mapstructure:"backend" validate:"oneof=nexalo gemini"`
	DefaultLanguage string `mapstructure:"default_language" validate:"required"`
	// RequireOnboarding blocks forwarding until the chat picked a language.
	// When false, DefaultLanguage is used for chats without preferences.
	RequireOnboarding bool `mapstructure:"require_onboarding"`
}

// Preference store backends.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// PreferencesConfig selects the preference store backend.
type PreferencesConfig struct {
	Backend string `mapstructure:"backend" validate:"oneof=memory sqlite"`
	DBPath  string `mapstructure:"db_path" validate:"required_if=Backend sqlite"`
}

// LanguageOption is a selectable language in the onboarding menu.
type LanguageOption struct {
	Code  string `mapstructure:"code" validate:"required"`
	Label string `mapstructure:"label" validate:"required"`
}

// OnboardingConfig lists the languages offered during onboarding.
type OnboardingConfig struct {
	Languages []LanguageOption `mapstructure:"languages" validate:"required,min=1,dive"`
}

// TrainingConfig holds the fixed metadata submitted with training records.
type TrainingConfig struct {
	Category string `mapstructure:"category" validate:"required"`
}

// TaskConfig configures a single scheduled task.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// SchedulerConfig maps task names to their schedule.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// MessagesConfig holds user-facing texts.
type MessagesConfig struct {
	Welcome          string `mapstructure:"welcome" validate:"required"`
	ChooseLanguage   string `mapstructure:"choose_language" validate:"required"`
	ChooseSentiment  string `mapstructure:"choose_sentiment" validate:"required"`
	ChooseType       string `mapstructure:"choose_type" validate:"required"`
	SetupComplete    string `mapstructure:"setup_complete" validate:"required"`
	SetupRequired    string `mapstructure:"setup_required" validate:"required"`
	NotAuthorized    string `mapstructure:"not_authorized" validate:"required"`
	Cooldown         string `mapstructure:"cooldown" validate:"required"`
	CommandError     string `mapstructure:"command_error" validate:"required"`
	ChatFailed       string `mapstructure:"chat_failed" validate:"required"`
	ChatTransport    string `mapstructure:"chat_transport" validate:"required"`
	TeachUsage       string `mapstructure:"teach_usage" validate:"required"`
	TeachFailed      string `mapstructure:"teach_failed" validate:"required"`
	TeachTransport   string `mapstructure:"teach_transport" validate:"required"`
	UnknownError     string `mapstructure:"unknown_error" validate:"required"`
	HelpHeader       string `mapstructure:"help_header" validate:"required"`
	HelpUnknown      string `mapstructure:"help_unknown" validate:"required"`
	SettingsTemplate string `mapstructure:"settings_template" validate:"required"`
}

// LoadConfig reads configuration from path (a missing file is not an error),
// overlays environment variables, and validates the result.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env, prefixedEnv(key)); err != nil {
			return nil, fmt.Errorf("%w: failed to bind %s: %v", ErrConfiguration, env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isNotExist(err) {
			return nil, fmt.Errorf("%w: failed to read config file %s: %v", ErrConfiguration, path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return cfg, nil
}

// Validate checks struct constraints and derives AdminIDs from AdminList.
func (c *Config) Validate() error {
	c.Commands.Prefix = strings.TrimSpace(c.Commands.Prefix)
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	ids, err := ParseAdminList(c.Telegram.AdminList)
	if err != nil {
		return err
	}
	c.Telegram.AdminIDs = ids

	if c.Conversation.Backend == BackendGemini && c.Gemini.APIKey == "" {
		return errors.New("gemini.api_key is required when conversation.backend is gemini")
	}
	if c.Commands.Prefix == "/" {
		return errors.New("commands.prefix must differ from the native '/' prefix")
	}
	return nil
}

// IsAdmin reports whether userID is in the admin list.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.Telegram.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Language returns the onboarding option with the given code.
func (c *Config) Language(code string) (LanguageOption, bool) {
	for _, l := range c.Onboarding.Languages {
		if l.Code == code {
			return l, true
		}
	}
	return LanguageOption{}, false
}
