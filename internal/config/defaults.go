package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Default values for configuration.
const (
	DefaultLogLevel        = "info"
	DefaultPrefix          = "!"
	DefaultLanguage        = "bn"
	DefaultChatURL         = "https://sim.api.nexalo.xyz/v1/chat"
	DefaultTrainURL        = "https://sim.api.nexalo.xyz/v1/train"
	DefaultNexaloTimeout   = 30 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
	DefaultRequestTimeout  = 2 * time.Minute
	DefaultWorkers         = 8
	DefaultGeminiModel     = "gemini-2.0-flash"
	DefaultDBPath          = "preferences.db"
	DefaultCategory        = "general"

	envPrefix = "BOT"
)

// envBindings maps config keys to the plain environment names the bot has
// always accepted. BindEnv replaces the automatic BOT_* lookup for a key, so
// LoadConfig binds the plain name first and the BOT_* name after it.
var envBindings = map[string]string{
	"telegram.token":                "TELEGRAM_TOKEN",
	"telegram.admin_list":           "ADMIN_LIST",
	"nexalo.api_key":                "NEXALO_API_KEY",
	"commands.prefix":               "BOT_PREFIX",
	"conversation.default_language": "DEFAULT_LANGUAGE",
}

// prefixedEnv returns the BOT_* variable AutomaticEnv would derive for key.
func prefixedEnv(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

var defaultLanguages = []map[string]string{
	{"code": "bn", "label": "🇧🇩 Bangla"},
	{"code": "en", "label": "🇬🇧 English"},
	{"code": "hi", "label": "🇮🇳 Hindi"},
	{"code": "ar", "label": "🇸🇦 Arabic"},
}

var defaultTasks = map[string]any{
	"cooldown_prune":  map[string]any{"enabled": true, "schedule": "0 * * * * *"},
	"sql_maintenance": map[string]any{"enabled": true, "schedule": "0 0 4 * * *"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", DefaultLogLevel)
	v.SetDefault("logger.json", false)

	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.admin_list", "")
	v.SetDefault("telegram.shutdown_timeout", DefaultShutdownTimeout)
	v.SetDefault("telegram.request_timeout", DefaultRequestTimeout)
	v.SetDefault("telegram.workers", DefaultWorkers)

	v.SetDefault("commands.prefix", DefaultPrefix)

	v.SetDefault("nexalo.api_key", "")
	v.SetDefault("nexalo.chat_url", DefaultChatURL)
	v.SetDefault("nexalo.train_url", DefaultTrainURL)
	v.SetDefault("nexalo.timeout", DefaultNexaloTimeout)

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model_name", DefaultGeminiModel)
	v.SetDefault("gemini.temperature", 1.0)
	v.SetDefault("gemini.system_instruction", "You are a friendly chat companion. Keep replies short and conversational.")

	v.SetDefault("conversation.backend", BackendNexalo)
	v.SetDefault("conversation.default_language", DefaultLanguage)
	v.SetDefault("conversation.require_onboarding", true)

	v.SetDefault("preferences.backend", StoreMemory)
	v.SetDefault("preferences.db_path", DefaultDBPath)

	v.SetDefault("onboarding.languages", defaultLanguages)
	v.SetDefault("training.category", DefaultCategory)
	v.SetDefault("scheduler.tasks", defaultTasks)

	v.SetDefault("messages.welcome", "👋 Welcome! Let's set you up before we chat.")
	v.SetDefault("messages.choose_language", "🌐 Choose your language:")
	v.SetDefault("messages.choose_sentiment", "🙂 Language set to %s. Now choose a sentiment:")
	v.SetDefault("messages.choose_type", "📝 Sentiment set to %s. Now choose a response type:")
	v.SetDefault("messages.setup_complete", "✅ Setup complete! You can now chat with me.")
	v.SetDefault("messages.setup_required", "⚙️ Please run %sstart to set your preferences first.")
	v.SetDefault("messages.not_authorized", "Only admins can use this command!")
	v.SetDefault("messages.cooldown", "⏳ Please wait %d second(s) before using %s again.")
	v.SetDefault("messages.command_error", "An error occurred while executing the command.")
	v.SetDefault("messages.chat_failed", "Sorry, I couldn't get a response: %s")
	v.SetDefault("messages.chat_transport", "Oops! Something went wrong: %s")
	v.SetDefault("messages.teach_usage", "Please provide both question and answer separated by '|'\nExample: %s ki koro | Boring time, ki korbo?")
	v.SetDefault("messages.teach_failed", "Failed to teach: %s")
	v.SetDefault("messages.teach_transport", "Error while teaching: %s")
	v.SetDefault("messages.unknown_error", "Unknown error")
	v.SetDefault("messages.help_header", "📖 Available commands:")
	v.SetDefault("messages.help_unknown", "No command named %q.")
	v.SetDefault("messages.settings_template", "Language: %s\nSentiment: %s\nResponse type: %s\nStage: %s")
}
