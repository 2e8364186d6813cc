package environments

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Redis     RedisConfig
	Telnyx    TelnyxConfig
	Jokes     JokesConfig
	Message   MessageConfig
	Broadcast BroadcastConfig
	Auth      AuthConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port            string
	DispatchTimeout time.Duration
}

type StorageConfig struct {
	Driver string // "file" or "sqlite"
	Path   string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	DedupTTL time.Duration
}

type TelnyxConfig struct {
	APIURL       string
	APIKey       string
	Timeout      time.Duration
	ConnectionID string
	Voice        VoiceConfig
}

type VoiceConfig struct {
	FromNumber  string
	TTSVoice    string
	TTSLanguage string
}

type JokesConfig struct {
	URL     string
	Timeout time.Duration
}

type MessageConfig struct {
	SMSFromNumber string
	VoiceFrom     string
	ConnectionID  string
	MaxLength     int
}

type BroadcastConfig struct {
	CronSpec    string
	Timezone    string
	AutoStart   bool
	Concurrency int
	RatePerSec  int

	// AlertWebhook receives a POST after AlertThreshold consecutive runs in
	// which no message was queued. Empty disables alerting.
	AlertWebhook   string
	AlertThreshold int
}

type AuthConfig struct {
	AdminAPIKey string
}

type LogConfig struct {
	Level  string
	Pretty bool
}

// Load reads an optional .env file and builds the config from the environment.
// Values already present in the environment win over the .env file.
func Load() *Config {
	_ = godotenv.Load()

	storageDriver := GetEnv("STORAGE_DRIVER", "file")
	defaultPath := "telnyx-chucknorris-users.json"
	if storageDriver == "sqlite" {
		defaultPath = "telnyx-chucknorris-users.db"
	}

	voiceFrom := GetEnv("VOICE_FROM_NUMBER", "")
	connectionID := GetEnv("TELNYX_CONNECTION_ID", "")

	return &Config{
		Server: ServerConfig{
			Port:            GetEnv("SERVER_PORT", "8081"),
			DispatchTimeout: time.Duration(GetEnvAsInt("DISPATCH_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Storage: StorageConfig{
			Driver: storageDriver,
			Path:   GetEnv("STORAGE_PATH", defaultPath),
		},
		Redis: RedisConfig{
			Enabled:  GetEnvAsBool("REDIS_ENABLED", true),
			Host:     GetEnv("REDIS_HOST", "localhost"),
			Port:     GetEnv("REDIS_PORT", "6379"),
			Password: GetEnv("REDIS_PASSWORD", ""),
			DB:       GetEnvAsInt("REDIS_DB", 0),
			DedupTTL: time.Duration(GetEnvAsInt("EVENT_DEDUP_TTL_MINUTES", 60)) * time.Minute,
		},
		Telnyx: TelnyxConfig{
			APIURL:       GetEnv("TELNYX_API_URL", "https://api.telnyx.com/v2"),
			APIKey:       GetEnv("TELNYX_API_KEY", ""),
			Timeout:      time.Duration(GetEnvAsInt("TELNYX_TIMEOUT_SECONDS", 15)) * time.Second,
			ConnectionID: connectionID,
			Voice: VoiceConfig{
				FromNumber:  voiceFrom,
				TTSVoice:    GetEnv("VOICE_TTS_VOICE", "female"),
				TTSLanguage: GetEnv("VOICE_TTS_LANGUAGE", "en-US"),
			},
		},
		Jokes: JokesConfig{
			URL:     GetEnv("JOKES_API_URL", "https://api.chucknorris.io/jokes/random"),
			Timeout: time.Duration(GetEnvAsInt("JOKES_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Message: MessageConfig{
			SMSFromNumber: GetEnv("SMS_FROM_NUMBER", ""),
			VoiceFrom:     voiceFrom,
			ConnectionID:  connectionID,
			MaxLength:     GetEnvAsInt("MESSAGE_MAX_LENGTH", 1500),
		},
		Broadcast: BroadcastConfig{
			CronSpec:    GetEnv("BROADCAST_CRON", "30 8 * * *"),
			Timezone:    GetEnv("BROADCAST_TIMEZONE", "America/Chicago"),
			AutoStart:   GetEnvAsBool("BROADCAST_AUTO_START", true),
			Concurrency: GetEnvAsInt("BROADCAST_CONCURRENCY", 4),
			RatePerSec:  GetEnvAsInt("BROADCAST_RATE_PER_SEC", 0),

			AlertWebhook:   GetEnv("ALERT_WEBHOOK_URL", ""),
			AlertThreshold: GetEnvAsInt("ALERT_THRESHOLD", 3),
		},
		Auth: AuthConfig{
			AdminAPIKey: GetEnv("ADMIN_API_KEY", ""),
		},
		Log: LogConfig{
			Level:  GetEnv("LOG_LEVEL", "info"),
			Pretty: GetEnvAsBool("LOG_PRETTY", false),
		},
	}
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func GetEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
