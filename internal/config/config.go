package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Feishu    FeishuConfig
	Report    ReportConfig
	Server    ServerConfig
	Scheduler SchedulerConfig
	MongoDB   MongoDBConfig
	Email     EmailConfig
	OpenAI    OpenAIConfig
}

// FeishuConfig holds open-platform credentials and delivery targets
type FeishuConfig struct {
	AppID             string
	AppSecret         string
	BaseURL           string // open-platform API root
	ChatID            string
	AdditionalChatIDs []string
	WebhookURL        string // when set, delivery bypasses the messages API
	UseCard           bool   // interactive card vs plain text
	EmployeeType      string // employee_id or open_id
}

// ReportConfig holds the aggregation and ranking knobs
type ReportConfig struct {
	Title            string
	UserIDs          []string
	DateRangeDays    int    // fallback window length when no data carries dates
	Source           string // "stats" or "tasks" upstream endpoint
	MorningStartMin  int    // morning window lower bound, minutes since midnight
	MorningEndMin    int    // morning window upper bound, inclusive
	LateThresholdMin int    // recomputed-lateness threshold for the ranking path
	RankingLimit     int    // top-N / bottom-N size
	LatePunchPolicy  string // "on_duty_only" or "any_punch"
	TotalDaysMode    string // "distinct" or "workweek"
	Holidays         []string
	ExtraWorkdays    []string
	IncludeWeekends  bool
	Timezone         string
	BatchSize        int           // 0 disables batched fetching
	BatchDelay       time.Duration // fixed pause between batches
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host       string
	Port       string
	TriggerKey string // shared secret for the manual trigger endpoint
}

// SchedulerConfig holds the cron schedule for periodic report runs
type SchedulerConfig struct {
	Enabled  bool
	Schedule string // cron expression with seconds field
}

// MongoDBConfig holds connection details for the result cache
type MongoDBConfig struct {
	URI        string
	Username   string
	Password   string
	Host       string
	Port       string
	Database   string
	Collection string
	AuthSource string
	CacheTTL   time.Duration
}

// EmailConfig holds SendGrid configuration for the optional email sink
type EmailConfig struct {
	APIKey    string
	FromEmail string
	ToEmails  []string
}

// OpenAIConfig holds configuration for the optional report commentary
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Feishu: FeishuConfig{
			AppID:             getEnv("APP_ID", ""),
			AppSecret:         getEnv("APP_SECRET", ""),
			BaseURL:           getEnv("FEISHU_BASE_URL", "https://open.feishu.cn"),
			ChatID:            getEnv("CHAT_ID", ""),
			AdditionalChatIDs: getEnvList("ADDITIONAL_CHAT_IDS"),
			WebhookURL:        getEnv("WEBHOOK_URL", ""),
			UseCard:           getEnvBool("USE_CARD", true),
			EmployeeType:      getEnv("EMPLOYEE_TYPE", "employee_id"),
		},
		Report: ReportConfig{
			Title:            getEnv("MESSAGE_TITLE", "Attendance Report"),
			UserIDs:          getEnvList("USER_IDS"),
			DateRangeDays:    getEnvInt("DATE_RANGE_DAYS", 7),
			Source:           getEnv("ATTENDANCE_SOURCE", "stats"),
			MorningStartMin:  getEnvInt("MORNING_START_MIN", 390), // 06:30
			MorningEndMin:    getEnvInt("MORNING_END_MIN", 510),   // 08:30
			LateThresholdMin: getEnvInt("LATE_THRESHOLD_MIN", 480),
			RankingLimit:     getEnvInt("RANKING_LIMIT", 5),
			LatePunchPolicy:  getEnv("LATE_PUNCH_POLICY", "on_duty_only"),
			TotalDaysMode:    getEnv("TOTAL_DAYS_MODE", "distinct"),
			Holidays:         getEnvList("HOLIDAYS"),
			ExtraWorkdays:    getEnvList("WORKDAYS"),
			IncludeWeekends:  getEnvBool("INCLUDE_WEEKENDS", false),
			Timezone:         getEnv("TIMEZONE", "Asia/Shanghai"),
			BatchSize:        getEnvInt("FETCH_BATCH_SIZE", 0),
			BatchDelay:       time.Duration(getEnvInt("FETCH_BATCH_DELAY_MS", 1000)) * time.Millisecond,
		},
		Server: ServerConfig{
			Host:       getEnv("HOST", "0.0.0.0"),
			Port:       getEnv("PORT", "8086"),
			TriggerKey: getEnv("TRIGGER_KEY", ""),
		},
		Scheduler: SchedulerConfig{
			Enabled:  getEnvBool("SCHEDULER_ENABLED", true),
			Schedule: getEnv("CRON_SCHEDULE", "0 0 9 * * 1"), // Monday 09:00
		},
		MongoDB: MongoDBConfig{
			URI:        getEnv("MONGODB_URI", ""),
			Username:   getEnv("MONGODB_USERNAME", ""),
			Password:   getEnv("MONGODB_PASSWORD", ""),
			Host:       getEnv("MONGODB_HOST", ""),
			Port:       getEnv("MONGODB_PORT", "27017"),
			Database:   getEnv("MONGODB_DATABASE", "attendance"),
			Collection: getEnv("MONGODB_COLLECTION", "reports"),
			AuthSource: getEnv("MONGODB_AUTH_SOURCE", "admin"),
			CacheTTL:   time.Duration(getEnvInt("RESULT_CACHE_TTL_MIN", 30)) * time.Minute,
		},
		Email: EmailConfig{
			APIKey:    getEnv("SENDGRID_API_KEY", ""),
			FromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
			ToEmails:  getEnvList("REPORT_EMAILS"),
		},
		OpenAI: OpenAIConfig{
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", ""),
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			Temperature: getEnvFloat("OPENAI_TEMPERATURE", 0.3),
			MaxTokens:   getEnvInt("OPENAI_MAX_TOKENS", 0),
		},
	}

	if err := ValidateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// ValidateConfig validates that required configuration values are present
func ValidateConfig(config *Config) error {
	if config.Feishu.AppID == "" || config.Feishu.AppSecret == "" {
		return fmt.Errorf("APP_ID and APP_SECRET are required")
	}
	if config.Feishu.ChatID == "" && config.Feishu.WebhookURL == "" {
		return fmt.Errorf("CHAT_ID or WEBHOOK_URL is required")
	}
	if config.Report.Source != "stats" && config.Report.Source != "tasks" {
		return fmt.Errorf("ATTENDANCE_SOURCE must be \"stats\" or \"tasks\", got %q", config.Report.Source)
	}
	if config.Report.LatePunchPolicy != "on_duty_only" && config.Report.LatePunchPolicy != "any_punch" {
		return fmt.Errorf("LATE_PUNCH_POLICY must be \"on_duty_only\" or \"any_punch\", got %q", config.Report.LatePunchPolicy)
	}
	if config.Report.TotalDaysMode != "distinct" && config.Report.TotalDaysMode != "workweek" {
		return fmt.Errorf("TOTAL_DAYS_MODE must be \"distinct\" or \"workweek\", got %q", config.Report.TotalDaysMode)
	}
	if config.Report.MorningStartMin >= config.Report.MorningEndMin {
		return fmt.Errorf("morning window start must be before end")
	}
	return nil
}

// Helper functions for environment variable access
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated environment variable, trimming blanks
func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
