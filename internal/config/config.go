package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	BotToken string `mapstructure:"BOT_TOKEN"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`
	DemoMode bool   `mapstructure:"DEMO_MODE"`

	DataDir            string `mapstructure:"DATA_DIR"`
	MedicationsFile    string `mapstructure:"MEDICATIONS_FILE"`
	FamilyContactsFile string `mapstructure:"FAMILY_CONTACTS_FILE"`
	CareContactsFile   string `mapstructure:"CARE_CONTACTS_FILE"`
	UserActivityFile   string `mapstructure:"USER_ACTIVITY_FILE"`
	UserLocationsFile  string `mapstructure:"USER_LOCATIONS_FILE"`
	MedicationLogFile  string `mapstructure:"MEDICATION_LOG_FILE"`

	DatabaseURL string `mapstructure:"DATABASE_URL"`

	OpenAIKey   string `mapstructure:"OPENAI_API_KEY"`
	OpenAIModel string `mapstructure:"OPENAI_MODEL"`

	MissedMedicationWindow int `mapstructure:"MISSED_MEDICATION_WINDOW"` // minutes
	DailyCheckinHours      int `mapstructure:"DAILY_CHECKIN_HOURS"`
	SnoozeMinutes          int `mapstructure:"SNOOZE_MINUTES"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DEMO_MODE", false)
	v.SetDefault("DATA_DIR", ".")
	v.SetDefault("MEDICATIONS_FILE", "medications.json")
	v.SetDefault("FAMILY_CONTACTS_FILE", "family_contacts.json")
	v.SetDefault("CARE_CONTACTS_FILE", "care_contacts.json")
	v.SetDefault("USER_ACTIVITY_FILE", "user_activity.json")
	v.SetDefault("USER_LOCATIONS_FILE", "user_locations.json")
	v.SetDefault("MEDICATION_LOG_FILE", "medication_log.jsonl")
	v.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	v.SetDefault("MISSED_MEDICATION_WINDOW", 30)
	v.SetDefault("DAILY_CHECKIN_HOURS", 24)
	v.SetDefault("SNOOZE_MINUTES", 5)

	// Bind env vars explicitly so Unmarshal picks them up
	for _, key := range []string{
		"BOT_TOKEN", "ENV", "LOG_LEVEL", "DEMO_MODE",
		"DATA_DIR", "MEDICATIONS_FILE", "FAMILY_CONTACTS_FILE", "CARE_CONTACTS_FILE",
		"USER_ACTIVITY_FILE", "USER_LOCATIONS_FILE", "MEDICATION_LOG_FILE",
		"DATABASE_URL", "OPENAI_API_KEY", "OPENAI_MODEL",
		"MISSED_MEDICATION_WINDOW", "DAILY_CHECKIN_HOURS", "SNOOZE_MINUTES",
	} {
		_ = v.BindEnv(key)
	}

	// Try reading .env, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN must be set")
	}
	return cfg, nil
}

// Path resolves a store file name against DATA_DIR unless it is absolute.
func (c *Config) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

// MissedWindow returns the missed-dose alert delay.
func (c *Config) MissedWindow() time.Duration {
	return time.Duration(c.MissedMedicationWindow) * time.Minute
}

// CheckinAge returns how long a user may be silent before family is told.
func (c *Config) CheckinAge() time.Duration {
	return time.Duration(c.DailyCheckinHours) * time.Hour
}

// SnoozeDelay returns the snooze re-reminder delay.
func (c *Config) SnoozeDelay() time.Duration {
	return time.Duration(c.SnoozeMinutes) * time.Minute
}
