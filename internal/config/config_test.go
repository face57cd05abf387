package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BotToken != "123:abc" {
		t.Errorf("BotToken = %q", cfg.BotToken)
	}
	if cfg.MedicationsFile != "medications.json" || cfg.MedicationLogFile != "medication_log.jsonl" {
		t.Errorf("file defaults = %q, %q", cfg.MedicationsFile, cfg.MedicationLogFile)
	}
	if cfg.MissedMedicationWindow != 30 || cfg.SnoozeMinutes != 5 || cfg.DailyCheckinHours != 24 {
		t.Errorf("timing defaults = %d, %d, %d",
			cfg.MissedMedicationWindow, cfg.SnoozeMinutes, cfg.DailyCheckinHours)
	}
	if cfg.MissedWindow().Minutes() != 30 {
		t.Errorf("MissedWindow = %v", cfg.MissedWindow())
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("DATA_DIR", "/var/lib/carebot")
	t.Setenv("SNOOZE_MINUTES", "10")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SnoozeMinutes != 10 {
		t.Errorf("SnoozeMinutes = %d", cfg.SnoozeMinutes)
	}
	if got := cfg.Path("medications.json"); got != "/var/lib/carebot/medications.json" {
		t.Errorf("Path = %q", got)
	}
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	if _, err := Load(); err == nil {
		t.Error("want error without BOT_TOKEN")
	}
}
