package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("ONEWORLD_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	_, err := Load()
	if err != ErrNoToken {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("ONEWORLD_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	for _, key := range []string{"WEBAPP_HOST", "WEBAPP_PORT", "WEBAPP_SHARED_SECRET", "SESSION_SECRET", "ADMIN_IDS", "BSC_RPC", "OWC_PER_BNB", "OWC_EXCHANGE_RATE", "DB_PATH"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.WebAppAddr != "0.0.0.0:8082" {
		t.Errorf("expected default addr 0.0.0.0:8082, got %q", cfg.WebAppAddr)
	}
	if cfg.OWCPerBNB != 10000 {
		t.Errorf("expected default OWC_PER_BNB 10000, got %d", cfg.OWCPerBNB)
	}
	if cfg.ExchangeRate != 100 {
		t.Errorf("expected default exchange rate 100, got %d", cfg.ExchangeRate)
	}
	if cfg.DBPath != "oneworld.db" {
		t.Errorf("expected default db path oneworld.db, got %q", cfg.DBPath)
	}
	if cfg.Economy.Airdrop != 1000 {
		t.Errorf("expected default airdrop 1000, got %d", cfg.Economy.Airdrop)
	}
	if cfg.Economy.TaskRewards["join_channel"] != 20 {
		t.Errorf("expected join_channel reward 20, got %d", cfg.Economy.TaskRewards["join_channel"])
	}
	if cfg.Economy.DiceHigh != 25 || cfg.Economy.DiceMid != 10 || cfg.Economy.DiceLow != 5 {
		t.Errorf("expected dice rewards 25/10/5, got %d/%d/%d",
			cfg.Economy.DiceHigh, cfg.Economy.DiceMid, cfg.Economy.DiceLow)
	}
}

func TestSessionSecretFallback(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("ONEWORLD_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv("WEBAPP_SHARED_SECRET", "shh")
	t.Setenv("SESSION_SECRET", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SessionSecret != "shh" {
		t.Errorf("expected session secret to fall back to shared secret, got %q", cfg.SessionSecret)
	}

	t.Setenv("SESSION_SECRET", "jwt-key")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SessionSecret != "jwt-key" {
		t.Errorf("expected explicit session secret, got %q", cfg.SessionSecret)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	file := `
webapp_port = "9000"
owc_per_bnb = 5000

[economy]
airdrop = 250
referral_bonus = 5
`
	if err := os.WriteFile(path, []byte(file), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("ONEWORLD_CONFIG", path)
	t.Setenv("WEBAPP_HOST", "")
	t.Setenv("WEBAPP_PORT", "7777") // env wins over file
	t.Setenv("OWC_PER_BNB", "")
	t.Setenv("ADMIN_IDS", "42, 77,nonsense,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.WebAppAddr != "0.0.0.0:7777" {
		t.Errorf("env should override file port: got %q", cfg.WebAppAddr)
	}
	if cfg.OWCPerBNB != 5000 {
		t.Errorf("file value should apply when env empty: got %d", cfg.OWCPerBNB)
	}
	if cfg.Economy.Airdrop != 250 {
		t.Errorf("expected airdrop 250 from file, got %d", cfg.Economy.Airdrop)
	}
	if cfg.Economy.ReferralBonus != 5 {
		t.Errorf("expected referral bonus 5 from file, got %d", cfg.Economy.ReferralBonus)
	}
	// Unset tunables still get defaults.
	if cfg.Economy.QuizReward != 30 {
		t.Errorf("expected quiz reward default 30, got %d", cfg.Economy.QuizReward)
	}

	wantAdmins := []int64{42, 77}
	if diff := cmp.Diff(wantAdmins, cfg.AdminIDs); diff != "" {
		t.Errorf("admin IDs mismatch (-want +got):\n%s", diff)
	}
	if !cfg.IsAdmin(42) || cfg.IsAdmin(1) {
		t.Error("IsAdmin gave wrong answer")
	}
}
