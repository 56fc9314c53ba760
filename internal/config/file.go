package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file structure. Every field
// can be overridden by the matching environment variable.
type FileConfig struct {
	WebAppHost      string  `toml:"webapp_host"`
	WebAppPort      string  `toml:"webapp_port"`
	WebAppURL       string  `toml:"webapp_url"`
	SharedSecret    string  `toml:"webapp_shared_secret"`
	SessionSecret   string  `toml:"session_secret"`
	AdminIDs        string  `toml:"admin_ids"`
	DBPath          string  `toml:"db_path"`
	BSCRPC          string  `toml:"bsc_rpc"`
	TreasuryAddress string  `toml:"treasury_address"`
	OWCPerBNB       int64   `toml:"owc_per_bnb"`
	ExchangeRate    int64   `toml:"owc_exchange_rate"`
	Economy         Economy `toml:"economy"`
}

// Economy holds the reward and price tunables. Zero values fall back to
// the rates the bot has always used.
type Economy struct {
	Airdrop          int64            `toml:"airdrop"`
	ReferralBonus    int64            `toml:"referral_bonus"`
	TaskRewards      map[string]int64 `toml:"task_rewards"`
	DefaultTaskPay   int64            `toml:"default_task_reward"`
	QuizReward       int64            `toml:"quiz_reward"`
	ShareReward      int64            `toml:"share_reward"`
	SlotsTriple      int64            `toml:"slots_triple"`
	SlotsPair        int64            `toml:"slots_pair"`
	RouletteFactor   int64            `toml:"roulette_factor"`
	DiceHigh         int64            `toml:"dice_high"`
	DiceMid          int64            `toml:"dice_mid"`
	DiceLow          int64            `toml:"dice_low"`
	StoragePrice     int64            `toml:"storage_price"`
	SubPrices        map[string]int64 `toml:"subscription_prices"`
	SubDays          int              `toml:"subscription_days"`
	PresalePackages  []int64          `toml:"presale_packages"`
	PresaleUSDPerOWC int64            `toml:"presale_usd_per_owc"`
	PollSeconds      int              `toml:"deposit_poll_seconds"`
	Confirmations    int64            `toml:"deposit_confirmations"`
}

// withDefaults fills in zero-valued tunables.
func (e Economy) withDefaults() Economy {
	if e.Airdrop == 0 {
		e.Airdrop = 1000
	}
	if e.ReferralBonus == 0 {
		e.ReferralBonus = 50
	}
	if e.TaskRewards == nil {
		e.TaskRewards = map[string]int64{
			"join_channel": 20,
			"like_post":    10,
			"comment_post": 15,
		}
	}
	if e.DefaultTaskPay == 0 {
		e.DefaultTaskPay = 5
	}
	if e.QuizReward == 0 {
		e.QuizReward = 30
	}
	if e.ShareReward == 0 {
		e.ShareReward = 10
	}
	if e.SlotsTriple == 0 {
		e.SlotsTriple = 200
	}
	if e.SlotsPair == 0 {
		e.SlotsPair = 50
	}
	if e.RouletteFactor == 0 {
		e.RouletteFactor = 35
	}
	if e.DiceHigh == 0 {
		e.DiceHigh = 25
	}
	if e.DiceMid == 0 {
		e.DiceMid = 10
	}
	if e.DiceLow == 0 {
		e.DiceLow = 5
	}
	if e.StoragePrice == 0 {
		e.StoragePrice = 1
	}
	if e.SubPrices == nil {
		e.SubPrices = map[string]int64{"basic": 500, "premium": 1200}
	}
	if e.SubDays == 0 {
		e.SubDays = 30
	}
	if e.PresalePackages == nil {
		e.PresalePackages = []int64{10, 50, 100}
	}
	if e.PresaleUSDPerOWC == 0 {
		e.PresaleUSDPerOWC = 1
	}
	if e.PollSeconds == 0 {
		e.PollSeconds = 15
	}
	if e.Confirmations == 0 {
		e.Confirmations = 1
	}
	return e
}

// ConfigPath returns the path to the config file. ONEWORLD_CONFIG
// overrides the default ./config.toml.
func ConfigPath() string {
	if p := os.Getenv("ONEWORLD_CONFIG"); p != "" {
		return p
	}
	return "config.toml"
}

// LoadFile loads configuration from the TOML file.
// Returns an empty FileConfig if the file doesn't exist.
func LoadFile() (*FileConfig, error) {
	cfg := &FileConfig{}

	path := ConfigPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
