package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/oneworldlabs/oneworld/internal/chain"
	"github.com/oneworldlabs/oneworld/internal/economy"
	"github.com/oneworldlabs/oneworld/internal/i18n"
	"github.com/oneworldlabs/oneworld/internal/storage"
)

// taskItem pairs a task key with the label shown on its button. The
// board is fixed; rewards come from config so operators can retune
// them without touching labels.
type taskItem struct {
	key  string
	name string
}

var taskCatalog = []taskItem{
	{"join_channel", "Join the channel"},
	{"like_post", "Like a post"},
	{"comment_post", "Comment on a post"},
}

func (b *Bot) handleStart(from *tgbotapi.User, args string) string {
	b.refreshProfile(from)

	welcome := "Welcome to OneWorldBot! Earn OWC by completing tasks, playing games and referring friends."
	if fields := strings.Fields(args); len(fields) > 0 {
		b.applyReferral(from.ID, fields[0])
		welcome = "Welcome! Referral applied when possible. " + welcome
	}
	return welcome
}

// refreshProfile re-syncs the Telegram handle and language. /start is
// the one command every returning user runs, so it is the sync point.
func (b *Bot) refreshProfile(from *tgbotapi.User) {
	if err := b.store.UpdateProfile(from.ID, from.UserName, from.FirstName); err != nil {
		b.log.Warn("profile refresh failed", "user", from.ID, "error", err)
	}
	if err := b.store.SetLang(from.ID, i18n.Normalize(from.LanguageCode)); err != nil {
		b.log.Warn("language refresh failed", "user", from.ID, "error", err)
	}
}

func (b *Bot) applyReferral(userID int64, code string) {
	referrer, err := b.store.ApplyReferral(userID, code, b.cfg.Economy.ReferralBonus)
	switch {
	case err == nil:
		b.log.Info("referral applied", "user", userID, "referrer", referrer.ID)
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, storage.ErrAlreadyClaimed),
		errors.Is(err, storage.ErrInvalidInput):
		b.log.Info("referral not applied", "user", userID, "code", code, "reason", err)
	default:
		b.log.Error("applying referral failed", "user", userID, "error", err)
	}
}

func (b *Bot) handleBalance(userID int64) string {
	return fmt.Sprintf("Your balance: %d OWC", b.balance(userID))
}

// balance returns the user's OWC balance, zero when unknown.
func (b *Bot) balance(userID int64) int64 {
	u, err := b.store.GetUser(userID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			b.log.Error("balance lookup failed", "user", userID, "error", err)
		}
		return 0
	}
	return u.Balance
}

func (b *Bot) handleTasks() (string, *tgbotapi.InlineKeyboardMarkup) {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(taskCatalog)+1)
	for _, t := range taskCatalog {
		label := fmt.Sprintf("%s (+%d OWC)", t.name, b.taskReward(t.key))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, callbackTask+t.key),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Main Menu", callbackMenu+"main"),
	))

	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return "Available tasks:", &markup
}

func (b *Bot) taskReward(task string) int64 {
	if reward, ok := b.cfg.Economy.TaskRewards[task]; ok {
		return reward
	}
	return b.cfg.Economy.DefaultTaskPay
}

func (b *Bot) handleMenu() (string, *tgbotapi.InlineKeyboardMarkup) {
	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Balance", callbackMenu+"balance")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Tasks", callbackMenu+"tasks")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Games", callbackMenu+"games")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Store", callbackMenu+"store")),
	)
	return "Main Menu:", &markup
}

func (b *Bot) handleReferral(userID int64) string {
	u, err := b.store.GetUser(userID)
	if err != nil || u.RefCode == "" {
		return "No referral code found."
	}
	link := fmt.Sprintf("https://t.me/%s?start=%s", b.api.Self.UserName, u.RefCode)
	return fmt.Sprintf("Your referral code: %s\nShare this link: %s", u.RefCode, link)
}

func (b *Bot) handleStore() (string, *tgbotapi.InlineKeyboardMarkup) {
	e := b.cfg.Economy
	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("Buy 100 storage (cost %d OWC)", 100*e.StoragePrice),
			callbackBuy+"storage_100",
		)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("Subscribe Basic (%d days) - cost %d OWC", e.SubDays, e.SubPrices["basic"]),
			callbackBuy+"sub_basic",
		)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("Subscribe Premium (%d days) - cost %d OWC", e.SubDays, e.SubPrices["premium"]),
			callbackBuy+"sub_premium",
		)),
	)
	return "Store:", &markup
}

func (b *Bot) handleBuyStorage(userID int64, args string) string {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return "Usage: /buy_storage <amount>"
	}
	units, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return "Amount must be a number."
	}

	price := b.cfg.Economy.StoragePrice
	_, err = b.store.BuyStorage(userID, units, price)
	switch {
	case errors.Is(err, storage.ErrInvalidInput):
		return "Amount must be a number."
	case errors.Is(err, storage.ErrInsufficientFunds):
		return "Insufficient balance."
	case err != nil:
		b.log.Error("storage purchase failed", "user", userID, "error", err)
		return "Purchase failed, try again later."
	}
	return fmt.Sprintf("Purchased %d storage for %d OWC.", units, units*price)
}

func (b *Bot) handleSubscribe(userID int64, args string) string {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return "Usage: /subscribe <basic|premium>"
	}
	plan := strings.ToLower(fields[0])
	price, ok := b.cfg.Economy.SubPrices[plan]
	if !ok {
		return "Unknown tier."
	}

	if _, err := b.store.Subscribe(userID, plan, price, b.cfg.Economy.SubDays); err != nil {
		if errors.Is(err, storage.ErrInsufficientFunds) {
			return "Insufficient balance."
		}
		b.log.Error("subscription failed", "user", userID, "plan", plan, "error", err)
		return "Subscription failed, try again later."
	}
	return fmt.Sprintf("Subscribed to %s for %d days.", plan, b.cfg.Economy.SubDays)
}

func (b *Bot) handleShare(userID int64) string {
	reward := b.cfg.Economy.ShareReward
	if _, err := b.store.Transfer(storage.TreasuryID, userID, reward, storage.KindShare, ""); err != nil {
		b.log.Error("share reward failed", "user", userID, "error", err)
		return "Could not pay the share bonus, try again later."
	}
	return fmt.Sprintf("Thanks for sharing! You got +%d OWC.", reward)
}

func (b *Bot) handleConvert(userID int64) string {
	bal := b.balance(userID)
	if bal <= 0 {
		return "No balance to convert."
	}
	rate := b.cfg.ExchangeRate
	return fmt.Sprintf("%d OWC = %s units at rate %d.", bal, economy.Convert(bal, rate), rate)
}

// handleSupply reports the ledger totals. Treasury plus circulating is
// the minted supply, so the first line never drifts from the truth.
func (b *Bot) handleSupply() string {
	stats, err := b.store.GetStats()
	if err != nil {
		b.log.Error("stats lookup failed", "error", err)
		return "Stats are unavailable right now."
	}
	return fmt.Sprintf("Total supply: %d\nTreasury: %d\nCirculating: %d",
		stats.Treasury+stats.Circulating, stats.Treasury, stats.Circulating)
}

func (b *Bot) handleDeposit() string {
	addr := b.cfg.TreasuryAddress
	if addr == "" {
		addr = "(set TREASURY_ADDRESS in .env)"
	}
	return "To deposit BNB for purchasing OWC, send BNB to the project treasury address:\n" +
		addr + "\n\n" +
		"After sending, use /deposit_confirm <tx_hash> to notify the bot."
}

func (b *Bot) handleDepositConfirm(userID int64, args string) string {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return "Usage: /deposit_confirm <tx_hash>"
	}
	txHash := fields[0]
	if !chain.IsTxHash(txHash) {
		return "That does not look like a transaction hash."
	}

	if _, err := b.store.RecordDeposit(userID, txHash); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			return "That transaction is already recorded."
		}
		b.log.Error("recording deposit failed", "user", userID, "tx", txHash, "error", err)
		return "Could not record the deposit, try again later."
	}
	return "Deposit recorded. Admin will verify and credit your account."
}

func (b *Bot) handlePresale() (string, *tgbotapi.InlineKeyboardMarkup) {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(b.cfg.Economy.PresalePackages))
	for _, amount := range b.cfg.Economy.PresalePackages {
		label := fmt.Sprintf("Book %d OWC (cost %d USD)", amount, amount*b.cfg.Economy.PresaleUSDPerOWC)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("%s%d", callbackPresale, amount)),
		))
	}

	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return "Presale - choose package:", &markup
}

func (b *Bot) handleWallet(userID int64, args string) string {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		u, err := b.store.GetUser(userID)
		if err != nil || u.Wallet == "" {
			return "No wallet on file. Usage: /wallet <BSC address>"
		}
		return "Your wallet: " + u.Wallet
	}

	checksummed, err := chain.ChecksumAddress(fields[0])
	if err != nil {
		return "That does not look like a BSC address."
	}
	if err := b.store.SetWallet(userID, checksummed); err != nil {
		b.log.Error("saving wallet failed", "user", userID, "error", err)
		return "Could not save the wallet, try again later."
	}
	return "Wallet saved: " + checksummed
}

func (b *Bot) handlePlay() (string, *tgbotapi.InlineKeyboardMarkup) {
	if b.cfg.WebAppURL == "" {
		return "The game hub is not configured yet.", nil
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonWebApp("Open the game hub", tgbotapi.WebAppInfo{URL: b.cfg.WebAppURL}),
		),
	)
	return "Play in the OneWorld hub:", &markup
}
