// Package bot runs the OneWorld Telegram bot: the command set, the
// inline keyboards and the callback handling behind them. Replies are
// translated into the user's Telegram language before sending.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/oneworldlabs/oneworld/internal/config"
	"github.com/oneworldlabs/oneworld/internal/i18n"
	"github.com/oneworldlabs/oneworld/internal/storage"
)

// Bot commands.
const (
	cmdStart             = "start"
	cmdBalance           = "balance"
	cmdTasks             = "tasks"
	cmdMenu              = "menu"
	cmdReferral          = "referral"
	cmdSlots             = "slots"
	cmdRoulette          = "roulette"
	cmdDice              = "dice"
	cmdQuiz              = "quiz"
	cmdStore             = "store"
	cmdBuyStorage        = "buy_storage"
	cmdSubscribe         = "subscribe"
	cmdShare             = "share"
	cmdConvert           = "convert"
	cmdSupply            = "supply"
	cmdDeposit           = "deposit"
	cmdDepositConfirm    = "deposit_confirm"
	cmdPresale           = "presale"
	cmdWallet            = "wallet"
	cmdPlay              = "play"
	cmdAdminListOrders   = "admin_list_orders"
	cmdAdminReleaseOrder = "admin_release_order"
)

const (
	updateTimeout  = 60 // long-poll timeout, seconds
	handlerTimeout = 30 * time.Second
	shutdownGrace  = 10 * time.Second
)

// Bot is the long-polling Telegram front end of the hub.
type Bot struct {
	api   *tgbotapi.BotAPI
	store storage.Storage
	cfg   *config.Config
	tr    *i18n.Translator
	log   *slog.Logger

	wg sync.WaitGroup
}

// New authorizes against the Bot API and returns the bot, not yet
// polling.
func New(cfg *config.Config, store storage.Storage, tr *i18n.Translator, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("bot: authorize: %w", err)
	}
	logger.Info("bot authorized", "username", api.Self.UserName)

	return &Bot{
		api:   api,
		store: store,
		cfg:   cfg,
		tr:    tr,
		log:   logger,
	}, nil
}

// Run polls for updates until the context is cancelled, then waits for
// in-flight handlers before returning.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = updateTimeout

	updates := b.api.GetUpdatesChan(u)
	b.log.Info("bot update loop started", "username", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.shutdown()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.dispatch(update)
		}
	}
}

// dispatch fans each update out to its own goroutine so a slow chain
// of API calls never stalls the poll loop.
func (b *Bot) dispatch(update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.wg.Add(1)
		go func(cq *tgbotapi.CallbackQuery) {
			defer b.wg.Done()
			b.handleCallback(cq)
		}(update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		b.wg.Add(1)
		go func(msg *tgbotapi.Message) {
			defer b.wg.Done()
			b.handleMessage(msg)
		}(update.Message)
	}
}

func (b *Bot) shutdown() {
	b.api.StopReceivingUpdates()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.log.Info("bot stopped")
	case <-time.After(shutdownGrace):
		b.log.Warn("bot shutdown timed out with handlers in flight")
	}
}

// handleMessage runs one command end to end: enroll the sender, build
// the reply, translate it and send it.
func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	from := msg.From
	if from == nil || from.IsBot {
		return
	}
	b.ensureUser(from)

	var (
		text   string
		markup *tgbotapi.InlineKeyboardMarkup
		plain  bool // admin replies are operator-facing and stay English
	)

	switch msg.Command() {
	case cmdStart:
		text = b.handleStart(from, msg.CommandArguments())
	case cmdBalance:
		text = b.handleBalance(from.ID)
	case cmdTasks:
		text, markup = b.handleTasks()
	case cmdMenu:
		text, markup = b.handleMenu()
	case cmdReferral:
		text = b.handleReferral(from.ID)
	case cmdSlots:
		text = b.handleSlots(from.ID)
	case cmdRoulette:
		text = b.handleRoulette(from.ID, msg.CommandArguments())
	case cmdDice:
		b.handleDice(ctx, msg)
		return
	case cmdQuiz:
		text, markup = b.handleQuiz()
	case cmdStore:
		text, markup = b.handleStore()
	case cmdBuyStorage:
		text = b.handleBuyStorage(from.ID, msg.CommandArguments())
	case cmdSubscribe:
		text = b.handleSubscribe(from.ID, msg.CommandArguments())
	case cmdShare:
		text = b.handleShare(from.ID)
	case cmdConvert:
		text = b.handleConvert(from.ID)
	case cmdSupply:
		text = b.handleSupply()
	case cmdDeposit:
		text = b.handleDeposit()
	case cmdDepositConfirm:
		text = b.handleDepositConfirm(from.ID, msg.CommandArguments())
	case cmdPresale:
		text, markup = b.handlePresale()
	case cmdWallet:
		text = b.handleWallet(from.ID, msg.CommandArguments())
	case cmdPlay:
		text, markup = b.handlePlay()
	case cmdAdminListOrders:
		text = b.handleListOrders(from.ID)
		plain = true
	case cmdAdminReleaseOrder:
		text = b.handleReleaseOrder(from.ID, msg.CommandArguments())
		plain = true
	default:
		return
	}

	if !plain {
		text = b.translate(ctx, text, from.LanguageCode)
	}
	b.reply(msg, text, markup)
}

// ensureUser enrolls first-time senders, paying the signup airdrop.
// Returns whether this sighting created the account.
func (b *Bot) ensureUser(from *tgbotapi.User) bool {
	u := storage.User{
		ID:        from.ID,
		Username:  from.UserName,
		FirstName: from.FirstName,
		Lang:      i18n.Normalize(from.LanguageCode),
	}
	created, err := b.store.CreateUser(&u, b.cfg.Economy.Airdrop)
	if err != nil {
		b.log.Error("enrolling user failed", "user", from.ID, "error", err)
		return false
	}
	if created {
		b.log.Info("user enrolled", "user", from.ID, "airdrop", u.Balance)
	}
	return created
}

func (b *Bot) translate(ctx context.Context, text, lang string) string {
	if b.tr == nil {
		return text
	}
	return b.tr.Translate(ctx, text, lang)
}

func (b *Bot) reply(msg *tgbotapi.Message, text string, markup *tgbotapi.InlineKeyboardMarkup) {
	if text == "" {
		return
	}
	out := tgbotapi.NewMessage(msg.Chat.ID, text)
	out.ReplyToMessageID = msg.MessageID
	if markup != nil {
		out.ReplyMarkup = *markup
	}
	if _, err := b.api.Send(out); err != nil {
		b.log.Error("sending reply failed", "chat", msg.Chat.ID, "error", err)
	}
}

// SendNotification pushes a plain message to a user outside any
// command flow, e.g. when a deposit settles.
func (b *Bot) SendNotification(userID int64, text string) error {
	_, err := b.api.Send(tgbotapi.NewMessage(userID, text))
	return err
}
