package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/oneworldlabs/oneworld/internal/games"
	"github.com/oneworldlabs/oneworld/internal/metrics"
	"github.com/oneworldlabs/oneworld/internal/storage"
)

func (b *Bot) handleSlots(userID int64) string {
	res := games.SpinSlots(games.SlotsPayouts{
		Triple: b.cfg.Economy.SlotsTriple,
		Pair:   b.cfg.Economy.SlotsPair,
	})
	metrics.GamePlays.WithLabelValues("slots").Inc()

	text := res.Display()
	if !res.Won() {
		return text + "\nNo win, try again."
	}
	if _, err := b.store.Transfer(storage.TreasuryID, userID, res.Reward, storage.KindGame, "slots"); err != nil {
		b.log.Error("paying slots win failed", "user", userID, "error", err)
		return text + "\nPayout failed, try again later."
	}
	return text + fmt.Sprintf("\nYou won %d OWC!", res.Reward)
}

func (b *Bot) handleRoulette(userID int64, args string) string {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		return "Usage: /roulette <number 0-36> <bet_amount>"
	}
	number, numErr := strconv.Atoi(fields[0])
	bet, betErr := strconv.ParseInt(fields[1], 10, 64)
	if numErr != nil || betErr != nil {
		return "Invalid number or bet."
	}
	if bet <= 0 || b.balance(userID) < bet {
		return "Insufficient balance for that bet."
	}

	res, err := games.SpinRoulette(number, bet, b.cfg.Economy.RouletteFactor)
	if err != nil {
		return "Invalid number or bet."
	}
	metrics.GamePlays.WithLabelValues("roulette").Inc()

	if res.Hit() {
		if _, err := b.store.Transfer(storage.TreasuryID, userID, res.Payout, storage.KindGame, "roulette"); err != nil {
			b.log.Error("paying roulette win failed", "user", userID, "error", err)
			return "Payout failed, try again later."
		}
		return fmt.Sprintf("Roulette: %d. You hit! Payout: %d OWC", res.Spin, res.Payout)
	}

	// The stake flows back into the treasury on a miss.
	if _, err := b.store.Transfer(userID, storage.TreasuryID, bet, storage.KindGame, "roulette"); err != nil {
		b.log.Error("collecting roulette stake failed", "user", userID, "error", err)
	}
	return fmt.Sprintf("Roulette: %d. You lost %d OWC.", res.Spin, bet)
}

// handleDice sends the animated Telegram dice and pays out on the
// value it lands on, so the chat sees the same roll that is scored.
func (b *Bot) handleDice(ctx context.Context, msg *tgbotapi.Message) {
	sent, err := b.api.Send(tgbotapi.NewDice(msg.Chat.ID))
	if err != nil {
		b.log.Error("sending dice failed", "chat", msg.Chat.ID, "error", err)
		return
	}
	value := 1
	if sent.Dice != nil {
		value = sent.Dice.Value
	}

	reward := games.DiceReward(value, games.DiceRewards{
		High: b.cfg.Economy.DiceHigh,
		Mid:  b.cfg.Economy.DiceMid,
		Low:  b.cfg.Economy.DiceLow,
	})
	metrics.GamePlays.WithLabelValues("dice").Inc()

	text := fmt.Sprintf("You rolled %d. You got +%d OWC.", value, reward)
	if _, err := b.store.Transfer(storage.TreasuryID, msg.From.ID, reward, storage.KindGame, "dice"); err != nil {
		b.log.Error("paying dice reward failed", "user", msg.From.ID, "error", err)
		text = "Payout failed, try again later."
	}
	b.reply(msg, b.translate(ctx, text, msg.From.LanguageCode), nil)
}

func (b *Bot) handleQuiz() (string, *tgbotapi.InlineKeyboardMarkup) {
	q := games.DailyQuiz()
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(q.Options))
	for _, opt := range q.Options {
		data := fmt.Sprintf("%s%s:%s", callbackQuiz, q.ID, opt.Key)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(opt.Label, data),
		))
	}

	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return q.Prompt, &markup
}
