package bot

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/oneworldlabs/oneworld/internal/games"
	"github.com/oneworldlabs/oneworld/internal/storage"
)

// Callback data prefixes used by the inline keyboards.
const (
	callbackTask    = "task:"
	callbackQuiz    = "quiz:"
	callbackPresale = "presale:"
	callbackMenu    = "menu:"
	callbackBuy     = "buy:"
)

// handleCallback answers an inline button press. The answer shows as a
// toast over the chat; most presses also edit the original message.
func (b *Bot) handleCallback(cq *tgbotapi.CallbackQuery) {
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	from := cq.From
	if from == nil || from.IsBot {
		return
	}
	b.ensureUser(from)

	answer, edit, markup := b.routeCallback(from, cq.Data)

	b.answerCallback(cq, b.translate(ctx, answer, from.LanguageCode))
	if edit != "" {
		b.editMessage(cq, b.translate(ctx, edit, from.LanguageCode), markup)
	}
}

func (b *Bot) routeCallback(from *tgbotapi.User, data string) (answer, edit string, markup *tgbotapi.InlineKeyboardMarkup) {
	switch {
	case strings.HasPrefix(data, callbackTask):
		answer, edit = b.taskCallback(from.ID, strings.TrimPrefix(data, callbackTask))
	case strings.HasPrefix(data, callbackQuiz):
		answer, edit = b.quizCallback(from.ID, strings.TrimPrefix(data, callbackQuiz))
	case strings.HasPrefix(data, callbackPresale):
		answer, edit = b.presaleCallback(from.ID, strings.TrimPrefix(data, callbackPresale))
	case strings.HasPrefix(data, callbackBuy):
		answer = b.buyCallback(from.ID, strings.TrimPrefix(data, callbackBuy))
	case strings.HasPrefix(data, callbackMenu):
		edit, markup = b.menuCallback(from.ID, strings.TrimPrefix(data, callbackMenu))
	}
	return answer, edit, markup
}

func (b *Bot) taskCallback(userID int64, task string) (answer, edit string) {
	reward := b.taskReward(task)
	_, err := b.store.ClaimTask(userID, task, reward)
	switch {
	case errors.Is(err, storage.ErrAlreadyClaimed):
		return "You already claimed this task.", ""
	case err != nil:
		b.log.Error("task claim failed", "user", userID, "task", task, "error", err)
		return "Could not claim the task, try again later.", ""
	}

	return fmt.Sprintf("Task claimed! +%d OWC", reward),
		fmt.Sprintf("Task '%s' claimed. You got +%d OWC.", task, reward)
}

func (b *Bot) quizCallback(userID int64, data string) (answer, edit string) {
	qid, opt, ok := strings.Cut(data, ":")
	if !ok {
		return "", ""
	}
	q := games.DailyQuiz()
	if qid != q.ID {
		return "That quiz is over.", ""
	}
	if !q.Check(opt) {
		return "Wrong answer.", "Wrong answer. Try again later."
	}

	reward := b.cfg.Economy.QuizReward
	if _, err := b.store.Transfer(storage.TreasuryID, userID, reward, storage.KindQuiz, q.ID); err != nil {
		b.log.Error("paying quiz reward failed", "user", userID, "error", err)
		return "Payout failed, try again later.", ""
	}

	return fmt.Sprintf("Correct! +%d OWC", reward),
		fmt.Sprintf("Correct! You earned %d OWC.", reward)
}

func (b *Bot) presaleCallback(userID int64, data string) (answer, edit string) {
	amount, err := strconv.ParseInt(data, 10, 64)
	if err != nil || !slices.Contains(b.cfg.Economy.PresalePackages, amount) {
		return "Unknown presale package.", ""
	}

	usd := amount * b.cfg.Economy.PresaleUSDPerOWC
	order, err := b.store.CreatePresaleOrder(userID, amount, usd)
	if err != nil {
		b.log.Error("booking presale failed", "user", userID, "error", err)
		return "Could not book the package, try again later.", ""
	}

	answer = fmt.Sprintf("Presale booked: %d OWC (order #%s). Send BNB to treasury and confirm.",
		amount, order.ID)
	edit = fmt.Sprintf("You booked %d OWC. Order id: %s.\nSend BNB to treasury and use /deposit_confirm <tx_hash> to confirm.",
		amount, order.ID)
	return answer, edit
}

// buyCallback routes store buttons through the matching commands.
func (b *Bot) buyCallback(userID int64, item string) string {
	switch item {
	case "storage_100":
		return b.handleBuyStorage(userID, "100")
	case "sub_basic":
		return b.handleSubscribe(userID, "basic")
	case "sub_premium":
		return b.handleSubscribe(userID, "premium")
	}
	return ""
}

// menuCallback swaps the menu message for the chosen section.
func (b *Bot) menuCallback(userID int64, section string) (edit string, markup *tgbotapi.InlineKeyboardMarkup) {
	switch section {
	case "main":
		return b.handleMenu()
	case "balance":
		return b.handleBalance(userID), nil
	case "tasks":
		return b.handleTasks()
	case "games":
		return b.gamesText(), nil
	case "store":
		return b.handleStore()
	}
	return "", nil
}

// gamesText lists the chat games. There is no /games command; the menu
// button is the only way here.
func (b *Bot) gamesText() string {
	return "Games:\n" +
		"/slots - spin the slot machine\n" +
		"/roulette <number 0-36> <bet_amount> - straight-up bet\n" +
		"/dice - roll for a prize\n" +
		"/quiz - answer for OWC\n" +
		"/play - open the web game hub"
}

func (b *Bot) answerCallback(cq *tgbotapi.CallbackQuery, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, text)); err != nil {
		b.log.Error("answering callback failed", "error", err)
	}
}

func (b *Bot) editMessage(cq *tgbotapi.CallbackQuery, text string, markup *tgbotapi.InlineKeyboardMarkup) {
	if cq.Message == nil {
		return
	}

	var edit tgbotapi.Chattable
	if markup != nil {
		edit = tgbotapi.NewEditMessageTextAndMarkup(cq.Message.Chat.ID, cq.Message.MessageID, text, *markup)
	} else {
		edit = tgbotapi.NewEditMessageText(cq.Message.Chat.ID, cq.Message.MessageID, text)
	}
	if _, err := b.api.Send(edit); err != nil {
		b.log.Error("editing message failed", "error", err)
	}
}
