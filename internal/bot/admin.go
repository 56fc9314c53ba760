package bot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/oneworldlabs/oneworld/internal/storage"
)

func (b *Bot) handleListOrders(userID int64) string {
	if !b.cfg.IsAdmin(userID) {
		return "Not authorized"
	}

	orders, err := b.store.ListOrders(50)
	if err != nil {
		b.log.Error("listing orders failed", "error", err)
		return "Could not list orders."
	}

	var sb strings.Builder
	sb.WriteString("Presale orders:")
	for _, o := range orders {
		sb.WriteString(fmt.Sprintf("\n#%s user:%d amt:%d cost:%d status:%s",
			o.ID, o.UserID, o.Amount, o.USD, o.Status))
	}
	return sb.String()
}

func (b *Bot) handleReleaseOrder(userID int64, args string) string {
	if !b.cfg.IsAdmin(userID) {
		return "Not authorized"
	}
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return "Usage: /admin_release_order <order_id>"
	}
	id := fields[0]

	order, err := b.store.GetPresaleOrder(id)
	if errors.Is(err, storage.ErrNotFound) {
		return "Order not found"
	}
	if err != nil {
		b.log.Error("order lookup failed", "order", id, "error", err)
		return "Could not release the order."
	}
	if order.Status != storage.OrderBooked {
		return "Order not in booked state"
	}

	released, err := b.store.ReleaseOrder(id)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		// Lost a race with another release.
		return "Order not in booked state"
	case errors.Is(err, storage.ErrInsufficientFunds):
		return "Treasury cannot cover this order"
	case err != nil:
		b.log.Error("releasing order failed", "order", id, "error", err)
		return "Could not release the order."
	}

	b.log.Info("presale order released", "order", id, "admin", userID, "amount", released.Amount)
	return fmt.Sprintf("Order %s released and credited %d OWC", released.ID, released.Amount)
}
