package worker

import (
	"context"
	"fmt"

	"keymarket/internal/infra"
	"keymarket/internal/model"
	"keymarket/internal/repository"

	"github.com/rs/zerolog/log"
)

// LowStockJob is dispatched by the inventory service whenever a stock
// movement leaves an inventory row at or below its minimum.
type LowStockJob struct {
	InventoryID uint   `json:"inventory_id"`
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Location    string `json:"location"`
	Quantity    int    `json:"quantity"`
	MinQuantity int    `json:"min_quantity"`
}

// LowStockWorker turns low-stock jobs into notification rows for every
// admin, plus one alert email to the configured address.
type LowStockWorker struct {
	users      repository.UserRepository
	notifs     repository.NotificationRepository
	mailer     *infra.Mailer
	alertEmail string
}

func NewLowStockWorker(
	users repository.UserRepository,
	notifs repository.NotificationRepository,
	mailer *infra.Mailer,
	alertEmail string,
) *LowStockWorker {
	return &LowStockWorker{users: users, notifs: notifs, mailer: mailer, alertEmail: alertEmail}
}

func (w *LowStockWorker) Handle(ctx context.Context, job LowStockJob) error {
	admins, err := w.users.ListByRole(ctx, model.RoleAdmin)
	if err != nil {
		return fmt.Errorf("list admins: %w", err)
	}

	ref := model.InventoryRef(job.InventoryID)
	title := fmt.Sprintf("Low stock: %s", job.ProductName)
	message := fmt.Sprintf("%s at location %s is down to %d units (minimum %d)",
		job.ProductName, job.Location, job.Quantity, job.MinQuantity)

	created := 0
	for _, admin := range admins {
		// One unread alert per inventory row is enough; re-alert only after
		// it is read.
		exists, err := w.notifs.HasUnread(ctx, admin.ID, model.NotifLowStock, ref.ID)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		n := model.Notification{
			UserID:  admin.ID,
			Type:    model.NotifLowStock,
			Title:   title,
			Message: message,
		}
		n.SetRelated(ref)
		if err := w.notifs.Create(ctx, &n); err != nil {
			return err
		}
		created++
	}

	if created > 0 && w.mailer != nil && w.alertEmail != "" {
		if err := w.mailer.SendAlert(w.alertEmail, title, message); err != nil {
			// Notifications are already written; a mail failure should not
			// replay the whole job and duplicate them.
			log.Error().Err(err).Str("to", w.alertEmail).Msg("low-stock alert mail failed")
		}
	}

	log.Info().
		Uint("inventory_id", job.InventoryID).
		Int("notified", created).
		Msg("low stock alert processed")
	return nil
}
