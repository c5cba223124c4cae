package email

import (
	"context"
	"fmt"

	"sales_crm_backend/internal/events"
	"sales_crm_backend/platform/config"
	"sales_crm_backend/platform/logger"
)

type Module struct {
	sender Sender
}

// NewModule wires the SMTP sender (or a noop when email is disabled) and
// subscribes the welcome mail to user creation.
func NewModule(cfg config.EmailConfig, bus events.Bus, log *logger.Logger) *Module {
	var sender Sender
	if cfg.GetEmailEnabled() {
		sender = NewSMTPSender(cfg)
	} else {
		sender = NoopSender{}
		log.Info("email delivery disabled, welcome mails will be dropped")
	}

	bus.Subscribe(events.UserCreated{}.EventName(), events.HandlerFunc(
		func(ctx context.Context, event events.Event) error {
			evt, ok := event.(events.UserCreated)
			if !ok {
				return fmt.Errorf("unexpected event type %T", event)
			}
			if err := sender.SendWelcomeEmail(ctx, evt.Email, evt.FullName, evt.TemporaryPassword); err != nil {
				log.Error("welcome email failed", "user_id", evt.UserID, "error", err)
				return err
			}
			log.Info("welcome email sent", "user_id", evt.UserID)
			return nil
		}))

	return &Module{sender: sender}
}

// Sender exposes the configured sender for other workflows.
func (m *Module) Sender() Sender {
	return m.sender
}
