// Package notify fans out payment outcome notifications. Delivery failures
// are the caller's to log; they never affect payment reconciliation.
package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"

	"github.com/zathu/zathu/internal/domain"
)

// Notifier announces a completed payment.
type Notifier interface {
	PaymentCompleted(ctx context.Context, p *domain.Payment) error
}

// LogNotifier writes completed payments to the application log. It is the
// default when no external channel is configured.
type LogNotifier struct{}

func (LogNotifier) PaymentCompleted(_ context.Context, p *domain.Payment) error {
	log.Info().
		Str("tx_ref", p.TxRef).
		Str("amount", p.Amount.String()).
		Str("currency", p.Currency).
		Str("organization_id", p.OrganizationID.String()).
		Msg("payment completed")
	return nil
}

// SlackNotifier posts completed payments to a Slack channel.
type SlackNotifier struct {
	client  *slack.Client
	channel string
}

func NewSlackNotifier(botToken, channel string) *SlackNotifier {
	return &SlackNotifier{
		client:  slack.New(botToken),
		channel: channel,
	}
}

func (n *SlackNotifier) PaymentCompleted(ctx context.Context, p *domain.Payment) error {
	text := fmt.Sprintf("Payment `%s` completed: %s %s via %s", p.TxRef, p.Amount.String(), p.Currency, p.Channel)

	_, _, err := n.client.PostMessageContext(ctx, n.channel, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("notify.SlackNotifier.PaymentCompleted: %w", err)
	}

	return nil
}
