package payments

import (
	"context"
	"log/slog"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/paymentintent"
)

// Charger is the payment collaborator: it captures an appointment's deposit
// after the provider confirms. Capture happens outside the booking
// transaction; a failed capture never rolls back a confirmation.
type Charger interface {
	CaptureDeposit(ctx context.Context, appointmentID string, amountCents int64) error
}

// StripeCharger captures deposits as Stripe PaymentIntents. The idempotency
// key is derived from the appointment id so a retried confirmation cannot
// double-charge.
type StripeCharger struct {
	log      *slog.Logger
	currency string
}

func NewStripeCharger(apiKey string, log *slog.Logger) *StripeCharger {
	stripe.Key = apiKey
	if log == nil {
		log = slog.Default()
	}
	return &StripeCharger{
		log:      log.With(slog.String("component", "payments.stripe")),
		currency: string(stripe.CurrencyUSD),
	}
}

func (c *StripeCharger) CaptureDeposit(ctx context.Context, appointmentID string, amountCents int64) error {
	if amountCents <= 0 {
		return nil
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(c.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.IdempotencyKey = stripe.String("deposit:" + appointmentID)
	params.AddMetadata("appointment_id", appointmentID)

	pi, err := paymentintent.New(params)
	if err != nil {
		return err
	}

	c.log.Info("deposit capture initiated",
		slog.String("appointment_id", appointmentID),
		slog.String("payment_intent_id", pi.ID),
		slog.Int64("amount_cents", amountCents),
	)
	return nil
}

// NopCharger is used when no payment processor is configured.
type NopCharger struct{}

func (NopCharger) CaptureDeposit(ctx context.Context, appointmentID string, amountCents int64) error {
	return nil
}
