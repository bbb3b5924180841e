package wizard

import (
	"context"
	"sync"
	"time"

	"github.com/nyattihq/nyatti/internal/client/api"
	pkgerrors "github.com/nyattihq/nyatti/pkg/errors"
	"github.com/nyattihq/nyatti/pkg/logger"
)

// CheckoutService is the slice of the API the payment initiator needs.
type CheckoutService interface {
	InitializePayment(ctx context.Context, planType string) (*api.Checkout, error)
	VerifyPayment(ctx context.Context, reference string) (*api.Payment, error)
}

// PaymentCallbacks receive the outcome of one checkout attempt. Exactly one
// of the two fires, exactly once, per Start call.
type PaymentCallbacks struct {
	// OnSuccess fires when the gateway confirms the payment.
	OnSuccess func(reference string)
	// OnClose fires when the checkout ends without a confirmed payment:
	// the transaction failed, was abandoned, or the attempt was cancelled.
	// The caller stays on the payment step; nothing has been persisted.
	OnClose func()
}

// Initiator drives one checkout attempt: initialize a transaction, hand the
// checkout URL to the browser, then poll verification until the gateway
// reports a terminal state.
type Initiator struct {
	service     CheckoutService
	openURL     func(url string) error
	pollEvery   time.Duration
	maxAttempts int
}

// NewInitiator creates a payment initiator. openURL hands the checkout URL
// to the user's browser; it may be nil when the caller displays the URL
// itself. maxAttempts bounds verification polling; zero means poll forever
// until the context is cancelled.
func NewInitiator(service CheckoutService, openURL func(string) error, pollEvery time.Duration, maxAttempts int) *Initiator {
	return &Initiator{
		service:     service,
		openURL:     openURL,
		pollEvery:   pollEvery,
		maxAttempts: maxAttempts,
	}
}

// Start opens a checkout for the plan and blocks until it resolves. A fresh
// reference is minted server-side per attempt, so retries never collide.
// The returned checkout carries the URL and reference for display.
func (i *Initiator) Start(ctx context.Context, planType string, callbacks PaymentCallbacks) (*api.Checkout, error) {
	checkout, err := i.service.InitializePayment(ctx, planType)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to initialize checkout")
	}

	logger.InfoEvent().
		Str("reference", checkout.Reference).
		Int64("amount", checkout.Amount).
		Msg("Checkout opened")

	if i.openURL != nil {
		if err := i.openURL(checkout.AuthorizationURL); err != nil {
			logger.WarnEvent().Err(err).Msg("Could not open browser; URL must be opened manually")
		}
	}

	var once sync.Once
	succeed := func(reference string) {
		once.Do(func() {
			if callbacks.OnSuccess != nil {
				callbacks.OnSuccess(reference)
			}
		})
	}
	dismiss := func() {
		once.Do(func() {
			if callbacks.OnClose != nil {
				callbacks.OnClose()
			}
		})
	}

	i.poll(ctx, checkout.Reference, succeed, dismiss)
	return checkout, nil
}

func (i *Initiator) poll(ctx context.Context, reference string, succeed func(string), dismiss func()) {
	ticker := time.NewTicker(i.pollEvery)
	defer ticker.Stop()

	attempts := 0
	for {
		select {
		case <-ctx.Done():
			dismiss()
			return
		case <-ticker.C:
		}

		attempts++
		payment, err := i.service.VerifyPayment(ctx, reference)
		if err != nil {
			// Transient verification errors are not a payment failure;
			// keep polling until the bound runs out.
			logger.DebugEvent().Err(err).Str("reference", reference).Msg("Verification poll failed")
		} else {
			switch payment.Status {
			case "success":
				succeed(reference)
				return
			case "failed", "abandoned":
				dismiss()
				return
			}
		}

		if i.maxAttempts > 0 && attempts >= i.maxAttempts {
			dismiss()
			return
		}
	}
}
