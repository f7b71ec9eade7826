package payment

import (
	"context"
	"fmt"
	"sync"

	"github.com/buildhub/homeowner-gateway/internal/logger"
	"github.com/buildhub/homeowner-gateway/internal/models"
	"github.com/buildhub/homeowner-gateway/internal/repository"
	"github.com/buildhub/homeowner-gateway/internal/upstream"
	"github.com/buildhub/homeowner-gateway/internal/ws"
)

// Unlock kinds.
const (
	KindLayoutView       = "layout_view"
	KindTechnicalDetails = "technical_details"
	KindEstimate         = "estimate"
	KindPaymentRequest   = "payment_request"
)

// Flow states.
const (
	StateLocked          = "locked"
	StateOrderInitiating = "order_initiating"
	StateCheckoutOpen    = "checkout_open"
	StateVerifying       = "verifying"
	StateUnlocked        = "unlocked"
)

// ErrPaymentInFlight means another payment for the same resource is already
// running; the caller should not open a second checkout.
var ErrPaymentInFlight = fmt.Errorf("a payment for this item is already in progress")

// kindConfig binds an unlock kind to its upstream endpoints and payload shape.
type kindConfig struct {
	initiateEndpoint string
	verifyEndpoint   string
	initiatePayload  func(resourceID int64, amountOverride float64) map[string]interface{}
	verifyPayload    func(resourceID int64, res models.GatewayResult, paymentID string) map[string]interface{}
}

var kinds = map[string]kindConfig{
	KindLayoutView: {
		initiateEndpoint: "payment/initiate_layout_payment.php",
		verifyEndpoint:   "payment/verify_layout_payment.php",
		initiatePayload: func(resourceID int64, amountOverride float64) map[string]interface{} {
			p := map[string]interface{}{"design_id": resourceID}
			if amountOverride > 0 {
				p["amount_override"] = amountOverride
			}
			return p
		},
		verifyPayload: func(resourceID int64, res models.GatewayResult, paymentID string) map[string]interface{} {
			return map[string]interface{}{
				"razorpay_payment_id": res.RazorpayPaymentID,
				"razorpay_order_id":   res.RazorpayOrderID,
				"razorpay_signature":  res.RazorpaySignature,
				"payment_id":          paymentID,
				"design_id":           resourceID,
			}
		},
	},
	KindTechnicalDetails: {
		initiateEndpoint: "payment/initiate_technical_details_payment.php",
		verifyEndpoint:   "payment/verify_technical_details_payment.php",
		initiatePayload: func(resourceID int64, _ float64) map[string]interface{} {
			return map[string]interface{}{"house_plan_id": resourceID}
		},
		verifyPayload: func(resourceID int64, res models.GatewayResult, paymentID string) map[string]interface{} {
			return map[string]interface{}{
				"razorpay_payment_id": res.RazorpayPaymentID,
				"razorpay_order_id":   res.RazorpayOrderID,
				"razorpay_signature":  res.RazorpaySignature,
				"payment_id":          paymentID,
			}
		},
	},
	KindEstimate: {
		initiateEndpoint: "payment/initiate_estimate_payment.php",
		verifyEndpoint:   "payment/verify_estimate_payment.php",
		initiatePayload: func(resourceID int64, _ float64) map[string]interface{} {
			return map[string]interface{}{"estimate_id": resourceID}
		},
		verifyPayload: func(resourceID int64, res models.GatewayResult, paymentID string) map[string]interface{} {
			return map[string]interface{}{
				"razorpay_payment_id": res.RazorpayPaymentID,
				"razorpay_order_id":   res.RazorpayOrderID,
				"razorpay_signature":  res.RazorpaySignature,
				"payment_id":          paymentID,
			}
		},
	},
	KindPaymentRequest: {
		initiateEndpoint: "homeowner/initiate_custom_payment.php",
		verifyEndpoint:   "homeowner/verify_custom_payment.php",
		initiatePayload: func(resourceID int64, amountOverride float64) map[string]interface{} {
			p := map[string]interface{}{"payment_request_id": resourceID}
			if amountOverride > 0 {
				p["amount"] = amountOverride
			}
			return p
		},
		verifyPayload: func(resourceID int64, res models.GatewayResult, _ string) map[string]interface{} {
			return map[string]interface{}{
				"payment_request_id":  resourceID,
				"razorpay_order_id":   res.RazorpayOrderID,
				"razorpay_payment_id": res.RazorpayPaymentID,
				"razorpay_signature":  res.RazorpaySignature,
			}
		},
	},
}

// Gateway is the slice of the upstream client the flow needs.
type Gateway interface {
	InitiatePayment(ctx context.Context, sess upstream.Session, endpoint string, payload map[string]interface{}) (models.CheckoutDescriptor, error)
	VerifyPayment(ctx context.Context, sess upstream.Session, endpoint string, payload map[string]interface{}) error
}

// UnlockStore records successful unlocks. Only layout unlocks are cached.
type UnlockStore interface {
	Add(ctx context.Context, homeownerID, designID int64, source string) error
}

// AuditTrail records payment attempts and outcomes.
type AuditTrail interface {
	RecordInitiated(ctx context.Context, homeownerID int64, kind string, resourceID int64, orderRef string, amountPaise int64) (string, error)
	MarkOutcome(ctx context.Context, homeownerID int64, orderRef, status, message string) error
}

// Notifier pushes unlock events to the homeowner's open connections.
type Notifier interface {
	NotifyUser(homeownerID int64, event string, data interface{})
}

type flightKey struct {
	homeownerID int64
	kind        string
	resourceID  int64
}

type flight struct {
	state   string
	orderID string
}

// Flow drives the pay-to-unlock sequence for every unlock kind. One checkout
// per (homeowner, kind, resource) may be open at a time; a failed attempt
// returns the item to locked with no automatic retry.
type Flow struct {
	gateway Gateway
	unlocks UnlockStore
	audit   AuditTrail
	notify  Notifier

	mu      sync.Mutex
	flights map[flightKey]*flight
}

func NewFlow(gateway Gateway, unlocks UnlockStore, audit AuditTrail, notify Notifier) *Flow {
	return &Flow{
		gateway: gateway,
		unlocks: unlocks,
		audit:   audit,
		notify:  notify,
		flights: map[flightKey]*flight{},
	}
}

// State reports the flow state for a resource, StateLocked when no payment is
// running.
func (f *Flow) State(homeownerID int64, kind string, resourceID int64) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if fl, ok := f.flights[flightKey{homeownerID, kind, resourceID}]; ok {
		return fl.state
	}
	return StateLocked
}

// Begin initiates a payment and returns the checkout descriptor the frontend
// feeds to the Razorpay widget. amountOverride carries the negotiated price
// for layout views and the amount being paid on a contractor payment request;
// the other kinds price server-side and ignore it.
func (f *Flow) Begin(ctx context.Context, sess upstream.Session, kind string, resourceID int64, amountOverride float64) (models.CheckoutDescriptor, error) {
	cfg, ok := kinds[kind]
	if !ok {
		return models.CheckoutDescriptor{}, fmt.Errorf("unknown payment kind %q", kind)
	}

	key := flightKey{sess.HomeownerID, kind, resourceID}
	f.mu.Lock()
	if fl, exists := f.flights[key]; exists {
		f.mu.Unlock()
		if fl.state == StateUnlocked {
			return models.CheckoutDescriptor{}, fmt.Errorf("this item is already unlocked")
		}
		return models.CheckoutDescriptor{}, ErrPaymentInFlight
	}
	f.flights[key] = &flight{state: StateOrderInitiating}
	f.mu.Unlock()

	desc, err := f.gateway.InitiatePayment(ctx, sess, cfg.initiateEndpoint, cfg.initiatePayload(resourceID, amountOverride))
	if err != nil {
		f.reset(key)
		return models.CheckoutDescriptor{}, err
	}

	if _, auditErr := f.audit.RecordInitiated(ctx, sess.HomeownerID, kind, resourceID, desc.OrderID, desc.AmountPaise); auditErr != nil {
		logger.Log.WithError(auditErr).Warn("payment audit write failed")
	}

	f.mu.Lock()
	f.flights[key] = &flight{state: StateCheckoutOpen, orderID: desc.OrderID}
	f.mu.Unlock()

	return desc, nil
}

// Complete verifies a finished checkout. On success the unlock is recorded
// locally and pushed to the homeowner; on failure the upstream message is
// returned verbatim and the item relocks.
func (f *Flow) Complete(ctx context.Context, sess upstream.Session, kind string, resourceID int64, res models.GatewayResult, paymentID string) error {
	cfg, ok := kinds[kind]
	if !ok {
		return fmt.Errorf("unknown payment kind %q", kind)
	}

	key := flightKey{sess.HomeownerID, kind, resourceID}
	f.mu.Lock()
	fl, exists := f.flights[key]
	if !exists || fl.state != StateCheckoutOpen {
		f.mu.Unlock()
		return fmt.Errorf("no open checkout for this item")
	}
	fl.state = StateVerifying
	orderID := fl.orderID
	f.mu.Unlock()

	if err := f.gateway.VerifyPayment(ctx, sess, cfg.verifyEndpoint, cfg.verifyPayload(resourceID, res, paymentID)); err != nil {
		f.reset(key)
		if auditErr := f.audit.MarkOutcome(ctx, sess.HomeownerID, orderID, repository.AuditFailed, err.Error()); auditErr != nil {
			logger.Log.WithError(auditErr).Warn("payment audit update failed")
		}
		return err
	}

	if kind == KindLayoutView {
		if err := f.unlocks.Add(ctx, sess.HomeownerID, resourceID, "razorpay"); err != nil {
			logger.Log.WithError(err).Warn("unlock cache write failed")
		}
	}
	if auditErr := f.audit.MarkOutcome(ctx, sess.HomeownerID, orderID, repository.AuditVerified, ""); auditErr != nil {
		logger.Log.WithError(auditErr).Warn("payment audit update failed")
	}

	f.mu.Lock()
	f.flights[key] = &flight{state: StateUnlocked, orderID: orderID}
	f.mu.Unlock()

	if f.notify != nil {
		f.notify.NotifyUser(sess.HomeownerID, ws.EventPaymentUnlocked, map[string]interface{}{
			"kind":        kind,
			"resource_id": resourceID,
		})
	}

	return nil
}

// Abandon relocks an open checkout, e.g. when the homeowner dismisses the
// widget.
func (f *Flow) Abandon(homeownerID int64, kind string, resourceID int64) {
	f.reset(flightKey{homeownerID, kind, resourceID})
}

func (f *Flow) reset(key flightKey) {
	f.mu.Lock()
	delete(f.flights, key)
	f.mu.Unlock()
}
