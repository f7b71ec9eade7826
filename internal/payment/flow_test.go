package payment

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/buildhub/homeowner-gateway/internal/logger"
	"github.com/buildhub/homeowner-gateway/internal/models"
	"github.com/buildhub/homeowner-gateway/internal/repository"
	"github.com/buildhub/homeowner-gateway/internal/upstream"
)

func TestMain(m *testing.M) {
	logger.Init("error")
	os.Exit(m.Run())
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) InitiatePayment(ctx context.Context, sess upstream.Session, endpoint string, payload map[string]interface{}) (models.CheckoutDescriptor, error) {
	args := m.Called(ctx, sess, endpoint, payload)
	return args.Get(0).(models.CheckoutDescriptor), args.Error(1)
}

func (m *mockGateway) VerifyPayment(ctx context.Context, sess upstream.Session, endpoint string, payload map[string]interface{}) error {
	args := m.Called(ctx, sess, endpoint, payload)
	return args.Error(0)
}

type mockUnlocks struct {
	mock.Mock
}

func (m *mockUnlocks) Add(ctx context.Context, homeownerID, designID int64, source string) error {
	args := m.Called(ctx, homeownerID, designID, source)
	return args.Error(0)
}

type mockAudit struct {
	mock.Mock
}

func (m *mockAudit) RecordInitiated(ctx context.Context, homeownerID int64, kind string, resourceID int64, orderRef string, amountPaise int64) (string, error) {
	args := m.Called(ctx, homeownerID, kind, resourceID, orderRef, amountPaise)
	return args.String(0), args.Error(1)
}

func (m *mockAudit) MarkOutcome(ctx context.Context, homeownerID int64, orderRef, status, message string) error {
	args := m.Called(ctx, homeownerID, orderRef, status, message)
	return args.Error(0)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifyUser(homeownerID int64, event string, data interface{}) {
	m.Called(homeownerID, event, data)
}

func newFlowFixture() (*Flow, *mockGateway, *mockUnlocks, *mockAudit, *mockNotifier) {
	gw := new(mockGateway)
	ul := new(mockUnlocks)
	au := new(mockAudit)
	no := new(mockNotifier)
	return NewFlow(gw, ul, au, no), gw, ul, au, no
}

var sess = upstream.Session{HomeownerID: 7, Cookie: "PHPSESSID=x"}

func TestBeginOpensCheckout(t *testing.T) {
	flow, gw, _, au, _ := newFlowFixture()
	desc := models.CheckoutDescriptor{OrderID: "order_1", KeyID: "rzp_key", AmountPaise: 800000, Currency: "INR", PaymentID: "91"}
	gw.On("InitiatePayment", mock.Anything, sess, "payment/initiate_layout_payment.php",
		map[string]interface{}{"design_id": int64(3)}).Return(desc, nil)
	au.On("RecordInitiated", mock.Anything, int64(7), KindLayoutView, int64(3), "order_1", int64(800000)).Return("audit-1", nil)

	got, err := flow.Begin(context.Background(), sess, KindLayoutView, 3, 0)

	require.NoError(t, err)
	assert.Equal(t, desc, got)
	assert.Equal(t, StateCheckoutOpen, flow.State(7, KindLayoutView, 3))
	gw.AssertExpectations(t)
	au.AssertExpectations(t)
}

func TestBeginPassesAmountOverrideForLayouts(t *testing.T) {
	flow, gw, _, au, _ := newFlowFixture()
	gw.On("InitiatePayment", mock.Anything, sess, "payment/initiate_layout_payment.php",
		map[string]interface{}{"design_id": int64(3), "amount_override": 8000.0}).
		Return(models.CheckoutDescriptor{OrderID: "order_2"}, nil)
	au.On("RecordInitiated", mock.Anything, int64(7), KindLayoutView, int64(3), "order_2", int64(0)).Return("audit-2", nil)

	_, err := flow.Begin(context.Background(), sess, KindLayoutView, 3, 8000)

	require.NoError(t, err)
	gw.AssertExpectations(t)
}

func TestBeginRejectsSecondCheckoutForSameResource(t *testing.T) {
	flow, gw, _, au, _ := newFlowFixture()
	gw.On("InitiatePayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(models.CheckoutDescriptor{OrderID: "order_1"}, nil).Once()
	au.On("RecordInitiated", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("a", nil)

	_, err := flow.Begin(context.Background(), sess, KindEstimate, 12, 0)
	require.NoError(t, err)

	_, err = flow.Begin(context.Background(), sess, KindEstimate, 12, 0)
	assert.ErrorIs(t, err, ErrPaymentInFlight)
}

func TestBeginFailureRelocks(t *testing.T) {
	flow, gw, _, _, _ := newFlowFixture()
	gw.On("InitiatePayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(models.CheckoutDescriptor{}, &upstream.Error{Op: "initiate", Message: "Payment service unavailable"}).Once()

	_, err := flow.Begin(context.Background(), sess, KindEstimate, 12, 0)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Payment service unavailable")
	assert.Equal(t, StateLocked, flow.State(7, KindEstimate, 12))
}

func TestCompleteUnlocksAndNotifies(t *testing.T) {
	flow, gw, ul, au, no := newFlowFixture()
	gw.On("InitiatePayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(models.CheckoutDescriptor{OrderID: "order_1", PaymentID: "91"}, nil)
	au.On("RecordInitiated", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("a", nil)
	au.On("MarkOutcome", mock.Anything, int64(7), "order_1", repository.AuditVerified, "").Return(nil)

	result := models.GatewayResult{RazorpayPaymentID: "pay_x", RazorpayOrderID: "order_1", RazorpaySignature: "sig"}
	gw.On("VerifyPayment", mock.Anything, sess, "payment/verify_layout_payment.php",
		map[string]interface{}{
			"razorpay_payment_id": "pay_x",
			"razorpay_order_id":   "order_1",
			"razorpay_signature":  "sig",
			"payment_id":          "91",
			"design_id":           int64(3),
		}).Return(nil)
	ul.On("Add", mock.Anything, int64(7), int64(3), "razorpay").Return(nil)
	no.On("NotifyUser", int64(7), "payment_unlocked", mock.Anything).Return()

	_, err := flow.Begin(context.Background(), sess, KindLayoutView, 3, 0)
	require.NoError(t, err)

	err = flow.Complete(context.Background(), sess, KindLayoutView, 3, result, "91")

	require.NoError(t, err)
	assert.Equal(t, StateUnlocked, flow.State(7, KindLayoutView, 3))
	ul.AssertExpectations(t)
	no.AssertExpectations(t)
}

func TestCompleteFailureSurfacesUpstreamMessageAndRelocks(t *testing.T) {
	flow, gw, _, au, _ := newFlowFixture()
	gw.On("InitiatePayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(models.CheckoutDescriptor{OrderID: "order_1"}, nil)
	au.On("RecordInitiated", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("a", nil)
	au.On("MarkOutcome", mock.Anything, int64(7), "order_1", repository.AuditFailed, mock.Anything).Return(nil)
	gw.On("VerifyPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&upstream.Error{Op: "verify", Message: "Signature mismatch"})

	_, err := flow.Begin(context.Background(), sess, KindEstimate, 12, 0)
	require.NoError(t, err)

	err = flow.Complete(context.Background(), sess, KindEstimate, 12, models.GatewayResult{}, "91")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Signature mismatch")
	assert.Equal(t, StateLocked, flow.State(7, KindEstimate, 12))
}

func TestCompleteWithoutOpenCheckoutFails(t *testing.T) {
	flow, _, _, _, _ := newFlowFixture()

	err := flow.Complete(context.Background(), sess, KindEstimate, 12, models.GatewayResult{}, "91")

	assert.Error(t, err)
}

func TestEstimateCompleteDoesNotTouchUnlockCache(t *testing.T) {
	flow, gw, ul, au, no := newFlowFixture()
	gw.On("InitiatePayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(models.CheckoutDescriptor{OrderID: "order_1"}, nil)
	au.On("RecordInitiated", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("a", nil)
	au.On("MarkOutcome", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	gw.On("VerifyPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	no.On("NotifyUser", mock.Anything, mock.Anything, mock.Anything).Return()

	_, err := flow.Begin(context.Background(), sess, KindEstimate, 12, 0)
	require.NoError(t, err)
	require.NoError(t, flow.Complete(context.Background(), sess, KindEstimate, 12, models.GatewayResult{}, "91"))

	ul.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentRequestCheckoutRoundTrip(t *testing.T) {
	flow, gw, ul, au, no := newFlowFixture()
	desc := models.CheckoutDescriptor{OrderID: "order_9", KeyID: "rzp_key", AmountPaise: 5000000, Currency: "INR"}
	gw.On("InitiatePayment", mock.Anything, sess, "homeowner/initiate_custom_payment.php",
		map[string]interface{}{"payment_request_id": int64(44), "amount": 50000.0}).Return(desc, nil)
	au.On("RecordInitiated", mock.Anything, int64(7), KindPaymentRequest, int64(44), "order_9", int64(5000000)).Return("audit-9", nil)
	au.On("MarkOutcome", mock.Anything, int64(7), "order_9", repository.AuditVerified, "").Return(nil)

	result := models.GatewayResult{RazorpayPaymentID: "pay_y", RazorpayOrderID: "order_9", RazorpaySignature: "sig"}
	gw.On("VerifyPayment", mock.Anything, sess, "homeowner/verify_custom_payment.php",
		map[string]interface{}{
			"payment_request_id":  int64(44),
			"razorpay_order_id":   "order_9",
			"razorpay_payment_id": "pay_y",
			"razorpay_signature":  "sig",
		}).Return(nil)
	no.On("NotifyUser", int64(7), "payment_unlocked", mock.Anything).Return()

	got, err := flow.Begin(context.Background(), sess, KindPaymentRequest, 44, 50000)
	require.NoError(t, err)
	assert.Equal(t, desc, got)

	require.NoError(t, flow.Complete(context.Background(), sess, KindPaymentRequest, 44, result, ""))

	assert.Equal(t, StateUnlocked, flow.State(7, KindPaymentRequest, 44))
	ul.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	gw.AssertExpectations(t)
	au.AssertExpectations(t)
}

func TestAbandonRelocks(t *testing.T) {
	flow, gw, _, au, _ := newFlowFixture()
	gw.On("InitiatePayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(models.CheckoutDescriptor{OrderID: "order_1"}, nil)
	au.On("RecordInitiated", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("a", nil)

	_, err := flow.Begin(context.Background(), sess, KindEstimate, 12, 0)
	require.NoError(t, err)

	flow.Abandon(7, KindEstimate, 12)

	assert.Equal(t, StateLocked, flow.State(7, KindEstimate, 12))
}
