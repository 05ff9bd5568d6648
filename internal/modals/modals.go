// Package modals simulates the confirmation dialogs: reviewing a new
// request, paying an incoming request and declining one. Nothing is
// signed or submitted; confirmations always succeed.
package modals

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/mbd888/peerpay/internal/addressbook"
	"github.com/mbd888/peerpay/internal/logging"
	"github.com/mbd888/peerpay/internal/metrics"
	"github.com/mbd888/peerpay/internal/requests"
	"github.com/mbd888/peerpay/internal/traces"
	"github.com/mbd888/peerpay/internal/validation"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound   = errors.New("modals: request not found")
	ErrNotPayable = errors.New("modals: only pending incoming requests can be paid")
)

// NetworkFeeNote is the static fee estimate shown on every review.
const NetworkFeeNote = "~$0.50 USDC (estimated)"

// MaxAmountLength caps the amount field as typed.
const MaxAmountLength = 32

// ReturnPath is where closing a review dialog navigates.
const ReturnPath = "/dashboard"

// Mode says which form opened the review.
type Mode string

const (
	ModeRequest Mode = "request"
	ModeSend    Mode = "send"
)

// ReviewInput is the request/send form.
type ReviewInput struct {
	Recipient string `json:"recipient" form:"recipient" binding:"required,recipient"`
	Amount    string `json:"amount" form:"amount" binding:"required,positive_decimal"`
	Token     string `json:"token" form:"token" binding:"omitempty,token"`
	Mode      Mode   `json:"mode" form:"mode"`
}

// Review is the summary shown before confirming a new request.
type Review struct {
	Mode            Mode            `json:"mode"`
	Title           string          `json:"title"`
	Recipient       string          `json:"recipient"`
	DisplayName     string          `json:"displayName"`
	ResolvedAddress string          `json:"resolvedAddress"`
	ShortAddress    string          `json:"shortAddress"`
	Amount          decimal.Decimal `json:"amount"`
	Token           string          `json:"token"`
	NetworkFee      string          `json:"networkFee"`
	ReturnTo        string          `json:"returnTo"`
}

// PayPreview is the pay dialog for one incoming request.
type PayPreview struct {
	RequestID        string          `json:"requestId"`
	Recipient        string          `json:"recipient"`
	RecipientAddress string          `json:"recipientAddress"`
	ShortAddress     string          `json:"shortAddress"`
	Amount           decimal.Decimal `json:"amount"`
	Token            string          `json:"token"`
	NetworkFee       string          `json:"networkFee"`
}

// Receipt is what a simulated payment returns.
type Receipt struct {
	RequestID        string          `json:"requestId"`
	TxHash           string          `json:"txHash"`
	Recipient        string          `json:"recipient"`
	RecipientAddress string          `json:"recipientAddress"`
	Amount           decimal.Decimal `json:"amount"`
	Token            string          `json:"token"`
	Simulated        bool            `json:"simulated"`
	ConfirmedAt      time.Time       `json:"confirmedAt"`
}

// Service runs the simulated dialogs.
type Service struct {
	validator   *addressbook.Validator
	requests    *requests.Service
	mockAddress string
	now         func() time.Time
}

// NewService creates the modal service. Payments go to mockAddress.
func NewService(v *addressbook.Validator, reqs *requests.Service, mockAddress string) *Service {
	return &Service{
		validator:   v,
		requests:    reqs,
		mockAddress: mockAddress,
		now:         time.Now,
	}
}

// Check validates a review form and reports every failing field.
func Check(in ReviewInput) validation.ValidationErrors {
	return validation.Validate(
		validation.Required("recipient", in.Recipient),
		validation.Required("amount", in.Amount),
		validation.ValidRecipient("recipient", in.Recipient),
		validation.ValidAmount("amount", in.Amount),
		validation.MaxLength("amount", in.Amount, MaxAmountLength),
		validation.ValidToken("token", in.Token),
	)
}

// Review builds the confirmation summary for a new request or payment.
// It returns validation.ValidationErrors when the form is not valid.
func (s *Service) Review(ctx context.Context, in ReviewInput) (*Review, error) {
	_, span := traces.StartSpan(ctx, "modals.review", traces.Modal("review"))
	defer span.End()

	if errs := Check(in); len(errs) > 0 {
		metrics.ModalConfirmationsTotal.WithLabelValues("review", "invalid").Inc()
		return nil, errs
	}

	res := s.validator.Validate(in.Recipient)
	amount, _ := decimal.NewFromString(in.Amount)
	token := in.Token
	if token == "" {
		token = requests.DefaultToken
	}
	mode := in.Mode
	if mode != ModeSend {
		mode = ModeRequest
	}

	metrics.ModalConfirmationsTotal.WithLabelValues("review", "shown").Inc()
	return &Review{
		Mode:            mode,
		Title:           reviewTitle(mode),
		Recipient:       in.Recipient,
		DisplayName:     res.DisplayName(),
		ResolvedAddress: res.ResolvedAddress,
		ShortAddress:    addressbook.ShortAddress(res.ResolvedAddress),
		Amount:          amount,
		Token:           token,
		NetworkFee:      NetworkFeeNote,
		ReturnTo:        ReturnPath,
	}, nil
}

func reviewTitle(m Mode) string {
	if m == ModeSend {
		return "Review Payment"
	}
	return "Review Request"
}

// PayPreview builds the pay dialog for request id.
func (s *Service) PayPreview(ctx context.Context, id string) (*PayPreview, error) {
	r, err := s.payable(ctx, id)
	if err != nil {
		return nil, err
	}
	return &PayPreview{
		RequestID:        r.ID,
		Recipient:        r.From,
		RecipientAddress: s.mockAddress,
		ShortAddress:     addressbook.ShortAddress(s.mockAddress),
		Amount:           r.Amount,
		Token:            r.Token,
		NetworkFee:       NetworkFeeNote,
	}, nil
}

// Pay simulates paying request id and returns a receipt with a made-up
// transaction hash. The request itself is left untouched.
func (s *Service) Pay(ctx context.Context, id string) (*Receipt, error) {
	ctx, span := traces.StartSpan(ctx, "modals.pay", traces.Modal("pay"), traces.RequestID(id))
	defer span.End()

	r, err := s.payable(ctx, id)
	if err != nil {
		metrics.ModalConfirmationsTotal.WithLabelValues("pay", "rejected").Inc()
		return nil, err
	}

	receipt := &Receipt{
		RequestID:        r.ID,
		TxHash:           mockTxHash(),
		Recipient:        r.From,
		RecipientAddress: s.mockAddress,
		Amount:           r.Amount,
		Token:            r.Token,
		Simulated:        true,
		ConfirmedAt:      s.now().UTC(),
	}

	metrics.ModalConfirmationsTotal.WithLabelValues("pay", "confirmed").Inc()
	logging.L(ctx).Info("simulated payment",
		"request_id", r.ID,
		"recipient", r.From,
		"amount", r.Amount.String(),
		"token", r.Token,
		"tx_hash", receipt.TxHash,
	)
	return receipt, nil
}

// Decline is a no-op beyond checking that the request exists.
func (s *Service) Decline(ctx context.Context, id string) error {
	if _, err := s.lookup(ctx, id); err != nil {
		return err
	}
	metrics.ModalConfirmationsTotal.WithLabelValues("decline", "ignored").Inc()
	logging.L(ctx).Debug("decline requested", "request_id", id)
	return nil
}

func (s *Service) lookup(ctx context.Context, id string) (*requests.PaymentRequest, error) {
	r, err := s.requests.Get(ctx, id)
	if errors.Is(err, requests.ErrNotFound) {
		return nil, ErrNotFound
	}
	return r, err
}

func (s *Service) payable(ctx context.Context, id string) (*requests.PaymentRequest, error) {
	r, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Direction != requests.Incoming || !r.IsPending() {
		return nil, ErrNotPayable
	}
	return r, nil
}

func mockTxHash() string {
	return crypto.Keccak256Hash([]byte(uuid.NewString())).Hex()
}
