package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/fastprodman/smscoins/internal/gateway"
	"github.com/fastprodman/smscoins/internal/identity"
	"github.com/fastprodman/smscoins/internal/pricing"
	"github.com/fastprodman/smscoins/internal/repos/accounts"
	"github.com/fastprodman/smscoins/internal/repos/deliveries"
	"github.com/fastprodman/smscoins/internal/repos/purchases"
	"github.com/fastprodman/smscoins/internal/services/sms"
	"github.com/fastprodman/smscoins/internal/services/wallet"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// SMSService is the submission pipeline. *sms.Service satisfies it.
type SMSService interface {
	Send(ctx context.Context, accountID uuid.UUID, phone, message string) (sms.Receipt, error)
	Quote(phone, message string) (pricing.Quote, error)
	Rates() *pricing.Table
	History(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]deliveries.Record, error)
}

// WalletService manages accounts and credits. *wallet.Service satisfies it.
type WalletService interface {
	EnsureAccount(ctx context.Context, acc accounts.Account) (accounts.Account, bool, error)
	GetAccount(ctx context.Context, id uuid.UUID) (accounts.Account, error)
	ApplyCredit(ctx context.Context, c wallet.Credit) (int64, error)
	ListPurchases(ctx context.Context, id uuid.UUID, limit, offset int) ([]purchases.Purchase, error)
	Ping(ctx context.Context) error
}

// HandlerProvider exposes the services as HTTP handlers.
type HandlerProvider struct {
	sms    SMSService
	wallet WalletService
}

func NewHandler(smsSvc SMSService, walletSvc WalletService) *HandlerProvider {
	return &HandlerProvider{sms: smsSvc, wallet: walletSvc}
}

func callerID(r *http.Request) uuid.UUID {
	id, _ := identity.FromContext(r.Context())
	return id.AccountID
}

// writeValidationError maps pricing validation errors to 400.
func writeValidationError(w http.ResponseWriter, r *http.Request, err error) bool {
	var code string

	switch {
	case errors.Is(err, pricing.ErrInvalidPhone):
		code = codeInvalidPhone
	case errors.Is(err, pricing.ErrEmptyMessage):
		code = codeEmptyMessage
	case errors.Is(err, pricing.ErrMessageTooLong):
		code = codeMessageTooLong
	default:
		return false
	}

	writeError(w, r, http.StatusBadRequest, code, nil)

	return true
}

// --- SMS ---

type smsRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Message     string `json:"message"`
}

type sendResponse struct {
	Success        bool      `json:"success"`
	DeliveryID     uuid.UUID `json:"deliveryId"`
	PhoneNumber    string    `json:"phoneNumber"`
	Parts          int       `json:"parts"`
	Cost           int64     `json:"cost"`
	Country        string    `json:"country"`
	RemainingCoins int64     `json:"remaining_coins"`
}

// SendHandler handles POST /v1/sms/send
func (h *HandlerProvider) SendHandler(w http.ResponseWriter, r *http.Request) {
	var req smsRequest

	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, codeInvalidBody, nil)
		return
	}

	rc, err := h.sms.Send(r.Context(), callerID(r), req.PhoneNumber, req.Message)
	if err != nil {
		h.writeSendError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sendResponse{
		Success:        true,
		DeliveryID:     rc.DeliveryID,
		PhoneNumber:    rc.Phone,
		Parts:          rc.Parts,
		Cost:           rc.Cost,
		Country:        rc.Country,
		RemainingCoins: rc.RemainingCoins,
	})
}

func (h *HandlerProvider) writeSendError(w http.ResponseWriter, r *http.Request, err error) {
	if writeValidationError(w, r, err) {
		return
	}

	var (
		insufficient *sms.InsufficientFundsError
		rejected     *sms.GatewayRejectedError
	)

	switch {
	case errors.As(err, &insufficient):
		writeError(w, r, http.StatusPaymentRequired, codeInsufficientFunds, map[string]any{
			"required":  insufficient.Required,
			"available": insufficient.Available,
		})
	case errors.Is(err, accounts.ErrAccountNotFound):
		writeError(w, r, http.StatusNotFound, codeAccountNotFound, nil)
	case errors.Is(err, gateway.ErrUnavailable):
		slog.WarnContext(r.Context(), "sms gateway unavailable", "error", err)
		writeError(w, r, http.StatusGatewayTimeout, codeGatewayTimeout, nil)
	case errors.As(err, &rejected):
		extra := map[string]any{
			"message":      rejected.Message,
			"gateway_code": rejected.Code,
		}
		if len(rejected.Raw) > 0 {
			extra["details"] = rejected.Raw
		}

		writeError(w, r, http.StatusBadRequest, codeGatewayRejected, extra)
	case errors.Is(err, sms.ErrChargeFailed):
		writeError(w, r, http.StatusInternalServerError, codeChargeFailed, nil)
	default:
		slog.ErrorContext(r.Context(), "send sms", "error", err)
		writeError(w, r, http.StatusInternalServerError, codeInternal, nil)
	}
}

type quoteResponse struct {
	PhoneNumber  string `json:"phoneNumber"`
	Parts        int    `json:"parts"`
	PricePerPart int64  `json:"pricePerPart"`
	Cost         int64  `json:"cost"`
	Prefix       string `json:"prefix,omitempty"`
	Country      string `json:"country,omitempty"`
}

// QuoteHandler handles POST /v1/sms/quote
func (h *HandlerProvider) QuoteHandler(w http.ResponseWriter, r *http.Request) {
	var req smsRequest

	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, codeInvalidBody, nil)
		return
	}

	q, err := h.sms.Quote(req.PhoneNumber, req.Message)
	if err != nil {
		if !writeValidationError(w, r, err) {
			writeError(w, r, http.StatusInternalServerError, codeInternal, nil)
		}

		return
	}

	writeJSON(w, http.StatusOK, quoteResponse{
		PhoneNumber:  q.Phone,
		Parts:        q.Parts,
		PricePerPart: q.PricePerPart,
		Cost:         q.Cost,
		Prefix:       q.Prefix,
		Country:      q.Country,
	})
}

type deliveryView struct {
	ID              uuid.UUID `json:"id"`
	PhoneNumber     string    `json:"phoneNumber"`
	Message         string    `json:"message"`
	Country         string    `json:"country,omitempty"`
	Cost            int64     `json:"cost"`
	Status          string    `json:"status"`
	GatewayResponse any       `json:"gatewayResponse,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// HistoryHandler handles GET /v1/sms/history
func (h *HandlerProvider) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := parsePage(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, codeInvalidPaging, nil)
		return
	}

	recs, err := h.sms.History(r.Context(), callerID(r), limit, offset)
	if err != nil {
		slog.ErrorContext(r.Context(), "list history", "error", err)
		writeError(w, r, http.StatusInternalServerError, codeInternal, nil)

		return
	}

	out := make([]deliveryView, 0, len(recs))
	for _, rec := range recs {
		v := deliveryView{
			ID:          rec.ID,
			PhoneNumber: rec.PhoneNumber,
			Message:     rec.Message,
			Country:     rec.CountryCode,
			Cost:        rec.Cost,
			Status:      string(rec.Status),
			CreatedAt:   rec.CreatedAt,
		}
		if len(rec.GatewayResponse) > 0 {
			v.GatewayResponse = rec.GatewayResponse
		}

		out = append(out, v)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items":  out,
		"limit":  limit,
		"offset": offset,
	})
}

// RatesHandler handles GET /v1/rates
func (h *HandlerProvider) RatesHandler(w http.ResponseWriter, r *http.Request) {
	t := h.sms.Rates()

	writeJSON(w, http.StatusOK, map[string]any{
		"rates":        t.Rates(),
		"defaultPrice": t.DefaultPrice(),
		"partSize":     pricing.PartSize,
		"maxParts":     pricing.MaxParts,
	})
}

// --- Account ---

type accountView struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	Coins       int64     `json:"coins"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toAccountView(a accounts.Account) accountView {
	return accountView{
		ID:          a.ID,
		Email:       a.Email,
		DisplayName: a.DisplayName,
		Coins:       a.Balance,
		CreatedAt:   a.CreatedAt,
	}
}

type createAccountRequest struct {
	DisplayName string `json:"displayName"`
}

// CreateAccountHandler handles POST /v1/account
func (h *HandlerProvider) CreateAccountHandler(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest

	// The body is optional.
	if r.ContentLength != 0 {
		err := decodeJSON(w, r, &req)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, codeInvalidBody, nil)
			return
		}
	}

	id, _ := identity.FromContext(r.Context())

	acc, created, err := h.wallet.EnsureAccount(r.Context(), accounts.Account{
		ID:          id.AccountID,
		Email:       id.Email,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		slog.ErrorContext(r.Context(), "ensure account", "error", err)
		writeError(w, r, http.StatusInternalServerError, codeInternal, nil)

		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	writeJSON(w, status, toAccountView(acc))
}

// GetAccountHandler handles GET /v1/account
func (h *HandlerProvider) GetAccountHandler(w http.ResponseWriter, r *http.Request) {
	acc, err := h.wallet.GetAccount(r.Context(), callerID(r))
	if err != nil {
		if errors.Is(err, accounts.ErrAccountNotFound) {
			writeError(w, r, http.StatusNotFound, codeAccountNotFound, nil)
			return
		}

		slog.ErrorContext(r.Context(), "get account", "error", err)
		writeError(w, r, http.StatusInternalServerError, codeInternal, nil)

		return
	}

	writeJSON(w, http.StatusOK, toAccountView(acc))
}

type purchaseView struct {
	Reference string    `json:"reference"`
	Coins     int64     `json:"coins"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// PurchasesHandler handles GET /v1/account/purchases
func (h *HandlerProvider) PurchasesHandler(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := parsePage(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, codeInvalidPaging, nil)
		return
	}

	list, err := h.wallet.ListPurchases(r.Context(), callerID(r), limit, offset)
	if err != nil {
		slog.ErrorContext(r.Context(), "list purchases", "error", err)
		writeError(w, r, http.StatusInternalServerError, codeInternal, nil)

		return
	}

	out := make([]purchaseView, 0, len(list))
	for _, p := range list {
		out = append(out, purchaseView{Reference: p.Reference, Coins: p.Coins, Note: p.Note, CreatedAt: p.CreatedAt})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items":  out,
		"limit":  limit,
		"offset": offset,
	})
}

// --- Admin ---

type creditRequest struct {
	Coins     int64  `json:"coins"`
	Reference string `json:"reference"`
	Note      string `json:"note"`
}

// CreditHandler handles POST /v1/admin/accounts/{accountId}/credits
func (h *HandlerProvider) CreditHandler(w http.ResponseWriter, r *http.Request) {
	accountID, err := uuid.Parse(chi.URLParam(r, "accountId"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, codeInvalidAccountID, nil)
		return
	}

	var req creditRequest

	err = decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, codeInvalidBody, nil)
		return
	}

	balance, err := h.wallet.ApplyCredit(r.Context(), wallet.Credit{
		AccountID: accountID,
		Coins:     req.Coins,
		Reference: req.Reference,
		Note:      req.Note,
	})
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrInvalidCredit):
			writeError(w, r, http.StatusBadRequest, codeInvalidCredit, nil)
		case errors.Is(err, accounts.ErrAccountNotFound):
			writeError(w, r, http.StatusNotFound, codeAccountNotFound, nil)
		case errors.Is(err, purchases.ErrDuplicatePurchase):
			writeError(w, r, http.StatusConflict, codeDuplicatePurchase, nil)
		default:
			slog.ErrorContext(r.Context(), "apply credit", "error", err)
			writeError(w, r, http.StatusInternalServerError, codeInternal, nil)
		}

		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"accountId": accountID,
		"coins":     balance,
	})
}

// HealthHandler handles GET /healthz
func (h *HandlerProvider) HealthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	err := h.wallet.Ping(ctx)
	if err != nil {
		slog.WarnContext(r.Context(), "health check failed", "error", err)
		writeError(w, r, http.StatusServiceUnavailable, codeUnavailable, nil)

		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
