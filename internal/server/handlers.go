package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fekuna/omnipos-terminal/internal/model"
	"github.com/fekuna/omnipos-terminal/internal/pricing"
	"github.com/fekuna/omnipos-terminal/internal/remote"
	"github.com/fekuna/omnipos-terminal/internal/sale/dto"
	"github.com/fekuna/omnipos-terminal/internal/store"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type cartLineDTO struct {
	ProductID     int64           `json:"product_id"`
	Name          string          `json:"name"`
	SellingMethod string          `json:"selling_method"`
	UnitType      *string         `json:"unit_type"`
	Quantity      decimal.Decimal `json:"quantity"`
	BasePrice     decimal.Decimal `json:"base_price"`
	DisplayPrice  decimal.Decimal `json:"display_price"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
}

type paymentDTO struct {
	Amount         decimal.Decimal  `json:"amount"`
	Method         string           `json:"method"`
	TransactionRef *string          `json:"transaction_ref"`
	Tendered       *decimal.Decimal `json:"tendered"`
}

type submitSaleRequestDTO struct {
	Lines    []cartLineDTO `json:"lines"`
	Payments []paymentDTO  `json:"payments"`
	Notes    *string       `json:"notes"`
}

type pendingSaleDTO struct {
	ID          int64  `json:"id"`
	ClientRef   string `json:"client_ref"`
	Total       string `json:"total"`
	Status      string `json:"status"`
	RejectCount int    `json:"reject_count"`
	CreatedAt   string `json:"created_at"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (s *Server) handleSubmitSale(w http.ResponseWriter, r *http.Request) {
	var req submitSaleRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	input := &dto.SubmitSaleInput{
		AccountID: s.accountID,
		Notes:     req.Notes,
	}
	for _, l := range req.Lines {
		input.Lines = append(input.Lines, model.CartLine{
			ProductID:     l.ProductID,
			Name:          l.Name,
			SellingMethod: model.SellingMethod(l.SellingMethod),
			UnitType:      l.UnitType,
			Quantity:      l.Quantity,
			BasePrice:     l.BasePrice,
			DisplayPrice:  l.DisplayPrice,
			TaxRate:       l.TaxRate,
		})
	}
	for _, p := range req.Payments {
		input.Payments = append(input.Payments, model.PaymentEntry{
			Amount:         p.Amount,
			Method:         p.Method,
			TransactionRef: p.TransactionRef,
			Tendered:       p.Tendered,
		})
	}

	receipt, err := s.sales.SubmitSale(r.Context(), input)
	if err != nil {
		s.respondSaleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, receipt)
}

func (s *Server) respondSaleError(w http.ResponseWriter, err error) {
	var vErr *pricing.ValidationError
	if errors.As(err, &vErr) {
		respondError(w, http.StatusUnprocessableEntity, "validation_failed", vErr.Reason)
		return
	}
	var rejected *remote.RejectedError
	if errors.As(err, &rejected) {
		respondError(w, http.StatusConflict, "sale_rejected", rejected.Message)
		return
	}
	if errors.Is(err, store.ErrStorageUnavailable) {
		respondError(w, http.StatusServiceUnavailable, "storage_unavailable", err.Error())
		return
	}
	s.logger.Error("sale submission failed", zap.Error(err))
	respondError(w, http.StatusInternalServerError, "internal_error", "")
}

func (s *Server) handlePendingSales(w http.ResponseWriter, r *http.Request) {
	sales, err := s.queue.ListAll(r.Context())
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "storage_unavailable", err.Error())
		return
	}

	out := make([]pendingSaleDTO, 0, len(sales))
	for _, sl := range sales {
		out = append(out, pendingSaleDTO{
			ID:          sl.ID,
			ClientRef:   sl.ClientRef,
			Total:       sl.Total.String(),
			Status:      string(sl.Status),
			RejectCount: sl.RejectCount,
			CreatedAt:   sl.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.catalog.Products(r.Context())
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "storage_unavailable", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (s *Server) handleTriggerSync(w http.ResponseWriter, r *http.Request) {
	if !s.monitor.IsOnline() {
		respondError(w, http.StatusConflict, "offline", "terminal is offline")
		return
	}
	if !s.sync.TrySync(r.Context()) {
		respondError(w, http.StatusConflict, "sync_in_progress", "a synchronization pass is already running")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"synced": true})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	pending, err := s.queue.Count(r.Context())
	status := "ok"
	if err != nil {
		status = "degraded"
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status":  status,
		"online":  s.monitor.IsOnline(),
		"pending": pending,
	})
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, code, details string) {
	respondJSON(w, status, ErrorResponse{Error: code, Details: details})
}
