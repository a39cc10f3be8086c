package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atelierhq/inventory-service/internal/apperror"
	"github.com/atelierhq/inventory-service/internal/auth"
	"github.com/atelierhq/inventory-service/internal/httputil"
	"github.com/atelierhq/inventory-service/internal/item"
	"github.com/atelierhq/inventory-service/internal/item/dto"
	"github.com/atelierhq/inventory-service/internal/model"
	"github.com/atelierhq/inventory-service/pkg/logger"
)

type ItemHandler struct {
	uc     item.UseCase
	logger logger.ZapLogger
}

func NewItemHandler(uc item.UseCase, log logger.ZapLogger) *ItemHandler {
	return &ItemHandler{uc: uc, logger: log}
}

// Register mounts the item routes on r. Callers are expected to have
// authentication middleware installed already.
func (h *ItemHandler) Register(r chi.Router) {
	r.Get("/items", h.List)
	r.Post("/items/{id}/adjust", h.AdjustStock)
	r.Get("/items/{id}/transactions", h.ListTransactions)
}

func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	filters := &dto.ItemFilters{
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
	}

	if raw := r.URL.Query().Get("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httputil.RespondError(w, apperror.New(apperror.KindValidation, "category_id must be an integer"))
			return
		}
		filters.CategoryID = &id
	}

	if raw := r.URL.Query().Get("low_stock_only"); raw != "" {
		lowStock, err := strconv.ParseBool(raw)
		if err != nil {
			httputil.RespondError(w, apperror.New(apperror.KindValidation, "low_stock_only must be a boolean"))
			return
		}
		filters.LowStockOnly = lowStock
	}

	items, err := h.uc.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list items failed", zap.Error(err))
		httputil.RespondError(w, err)
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	httputil.RespondJSON(w, http.StatusOK, items)
}

type adjustStockRequest struct {
	Delta *int64 `json:"delta"`
	Notes string `json:"notes,omitempty"`
}

func (h *ItemHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.RespondError(w, apperror.New(apperror.KindValidation, "item id must be an integer"))
		return
	}

	var req adjustStockRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, apperror.Wrap(apperror.KindValidation, "invalid request body: "+err.Error(), err))
		return
	}
	if req.Delta == nil {
		httputil.RespondError(w, apperror.New(apperror.KindValidation, "delta is required"))
		return
	}

	input := &dto.AdjustStockInput{
		ItemID: itemID,
		Delta:  *req.Delta,
		Notes:  strings.TrimSpace(req.Notes),
		Type:   model.TxTypeAdjustment,
		UserID: auth.UserID(r.Context()),
	}

	updated, err := h.uc.AdjustStock(r.Context(), input)
	if err != nil {
		if apperror.KindOf(err) == apperror.KindInternal {
			h.logger.Error("adjust stock failed", zap.Int64("item_id", itemID), zap.Error(err))
		}
		httputil.RespondError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, updated)
}

func (h *ItemHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.RespondError(w, apperror.New(apperror.KindValidation, "item id must be an integer"))
		return
	}

	filters := &dto.TransactionFilters{
		ItemID: itemID,
		Type:   strings.TrimSpace(r.URL.Query().Get("type")),
	}
	if raw := r.URL.Query().Get("page"); raw != "" {
		if filters.Page, err = strconv.Atoi(raw); err != nil {
			httputil.RespondError(w, apperror.New(apperror.KindValidation, "page must be an integer"))
			return
		}
	}
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		if filters.PageSize, err = strconv.Atoi(raw); err != nil {
			httputil.RespondError(w, apperror.New(apperror.KindValidation, "page_size must be an integer"))
			return
		}
	}

	txs, count, err := h.uc.ListTransactions(r.Context(), filters)
	if err != nil {
		h.logger.Error("list transactions failed", zap.Int64("item_id", itemID), zap.Error(err))
		httputil.RespondError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"transactions": txs,
		"total":        count,
	})
}
