package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dukerupert/tossit/internal/expiry"
	"github.com/dukerupert/tossit/internal/model"
	"github.com/dukerupert/tossit/internal/store"
	ws "github.com/dukerupert/tossit/internal/websocket"
)

type ItemHandler struct {
	items  *store.ItemStore
	hub    *ws.Hub
	logger *slog.Logger
}

func NewItemHandler(items *store.ItemStore, hub *ws.Hub, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{items: items, hub: hub, logger: logger}
}

type openItemRequest struct {
	BusinessID  int64  `json:"business_id"`
	UserID      *int64 `json:"user_id"`
	ProductName string `json:"product_name"`
}

// itemResponse decorates an item with its computed display status.
type itemResponse struct {
	model.Item
	Status expiry.Status `json:"status"`
}

// Open records that a staff member opened a product. The expiry time is
// derived from the shelf-life catalog at this moment and never recomputed.
func (h *ItemHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req openItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.ProductName = strings.TrimSpace(req.ProductName)
	if req.ProductName == "" || req.BusinessID == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "business_id and product_name are required"})
		return
	}

	product, err := h.items.GetProductByName(req.ProductName)
	if err != nil {
		h.logger.Error("look up product", "product", req.ProductName, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to look up product"})
		return
	}
	if product == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown product"})
		return
	}

	now := time.Now()
	item, err := h.items.CreateItem(req.BusinessID, req.UserID, product.Name, product.Area,
		now, expiry.CalculateExpiryTime(now, product.ShelfLifeDays))
	if err != nil {
		h.logger.Error("create item", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create item"})
		return
	}

	h.hub.Broadcast(ws.NewMessage("item", "opened", item.ID, item.BusinessID, map[string]any{
		"product_name": item.ProductName,
		"area":         item.Area,
	}))
	writeJSON(w, http.StatusCreated, itemResponse{Item: *item, Status: expiry.StatusAt(item.ExpiryTime, now)})
}

// Throw marks an item discarded, which removes it from every scheduler sweep.
func (h *ItemHandler) Throw(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	businessID, err := businessIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid business_id"})
		return
	}

	ok, err := h.items.MarkThrown(id, businessID)
	if err != nil {
		h.logger.Error("mark item thrown", "item_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to discard item"})
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
		return
	}

	h.hub.Broadcast(ws.NewMessage("item", "thrown", id, businessID, nil))
	writeJSON(w, http.StatusOK, map[string]string{"status": "discarded"})
}

// List returns the business's outstanding items with computed status.
// ?expired=1 narrows the list to items past their expiry time.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	businessID, err := businessIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid business_id"})
		return
	}

	items, err := h.items.ListNonDiscarded(businessID)
	if err != nil {
		h.logger.Error("list items", "business_id", businessID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list items"})
		return
	}

	now := time.Now()
	expiredOnly := r.URL.Query().Get("expired") == "1"
	out := []itemResponse{}
	for _, item := range items {
		if expiredOnly && !expiry.IsExpired(item.ExpiryTime, now) {
			continue
		}
		out = append(out, itemResponse{Item: item, Status: expiry.StatusAt(item.ExpiryTime, now)})
	}
	writeJSON(w, http.StatusOK, out)
}

// Products returns the shelf-life catalog.
func (h *ItemHandler) Products(w http.ResponseWriter, r *http.Request) {
	products, err := h.items.ListProducts()
	if err != nil {
		h.logger.Error("list products", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list products"})
		return
	}
	if products == nil {
		products = []model.ShelfLifeProduct{}
	}
	writeJSON(w, http.StatusOK, products)
}

func businessIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.URL.Query().Get("business_id"), 10, 64)
}
