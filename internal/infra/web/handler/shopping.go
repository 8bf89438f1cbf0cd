package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/DioGolang/GoPOS/internal/application/usecase/shopping"
	"github.com/DioGolang/GoPOS/internal/domain/entity"
	"github.com/DioGolang/GoPOS/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type Shopping struct {
	Coordinator shopping.Coordinator
	Logger      logger.Logger
}

func NewShoppingHandler(c shopping.Coordinator, log logger.Logger) *Shopping {
	return &Shopping{Coordinator: c, Logger: log}
}

// Register mounts the terminal API on r.
func (h *Shopping) Register(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", h.ListProducts)
		r.Post("/products", h.CreateProduct)

		r.Post("/orders", h.OpenOrder)
		r.Post("/orders/{orderID}/close", h.CloseOrder)
		r.Delete("/orders/{orderID}", h.DeleteOrder)
		r.Get("/orders/{orderID}/items", h.ListItems)
		r.Post("/orders/{orderID}/items", h.BuyProduct)

		r.Post("/items/{itemID}/return", h.ReturnItem)
		r.Delete("/items/{itemID}", h.DeleteItem)
	})
}

type createProductRequest struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

type buyRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// returnRequest carries the caller's copy of the item next to the number of
// units to give back; the copy is checked against the stored item.
type returnRequest struct {
	ProductID      string          `json:"product_id"`
	OrderID        string          `json:"order_id"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Quantity       int             `json:"quantity"`
	Version        int             `json:"version"`
	ReturnQuantity int             `json:"return_quantity"`
}

type productResponse struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock *int            `json:"stock,omitempty"`
}

type orderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type itemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	OrderID   string          `json:"order_id"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Version   int             `json:"version"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toOrderResponse(o *entity.Order) orderResponse {
	return orderResponse{ID: o.ID(), Status: o.StatusName()}
}

func toItemResponse(i *entity.OrderItem) itemResponse {
	return itemResponse{
		ID:        i.ID(),
		ProductID: i.ProductID(),
		OrderID:   i.OrderID(),
		UnitPrice: i.UnitPrice(),
		Quantity:  i.Quantity(),
		Subtotal:  i.Subtotal(),
		Version:   i.Version(),
	}
}

func (h *Shopping) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Coordinator.GetAllProducts(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = productResponse{ID: p.ID(), Name: p.Name(), Price: p.Price()}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Shopping) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in createProductRequest
	if !h.decode(w, r, &in) {
		return
	}
	saved, err := h.Coordinator.SaveProductAndStock(r.Context(), in.Name, in.Price, in.Quantity)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	stock := saved.Stock.Quantity()
	writeJSON(w, http.StatusCreated, productResponse{
		ID:    saved.Product.ID(),
		Name:  saved.Product.Name(),
		Price: saved.Product.Price(),
		Stock: &stock,
	})
}

func (h *Shopping) OpenOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Coordinator.OpenNewOrder(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

func (h *Shopping) CloseOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Coordinator.CloseOrder(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *Shopping) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.Coordinator.DeleteOrder(r.Context(), chi.URLParam(r, "orderID")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Shopping) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Coordinator.GetOrderItems(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := make([]itemResponse, len(items))
	for i, item := range items {
		out[i] = toItemResponse(item)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Shopping) BuyProduct(w http.ResponseWriter, r *http.Request) {
	var in buyRequest
	if !h.decode(w, r, &in) {
		return
	}
	item, err := h.Coordinator.BuyProduct(r.Context(), chi.URLParam(r, "orderID"), in.ProductID, in.Quantity)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(item))
}

func (h *Shopping) ReturnItem(w http.ResponseWriter, r *http.Request) {
	var in returnRequest
	if !h.decode(w, r, &in) {
		return
	}
	snapshot := entity.RestoreOrderItem(chi.URLParam(r, "itemID"), in.ProductID, in.OrderID, in.UnitPrice, in.Quantity, in.Version)
	item, err := h.Coordinator.ReturnItem(r.Context(), snapshot, in.ReturnQuantity)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(item))
}

func (h *Shopping) DeleteItem(w http.ResponseWriter, r *http.Request) {
	item := entity.RestoreOrderItem(chi.URLParam(r, "itemID"), "", "", decimal.Zero, 0, 0)
	if err := h.Coordinator.DeleteItem(r.Context(), item); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Shopping) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func (h *Shopping) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		h.Logger.Error(r.Context(), "Request failed",
			logger.String("path", r.URL.Path),
			logger.WithError(err),
		)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// StatusFor maps coordinator errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrValidation), errors.Is(err, entity.ErrIDIsRequired):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrInsufficientStock),
		errors.Is(err, entity.ErrStaleData),
		errors.Is(err, entity.ErrOrderClosed),
		errors.Is(err, entity.ErrOrderHasItems),
		errors.Is(err, entity.ErrInvalidStateTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
