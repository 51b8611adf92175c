package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dwikikusuma/cartstate/internal/cart/domain"
	"github.com/dwikikusuma/cartstate/internal/cart/store"
)

// Handler exposes the store's command set as a local JSON API for the UI
// process. It holds no state of its own; every write routes through a
// store command.
type Handler struct {
	store *store.Store
	log   *slog.Logger
}

func New(s *store.Store, log *slog.Logger) *Handler {
	return &Handler{store: s, log: log}
}

func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }).Methods(http.MethodGet)
	r.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }).Methods(http.MethodGet)

	r.HandleFunc("/cart", h.getCart).Methods(http.MethodGet)
	r.HandleFunc("/cart/items", h.addItem).Methods(http.MethodPost)
	r.HandleFunc("/cart/items/{kind}/{id}", h.setQuantity).Methods(http.MethodPut)
	r.HandleFunc("/cart/items/{kind}/{id}", h.removeItem).Methods(http.MethodDelete)
	r.HandleFunc("/cart/clear", h.clearCart).Methods(http.MethodPost)
	r.HandleFunc("/cart/panel", h.setPanel).Methods(http.MethodPost)
	return r
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.store.Snapshot())
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var item domain.LineItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		h.writeError(w, http.StatusBadRequest, "MALFORMED_COMMAND", "invalid request body")
		return
	}

	snap, err := h.store.AddItem(r.Context(), item)
	if err != nil {
		if errors.Is(err, store.ErrMalformedCommand) {
			h.writeError(w, http.StatusBadRequest, "MALFORMED_COMMAND", err.Error())
			return
		}
		h.writeError(w, http.StatusInternalServerError, "INTERNAL", "add item failed")
		return
	}
	h.writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) setQuantity(w http.ResponseWriter, r *http.Request) {
	key, ok := h.keyFromRequest(w, r)
	if !ok {
		return
	}

	var body struct {
		Quantity int64 `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, http.StatusBadRequest, "MALFORMED_COMMAND", "invalid request body")
		return
	}

	h.writeJSON(w, http.StatusOK, h.store.SetQuantity(r.Context(), key, body.Quantity))
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	key, ok := h.keyFromRequest(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, h.store.RemoveItem(r.Context(), key))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.store.Clear(r.Context()))
}

func (h *Handler) setPanel(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Open bool `json:"open"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, http.StatusBadRequest, "MALFORMED_COMMAND", "invalid request body")
		return
	}
	h.writeJSON(w, http.StatusOK, h.store.SetPanelOpen(body.Open))
}

func (h *Handler) keyFromRequest(w http.ResponseWriter, r *http.Request) (domain.ItemKey, bool) {
	vars := mux.Vars(r)
	kind, err := domain.ParseItemKind(vars["kind"])
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "MALFORMED_COMMAND", err.Error())
		return domain.ItemKey{}, false
	}
	return domain.ItemKey{ItemID: vars["id"], Kind: kind}, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("response encode failed", slog.Any("err", err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, msg string) {
	h.writeJSON(w, status, map[string]string{"code": code, "message": msg})
}
