package payment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/sitebook/internal/http/web"
	"github.com/MrJamesThe3rd/sitebook/internal/ledger"
)

type Handler struct {
	store *ledger.Store
}

func NewHandler(store *ledger.Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createPaymentRequest struct {
	ItemName string `json:"itemName"`
	Amount   int64  `json:"amount"`
	Date     string `json:"date"`
	Notes    string `json:"notes"`
}

// create records a manual payment. Stage and expense payments come from
// raising their paid amount instead.
func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createPaymentRequest
	if err := web.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := web.ParseDate(req.Date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.store.AddManualPayment(r.Context(), ledger.NewPayment{
		ItemName: req.ItemName,
		Amount:   req.Amount,
		Date:     date,
		Notes:    req.Notes,
	})
	if err != nil {
		web.Error(w, err)
		return
	}

	web.JSON(w, http.StatusCreated, p)
}

// list narrows to one stage or expense with ?item=.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	if item := r.URL.Query().Get("item"); item != "" {
		web.JSON(w, http.StatusOK, h.store.PaymentsForItem(ledger.ID(item)))
		return
	}

	web.JSON(w, http.StatusOK, h.store.Payments())
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.Payment(web.ID(r))
	if err != nil {
		web.Error(w, err)
		return
	}

	web.JSON(w, http.StatusOK, p)
}

type updatePaymentRequest struct {
	ItemName *string `json:"itemName,omitempty"`
	Amount   *int64  `json:"amount,omitempty"`
	Date     *string `json:"date,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updatePaymentRequest
	if err := web.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := web.OptionalDate(req.Date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.store.UpdatePayment(r.Context(), web.ID(r), ledger.PaymentPatch{
		ItemName: req.ItemName,
		Amount:   req.Amount,
		Date:     date,
		Notes:    req.Notes,
	})
	if err != nil {
		web.Error(w, err)
		return
	}

	web.JSON(w, http.StatusOK, p)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if !h.store.DeletePayment(r.Context(), web.ID(r)) {
		http.Error(w, "payment not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
