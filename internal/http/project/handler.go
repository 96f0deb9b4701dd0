package project

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/sitebook/internal/http/web"
	"github.com/MrJamesThe3rd/sitebook/internal/ledger"
)

// Handler serves the project-wide views and the backup endpoints.
type Handler struct {
	store *ledger.Store
}

func NewHandler(store *ledger.Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/project", h.project)
	r.Get("/summary", h.summary)
	r.Get("/stats", h.stats)
	r.Get("/backup", h.backup)
	r.Put("/backup", h.restore)
}

func (h *Handler) project(w http.ResponseWriter, _ *http.Request) {
	web.JSON(w, http.StatusOK, h.store.Project())
}

func (h *Handler) summary(w http.ResponseWriter, _ *http.Request) {
	web.JSON(w, http.StatusOK, h.store.Summary())
}

type statsResponse struct {
	Stages   ledger.StageStats   `json:"stages"`
	Expenses ledger.ExpenseStats `json:"expenses"`
	Payments ledger.PaymentStats `json:"payments"`
}

func (h *Handler) stats(w http.ResponseWriter, _ *http.Request) {
	web.JSON(w, http.StatusOK, statsResponse{
		Stages:   h.store.StageStats(),
		Expenses: h.store.ExpenseStats(),
		Payments: h.store.PaymentStats(),
	})
}

func (h *Handler) backup(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Disposition", `attachment; filename="sitebook-backup.json"`)
	web.JSON(w, http.StatusOK, h.store.Export())
}

func (h *Handler) restore(w http.ResponseWriter, r *http.Request) {
	var snap ledger.Snapshot
	if err := web.Decode(r, &snap); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.store.Import(r.Context(), snap); err != nil {
		web.Error(w, err)
		return
	}

	web.JSON(w, http.StatusOK, h.store.Summary())
}
