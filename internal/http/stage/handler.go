package stage

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
	r.Post("/{id}/complete", h.complete)
	r.Get("/{id}/payments", h.payments)
}

type createStageRequest struct {
	Name       string `json:"name"`
	Percentage int    `json:"percentage"`
	Date       string `json:"date"`
	Notes      string `json:"notes"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createStageRequest
	if err := web.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := web.ParseDate(req.Date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	st, err := h.store.AddStage(r.Context(), ledger.NewStage{
		Name:       req.Name,
		Percentage: req.Percentage,
		Date:       date,
		Notes:      req.Notes,
	})
	if err != nil {
		web.Error(w, err)
		return
	}

	web.JSON(w, http.StatusCreated, toResponse(st))
}

// list filters by ?q= when present.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var stages []ledger.Stage

	if q := r.URL.Query().Get("q"); q != "" {
		stages = h.store.SearchStages(q)
	} else {
		stages = h.store.Stages()
	}

	web.JSON(w, http.StatusOK, toResponseList(stages))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	st, err := h.store.Stage(web.ID(r))
	if err != nil {
		web.Error(w, err)
		return
	}

	web.JSON(w, http.StatusOK, toResponse(st))
}

type updateStageRequest struct {
	Name       *string `json:"name,omitempty"`
	Percentage *int    `json:"percentage,omitempty"`
	Amount     *int64  `json:"amount,omitempty"`
	Paid       *int64  `json:"paid,omitempty"`
	Date       *string `json:"date,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateStageRequest
	if err := web.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := web.OptionalDate(req.Date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	st, err := h.store.UpdateStage(r.Context(), web.ID(r), ledger.StagePatch{
		Name:       req.Name,
		Percentage: req.Percentage,
		Amount:     req.Amount,
		Paid:       req.Paid,
		Date:       date,
		Notes:      req.Notes,
	})
	if err != nil {
		web.Error(w, err)
		return
	}

	web.JSON(w, http.StatusOK, toResponse(st))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteStage(r.Context(), web.ID(r)); err != nil {
		web.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) complete(w http.ResponseWriter, r *http.Request) {
	st, err := h.store.CompleteStage(r.Context(), web.ID(r))
	if err != nil {
		web.Error(w, err)
		return
	}

	web.JSON(w, http.StatusOK, toResponse(st))
}

func (h *Handler) payments(w http.ResponseWriter, r *http.Request) {
	id := web.ID(r)

	if _, err := h.store.Stage(id); err != nil {
		web.Error(w, err)
		return
	}

	web.JSON(w, http.StatusOK, h.store.PaymentsForItem(id))
}
