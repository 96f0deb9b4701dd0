package report

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/sitebook/internal/http/web"
	"github.com/MrJamesThe3rd/sitebook/internal/report"
)

const defaultUpcoming = 3

type Handler struct {
	svc *report.Service
}

func NewHandler(svc *report.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/payments", h.payments)
	r.Get("/upcoming", h.upcoming)
}

// payments serves JSON by default, or ?format=csv|markdown.
func (h *Handler) payments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	start, err := web.ParseDate(q.Get("start"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	end, err := web.ParseDate(q.Get("end"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		http.Error(w, "end is before start", http.StatusBadRequest)
		return
	}

	switch q.Get("format") {
	case "", "json":
		web.JSON(w, http.StatusOK, h.svc.Payments(start, end))
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="payments.csv"`)

		if err := report.WriteCSV(w, h.svc.Payments(start, end)); err != nil {
			web.Error(w, err)
		}
	case "markdown", "md":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = w.Write([]byte(h.svc.Markdown(start, end)))
	default:
		http.Error(w, "unknown format", http.StatusBadRequest)
	}
}

func (h *Handler) upcoming(w http.ResponseWriter, r *http.Request) {
	n, err := web.QueryInt(r, "n", defaultUpcoming)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	due := h.svc.Upcoming(n)
	if due == nil {
		due = []report.Due{}
	}

	web.JSON(w, http.StatusOK, due)
}
