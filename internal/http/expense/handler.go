package expense

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/sitebook/internal/http/web"
	"github.com/MrJamesThe3rd/sitebook/internal/importer"
	"github.com/MrJamesThe3rd/sitebook/internal/ledger"
)

const maxUploadSize = 10 << 20

type Handler struct {
	store     *ledger.Store
	importSvc *importer.Service
}

func NewHandler(store *ledger.Store, importSvc *importer.Service) *Handler {
	return &Handler{
		store:     store,
		importSvc: importSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Post("/import", h.importCSV)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/paid", h.markPaid)
}

type createExpenseRequest struct {
	Name     string          `json:"name"`
	Amount   int64           `json:"amount"`
	Date     string          `json:"date"`
	Category ledger.Category `json:"category"`
	Notes    string          `json:"notes"`
	Vendor   string          `json:"vendor"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := web.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := web.ParseDate(req.Date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	e, err := h.store.AddExpense(r.Context(), ledger.NewExpense{
		Name:     req.Name,
		Amount:   req.Amount,
		Date:     date,
		Category: req.Category,
		Notes:    req.Notes,
		Vendor:   req.Vendor,
	})
	if err != nil {
		web.Error(w, err)
		return
	}

	web.JSON(w, http.StatusCreated, toResponse(e))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	expenses := h.store.FindExpenses(ledger.ExpenseFilter{
		Category: ledger.Category(q.Get("category")),
		Status:   ledger.ExpenseStatus(q.Get("status")),
		Query:    q.Get("q"),
	})

	web.JSON(w, http.StatusOK, toResponseList(expenses))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	e, err := h.store.Expense(web.ID(r))
	if err != nil {
		web.Error(w, err)
		return
	}

	web.JSON(w, http.StatusOK, toResponse(e))
}

type updateExpenseRequest struct {
	Name     *string          `json:"name,omitempty"`
	Amount   *int64           `json:"amount,omitempty"`
	Paid     *int64           `json:"paid,omitempty"`
	Category *ledger.Category `json:"category,omitempty"`
	Date     *string          `json:"date,omitempty"`
	Notes    *string          `json:"notes,omitempty"`
	Vendor   *string          `json:"vendor,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateExpenseRequest
	if err := web.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := web.OptionalDate(req.Date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	e, err := h.store.UpdateExpense(r.Context(), web.ID(r), ledger.ExpensePatch{
		Name:     req.Name,
		Amount:   req.Amount,
		Paid:     req.Paid,
		Category: req.Category,
		Date:     date,
		Notes:    req.Notes,
		Vendor:   req.Vendor,
	})
	if err != nil {
		web.Error(w, err)
		return
	}

	web.JSON(w, http.StatusOK, toResponse(e))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteExpense(r.Context(), web.ID(r)); err != nil {
		web.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) markPaid(w http.ResponseWriter, r *http.Request) {
	e, err := h.store.MarkExpensePaid(r.Context(), web.ID(r))
	if err != nil {
		web.Error(w, err)
		return
	}

	web.JSON(w, http.StatusOK, toResponse(e))
}

type importResponse struct {
	Imported int               `json:"imported"`
	Expenses []expenseResponse `json:"expenses"`
	Error    string            `json:"error,omitempty"`
}

// importCSV accepts a multipart upload with the sheet in the "file" field.
func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	added, err := h.importSvc.Import(r.Context(), importer.FormatCSV, file, h.store)
	if err != nil && len(added) == 0 {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := importResponse{
		Imported: len(added),
		Expenses: toResponseList(added),
	}

	// Rows before the failing one stay in the ledger.
	if err != nil {
		resp.Error = err.Error()
		web.JSON(w, http.StatusUnprocessableEntity, resp)

		return
	}

	web.JSON(w, http.StatusCreated, resp)
}
