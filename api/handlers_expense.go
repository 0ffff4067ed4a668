/*
handlers_expense.go - Expense endpoints

PURPOSE:
  Paginated expense listings (global, per-caller, manager aggregation),
  the detail view with lines, line creation, and the PDF export.

EXPORT CONTRACT:
  GET /api/expenses/{id}/export streams the PDF as an attachment named
  NoteDeFrais.pdf. A missing expense is a 404 JSON error; the expense is
  resolved before the first PDF byte, so the 404 is never half a download.

SEE ALSO:
  - expense/service.go: Aggregation and merge semantics
  - expense/report.go: PDF layout
*/
package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/warp/mission-engine/core"
	"github.com/warp/mission-engine/expense"
)

// ListExpenses returns one page of all expenses. Admin scope.
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	page, err := h.Expenses.List(r.Context(), pageRequest(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list expenses", err)
		return
	}
	writeJSON(w, http.StatusOK, toPageDTO(page))
}

// ListMyExpenses returns one page of the caller's own expenses.
func (h *Handler) ListMyExpenses(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing authorization token", nil)
		return
	}

	page, err := h.Expenses.ListForUser(r.Context(), caller.UserID, pageRequest(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list expenses", err)
		return
	}
	writeJSON(w, http.StatusOK, toPageDTO(page))
}

// ListTeamExpenses returns one page of the caller's own expenses merged with
// their direct reports'. Manager scope.
func (h *Handler) ListTeamExpenses(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing authorization token", nil)
		return
	}

	page, err := h.Expenses.ListForManager(r.Context(), caller.UserID, pageRequest(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list team expenses", err)
		return
	}
	writeJSON(w, http.StatusOK, toPageDTO(page))
}

// GetExpense returns one expense with its lines.
func (h *Handler) GetExpense(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	e, err := h.Expenses.Get(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, "Failed to get expense", err)
		return
	}

	writeJSON(w, http.StatusOK, toExpenseDTO(*e))
}

// AddExpenseLine appends a line to an expense.
func (h *Handler) AddExpenseLine(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req AddLineRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid expense line", err)
		return
	}

	date, err := core.ParseTimePoint(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid expense line", errInvalid("date must be YYYY-MM-DD"))
		return
	}

	line, err := h.Expenses.AddLine(r.Context(), id, expense.Line{
		Date:   date,
		Type:   req.Type,
		Amount: req.Amount,
		Tax:    req.Tax,
	})
	if err != nil {
		h.writeDomainError(w, "Failed to add expense line", err)
		return
	}

	writeJSON(w, http.StatusCreated, toLineDTO(*line))
}

// ExportExpense streams the PDF report for one expense.
func (h *Handler) ExportExpense(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	// Resolve before touching the response so a miss is a clean 404.
	if _, err := h.Expenses.Get(r.Context(), id); err != nil {
		h.writeDomainError(w, "Failed to export expense", err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", expense.ReportFileName))

	if err := h.Expenses.Export(r.Context(), id, w); err != nil {
		// Headers are out; all we can do is log.
		if h.Logger != nil {
			h.Logger.Error("expense export failed", "expense_id", id, "error", err)
		}
	}
}
