package expense

import (
	"github.com/MrJamesThe3rd/sitebook/internal/ledger"
)

type expenseResponse struct {
	ledger.Expense
	Balance int64 `json:"balance"`
}

func toResponse(e ledger.Expense) expenseResponse {
	return expenseResponse{Expense: e, Balance: e.Balance()}
}

func toResponseList(expenses []ledger.Expense) []expenseResponse {
	resp := make([]expenseResponse, len(expenses))
	for i, e := range expenses {
		resp[i] = toResponse(e)
	}

	return resp
}
