package ledger

import (
	"cmp"
	"slices"
)

// Summary aggregates the whole project.
type Summary struct {
	TotalConstructionCost int64 `json:"totalConstructionCost"`
	PaidConstruction      int64 `json:"paidConstructionAmount"`
	BalanceConstruction   int64 `json:"balanceConstructionAmount"`
	ConstructionProgress  int   `json:"constructionProgress"`

	TotalExpenses   int64 `json:"totalExpenses"`
	PaidExpenses    int64 `json:"paidExpenses"`
	BalanceExpenses int64 `json:"balanceExpenses"`

	TotalProjectCost int64 `json:"totalProjectCost"`
	TotalPaid        int64 `json:"totalPaid"`
	TotalBalance     int64 `json:"totalBalance"`
	OverallProgress  int   `json:"overallProgress"`
}

// Summary totals paid amounts from the stages and expenses themselves, not
// from the payment log, so orphaned payments do not count.
func (s *Store) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := Summary{TotalConstructionCost: s.project.TotalCost}

	for _, st := range s.stages {
		sum.PaidConstruction += st.Paid

		if st.Status == StageCompleted {
			sum.ConstructionProgress += st.Percentage
		}
	}

	for _, e := range s.expenses {
		sum.TotalExpenses += e.Amount
		sum.PaidExpenses += e.Paid
	}

	sum.BalanceConstruction = Balance(sum.TotalConstructionCost, sum.PaidConstruction)
	sum.BalanceExpenses = Balance(sum.TotalExpenses, sum.PaidExpenses)

	sum.TotalProjectCost = sum.TotalConstructionCost + sum.TotalExpenses
	sum.TotalPaid = sum.PaidConstruction + sum.PaidExpenses
	sum.TotalBalance = sum.BalanceConstruction + sum.BalanceExpenses
	sum.OverallProgress = Percent(sum.TotalPaid, sum.TotalProjectCost)

	return sum
}

type StageStats struct {
	Total      int `json:"totalStages"`
	Completed  int `json:"completedStages"`
	InProgress int `json:"inProgressStages"`
	Pending    int `json:"pendingStages"`

	TotalCost    int64 `json:"totalCost"`
	TotalPaid    int64 `json:"totalPaid"`
	TotalBalance int64 `json:"totalBalance"`

	// OverallProgress sums the percentages of completed stages.
	OverallProgress      int    `json:"overallProgress"`
	CurrentStage         string `json:"currentStage"`
	CompletionPercentage int    `json:"completionPercentage"`
	FinancialProgress    int    `json:"financialProgress"`
}

const notStarted = "Not Started"

func (s *Store) StageStats() StageStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := StageStats{Total: len(s.stages), CurrentStage: notStarted}

	var current, firstDone *Stage

	for i := range s.stages {
		st := &s.stages[i]

		switch st.Status {
		case StageCompleted:
			stats.Completed++
			stats.OverallProgress += st.Percentage

			if firstDone == nil {
				firstDone = st
			}
		case StageInProgress:
			stats.InProgress++

			if current == nil {
				current = st
			}
		default:
			stats.Pending++
		}

		stats.TotalCost += st.Amount
		stats.TotalPaid += st.Paid
	}

	if current == nil {
		current = firstDone
	}

	if current != nil {
		stats.CurrentStage = current.Name
	}

	stats.TotalBalance = Balance(stats.TotalCost, stats.TotalPaid)
	stats.CompletionPercentage = Percent(int64(stats.Completed), int64(stats.Total))
	stats.FinancialProgress = Percent(stats.TotalPaid, stats.TotalCost)

	return stats
}

// Breakdown totals a group of expenses.
type Breakdown struct {
	Key     string `json:"key"`
	Count   int    `json:"count"`
	Total   int64  `json:"total"`
	Paid    int64  `json:"paid"`
	Balance int64  `json:"balance"`
}

type ExpenseStats struct {
	Total   int `json:"totalExpenses"`
	Paid    int `json:"paidExpenses"`
	Pending int `json:"pendingExpenses"`

	TotalAmount  int64 `json:"totalAmount"`
	TotalPaid    int64 `json:"totalPaid"`
	TotalBalance int64 `json:"totalBalance"`

	// ByCategory follows the order of Categories; ByMonth is keyed YYYY-MM, oldest first.
	ByCategory []Breakdown `json:"categoryBreakdown"`
	ByMonth    []Breakdown `json:"monthlyExpenses"`

	CompletionPercentage int `json:"completionPercentage"`
	FinancialProgress    int `json:"financialProgress"`
}

func (s *Store) ExpenseStats() ExpenseStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := ExpenseStats{Total: len(s.expenses)}
	byCategory := make(map[string]*Breakdown)
	byMonth := make(map[string]*Breakdown)

	for _, e := range s.expenses {
		if e.Status == ExpensePaid {
			stats.Paid++
		} else {
			stats.Pending++
		}

		stats.TotalAmount += e.Amount
		stats.TotalPaid += e.Paid

		addTo(byCategory, string(e.Category), e)

		if !e.Date.IsZero() {
			addTo(byMonth, e.Date.Format("2006-01"), e)
		}
	}

	stats.TotalBalance = Balance(stats.TotalAmount, stats.TotalPaid)
	stats.CompletionPercentage = Percent(int64(stats.Paid), int64(stats.Total))
	stats.FinancialProgress = Percent(stats.TotalPaid, stats.TotalAmount)

	rank := func(key string) int {
		if i := slices.Index(Categories, Category(key)); i >= 0 {
			return i
		}

		return len(Categories)
	}

	stats.ByCategory = flatten(byCategory, func(a, b Breakdown) int {
		return cmp.Or(cmp.Compare(rank(a.Key), rank(b.Key)), cmp.Compare(a.Key, b.Key))
	})
	stats.ByMonth = flatten(byMonth, func(a, b Breakdown) int {
		return cmp.Compare(a.Key, b.Key)
	})

	return stats
}

func addTo(groups map[string]*Breakdown, key string, e Expense) {
	b, ok := groups[key]
	if !ok {
		b = &Breakdown{Key: key}
		groups[key] = b
	}

	b.Count++
	b.Total += e.Amount
	b.Paid += e.Paid
	b.Balance += e.Balance()
}

func flatten(groups map[string]*Breakdown, order func(a, b Breakdown) int) []Breakdown {
	out := make([]Breakdown, 0, len(groups))
	for _, b := range groups {
		out = append(out, *b)
	}

	slices.SortFunc(out, order)

	return out
}

// MonthlyPayments totals the payments made in one month, keyed YYYY-MM.
type MonthlyPayments struct {
	Month        string `json:"month"`
	Construction int64  `json:"construction"`
	Expense      int64  `json:"expense"`
	Other        int64  `json:"other"`
	Total        int64  `json:"total"`
}

type PaymentStats struct {
	Construction int64 `json:"totalConstructionPayments"`
	Expense      int64 `json:"totalExpensePayments"`
	Other        int64 `json:"totalOtherPayments"`
	Total        int64 `json:"totalPayments"`
	Count        int   `json:"totalPaymentCount"`
	Average      int64 `json:"averagePayment"`

	ByMonth []MonthlyPayments `json:"monthlyPayments"`
}

func (s *Store) PaymentStats() PaymentStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return SummarizePayments(s.payments)
}

// SummarizePayments totals payments by type and by month. Months are oldest first.
func SummarizePayments(payments []Payment) PaymentStats {
	stats := PaymentStats{Count: len(payments)}
	months := make(map[string]*MonthlyPayments)

	for _, p := range payments {
		month := p.Date.Format("2006-01")

		m, ok := months[month]
		if !ok {
			m = &MonthlyPayments{Month: month}
			months[month] = m
		}

		switch p.Type {
		case PaymentConstruction:
			stats.Construction += p.Amount
			m.Construction += p.Amount
		case PaymentExpense:
			stats.Expense += p.Amount
			m.Expense += p.Amount
		default:
			stats.Other += p.Amount
			m.Other += p.Amount
		}

		stats.Total += p.Amount
		m.Total += p.Amount
	}

	if stats.Count > 0 {
		stats.Average = roundDiv(stats.Total, int64(stats.Count))
	}

	stats.ByMonth = make([]MonthlyPayments, 0, len(months))
	for _, m := range months {
		stats.ByMonth = append(stats.ByMonth, *m)
	}

	slices.SortFunc(stats.ByMonth, func(a, b MonthlyPayments) int {
		return cmp.Compare(a.Month, b.Month)
	})

	return stats
}
