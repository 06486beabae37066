package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// Overview is the platform wide KPI set shown on the admin dashboard.
type Overview struct {
	Period             string           `json:"period"` // YYYY-MM
	TotalUsers         int64            `json:"total_users"`
	ActiveUsers        int64            `json:"active_users"`
	UsersByRole        map[string]int64 `json:"users_by_role"`
	UsersByTier        map[string]int64 `json:"users_by_tier"`
	TotalBusinesses    int64            `json:"total_businesses"`
	TransactionsPeriod int64            `json:"transactions_period"`
	IncomeTotal        string           `json:"income_total"`
	ExpenseTotal       string           `json:"expense_total"`
	PendingExports     int64            `json:"pending_exports"`
	GeneratedAt        time.Time        `json:"generated_at"`
}

// KindTotals holds raw income/expense sums for one month.
type KindTotals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// TrendPoint is one month of a business's cash movement.
type TrendPoint struct {
	Period  string `json:"period"` // YYYY-MM
	Income  string `json:"income"`
	Expense string `json:"expense"`
	Net     string `json:"net"`
}
