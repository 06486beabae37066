package goals

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal is a savings target a business works toward.
type Goal struct {
	ID           string
	BusinessID   string
	CreatedBy    string
	Name         string
	TargetAmount decimal.Decimal
	SavedAmount  decimal.Decimal
	Deadline     time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Progress returns completion as a percentage clamped to [0, 100].
func (g *Goal) Progress() decimal.Decimal {
	if g.TargetAmount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	pct := g.SavedAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100))
	if pct.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.NewFromInt(100)
	}
	if pct.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return pct.Round(2)
}

// CreateGoalInput for setting up a goal.
type CreateGoalInput struct {
	BusinessID   string
	CreatedBy    string
	Name         string
	TargetAmount decimal.Decimal
	Deadline     time.Time
}

// UpdateGoalInput for editing goal attributes.
type UpdateGoalInput struct {
	Name         string
	TargetAmount decimal.Decimal
	Deadline     time.Time
}
