package reports

import (
	"fmt"
	"html"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/ledgerdesk/ledgerdesk/internal/transactions"
)

var amountPrinter = message.NewPrinter(language.English)

func formatAmount(d decimal.Decimal) string {
	f, _ := d.Float64()
	return amountPrinter.Sprintf("%v",
		number.Decimal(f, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// RenderSummaryHTML builds the printable monthly summary page fed to the
// PDF renderer.
func RenderSummaryHTML(summary *transactions.Summary) string {
	var b strings.Builder
	b.WriteString("<html><head><title>Monthly Summary</title><style>")
	b.WriteString("body{font-family:sans-serif}table{border-collapse:collapse;width:100%}")
	b.WriteString("td,th{border:1px solid #ccc;padding:6px;text-align:left}")
	b.WriteString("</style></head><body>")
	fmt.Fprintf(&b, "<h1>Monthly Summary %s</h1>", html.EscapeString(summary.Period))
	fmt.Fprintf(&b, "<p>Business %s</p>", html.EscapeString(summary.BusinessID))
	b.WriteString("<table><tr><th>Category</th><th>Kind</th><th>Total</th></tr>")
	for _, ct := range summary.Categories {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td></tr>",
			html.EscapeString(ct.Category), html.EscapeString(string(ct.Kind)), formatAmount(ct.Total))
	}
	b.WriteString("</table>")
	fmt.Fprintf(&b, "<h2>Income %s</h2>", formatAmount(summary.Income))
	fmt.Fprintf(&b, "<h2>Expense %s</h2>", formatAmount(summary.Expense))
	fmt.Fprintf(&b, "<h2>Net %s</h2>", formatAmount(summary.Net))
	b.WriteString("</body></html>")
	return b.String()
}
