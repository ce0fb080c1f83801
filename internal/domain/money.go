package domain

import "github.com/shopspring/decimal"

// FormatAmount renders a minor-unit amount in major units with two decimal
// places. Dashboards and rendered reports share this single rule so printed
// totals always reconcile with on-screen aggregates.
func FormatAmount(amount int64) string {
	return decimal.New(amount, -2).StringFixed(2)
}
