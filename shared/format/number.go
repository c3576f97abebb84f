package format

import "fmt"

// NotAvailable is shown in place of a statistic that has no inputs.
const NotAvailable = "NA"

// Average renders a mean with two decimals, or NotAvailable when ok is false.
func Average(v float64, ok bool) string {
	if !ok {
		return NotAvailable
	}
	return fmt.Sprintf("%.2f", v)
}
