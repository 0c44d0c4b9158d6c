package services

import "fmt"

// Discrepancies lists every deviation between planned and actual picks, in
// pick-list order. Skips always count; quantity changes only when the
// collected amount differs from the plan.
func Discrepancies(items []AssemblyItem) []string {
	var out []string
	for _, item := range items {
		switch {
		case item.Status == StatusSkipped:
			out = append(out, fmt.Sprintf("Skipped: %s - %d units", item.Identifier(), item.Quantity))
		case item.Status == StatusQuantityChanged && item.CollectedQuantity != item.Quantity:
			out = append(out, fmt.Sprintf("Changed: %s was %d, became %d", item.Identifier(), item.Quantity, item.CollectedQuantity))
		}
	}
	return out
}
