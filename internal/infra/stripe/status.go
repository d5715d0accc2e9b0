package stripe

import "strings"

// NormalizeCheckoutStatus folds a Checkout session's status/payment_status pair
// into the order statuses we store: paid, pending, failed or expired.
func NormalizeCheckoutStatus(sessionStatus, paymentStatus string) string {
	switch strings.TrimSpace(paymentStatus) {
	case "paid", "no_payment_required":
		return "paid"
	}
	switch strings.TrimSpace(sessionStatus) {
	case "expired":
		return "expired"
	case "complete":
		// completed but unpaid: async methods still settling
		return "pending"
	case "", "open":
		return "pending"
	default:
		return "failed"
	}
}
