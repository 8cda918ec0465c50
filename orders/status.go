package orders

// Order statuses exposed by the e-shop service. The only transition visible
// to the client is unpaid -> cancelled, and cancellation is terminal.
const (
	StatusUnpaid    = "unpaid"
	StatusCancelled = "cancelled"
)

// IsTerminal reports whether an order in the given status accepts no further
// transitions. The client never sends a cancel for a terminal order.
func IsTerminal(status string) bool {
	return status == StatusCancelled
}

// ValidStatusFilter reports whether the value is usable as a status filter.
// The empty string means no constraint.
func ValidStatusFilter(status string) bool {
	switch status {
	case "", StatusUnpaid, StatusCancelled:
		return true
	}
	return false
}
