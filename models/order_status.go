package models

import (
	"fmt"
	"strings"
)

// OrderStatus is a state of the order lifecycle
type OrderStatus string

const (
	StatusPending             OrderStatus = "pending" // legacy rows only
	StatusCODPending          OrderStatus = "cod_pending"
	StatusPendingVerification OrderStatus = "pending_verification"
	StatusPaid                OrderStatus = "paid"
	StatusShipped             OrderStatus = "shipped"
	StatusDelivered           OrderStatus = "delivered"
	StatusCancelled           OrderStatus = "cancelled"
)

// allowedTransitions maps a status to the statuses it can move to.
// Terminal statuses have no entry.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:             {StatusPaid, StatusShipped, StatusDelivered, StatusCancelled},
	StatusCODPending:          {StatusShipped, StatusDelivered, StatusCancelled},
	StatusPendingVerification: {StatusPaid, StatusCancelled},
	StatusPaid:                {StatusShipped, StatusCancelled},
	StatusShipped:             {StatusDelivered, StatusCancelled},
}

// OrderStatuses lists every stored status
func OrderStatuses() []OrderStatus {
	return []OrderStatus{
		StatusPending,
		StatusCODPending,
		StatusPendingVerification,
		StatusPaid,
		StatusShipped,
		StatusDelivered,
		StatusCancelled,
	}
}

// ParseOrderStatus normalises user input. "verified" is an alias of paid.
func ParseOrderStatus(value string) (OrderStatus, bool) {
	normalized := OrderStatus(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "verified" {
		return StatusPaid, true
	}
	for _, s := range OrderStatuses() {
		if s == normalized {
			return s, true
		}
	}
	return "", false
}

// InitialStatus returns the status a new order starts in
func InitialStatus(method PaymentMethod) OrderStatus {
	if method == PaymentUPI {
		return StatusPendingVerification
	}
	return StatusCODPending
}

// IsTerminal reports whether no further transition is permitted
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo reports whether s may move to next. Re-applying the
// current status is always allowed and changes nothing.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionError is returned for a status change outside the transition table
type TransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *TransitionError) Error() string {
	if e.From.IsTerminal() {
		return fmt.Sprintf("order is %s and cannot move to %s", e.From, e.To)
	}
	return fmt.Sprintf("cannot transition from %s to %s", e.From, e.To)
}

// ValidateStatusTransition checks if the transition from current to next is allowed
func ValidateStatusTransition(current, next OrderStatus) error {
	if !current.CanTransitionTo(next) {
		return &TransitionError{From: current, To: next}
	}
	return nil
}
