package mcp

import (
	"fmt"
	"time"

	"github.com/mmynk/shopfront/internal/models"
)

// ReturnWindow is how long after purchase an order may be returned.
const ReturnWindow = 30 * 24 * time.Hour

// ReturnPolicy is served as the "returns" context resource.
type ReturnPolicy struct {
	WindowDays       int                  `json:"window_days"`
	EligibleStatuses []models.OrderStatus `json:"eligible_statuses"`
	Description      string               `json:"description"`
}

// Policy returns the store return policy.
func Policy() ReturnPolicy {
	return ReturnPolicy{
		WindowDays:       int(ReturnWindow / (24 * time.Hour)),
		EligibleStatuses: []models.OrderStatus{models.OrderStatusShipped, models.OrderStatusDelivered},
		Description:      "We offer 30-day returns on most items. Some restrictions apply.",
	}
}

// ReturnEligibility is the output of the check_return_eligibility tool.
type ReturnEligibility struct {
	OrderID  string             `json:"order_id"`
	Status   models.OrderStatus `json:"status"`
	Eligible bool               `json:"eligible"`
	Reason   string             `json:"reason"`
	ReturnBy string             `json:"return_by,omitempty"`
}

// CheckReturnEligibility decides whether o can still be returned at now.
func CheckReturnEligibility(o models.Order, now time.Time) ReturnEligibility {
	res := ReturnEligibility{OrderID: o.ID, Status: o.Status}

	switch o.Status {
	case models.OrderStatusShipped, models.OrderStatusDelivered:
	case models.OrderStatusCancelled:
		res.Reason = "Order was cancelled"
		return res
	default:
		res.Reason = fmt.Sprintf("Order is still %s; cancel it instead", o.Status)
		return res
	}

	deadline := o.CreatedAt.Add(ReturnWindow)
	res.ReturnBy = deadline.UTC().Format(time.DateOnly)
	if now.After(deadline) {
		res.Reason = "Return window of 30 days has passed"
		return res
	}

	res.Eligible = true
	res.Reason = "Order is within the 30-day return window"
	return res
}
