package orders

import (
	"strings"

	"github.com/angelmondragon/gs-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/gs-storefront/pkg/errors"
	"github.com/angelmondragon/gs-storefront/pkg/types"
)

// Update is a partial order edit sent to the gateway without resending the full order.
// Nil fields are left untouched.
type Update struct {
	Status         *enums.OrderStatus `json:"status,omitempty"`
	TrackingNumber *string            `json:"trackingNumber,omitempty"`
	Carrier        *string            `json:"carrier,omitempty"`
}

// IsEmpty reports whether the update changes nothing.
func (u Update) IsEmpty() bool {
	return u.Status == nil && u.TrackingNumber == nil && u.Carrier == nil
}

// Validate rejects empty updates and unknown statuses.
func (u Update) Validate() error {
	if u.IsEmpty() {
		return pkgerrors.New(pkgerrors.CodeValidation, "order update has no fields")
	}
	if u.Status != nil && !u.Status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid order status").
			WithDetails(map[string]any{"status": string(*u.Status)})
	}
	return nil
}

// ApplyTo returns a copy of order with the update's fields applied.
func (u Update) ApplyTo(order types.Order) types.Order {
	next := order.Clone()
	if u.Status != nil {
		next.Status = *u.Status
	}
	if u.TrackingNumber != nil {
		next.TrackingNumber = strings.TrimSpace(*u.TrackingNumber)
	}
	if u.Carrier != nil {
		next.Carrier = strings.TrimSpace(*u.Carrier)
	}
	return next
}

// StatusUpdate is shorthand for an update that only moves the status.
func StatusUpdate(status enums.OrderStatus) Update {
	return Update{Status: &status}
}

// TrackingUpdate assigns carrier and tracking number, marking the order shipped.
func TrackingUpdate(carrier, trackingNumber string) Update {
	shipped := enums.OrderStatusShipped
	return Update{Status: &shipped, Carrier: &carrier, TrackingNumber: &trackingNumber}
}
