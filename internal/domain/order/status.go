// internal/domain/order/status.go
package order

import (
	"strings"

	orderitem "storefront/internal/domain/orderItem"
)

// Status is the canonical buyer-facing order status. It is derived on every
// read from the order's aggregate signals plus its line items' signals, and
// is never persisted.
type Status string

const (
	StatusPending        Status = "pending"
	StatusCollecting     Status = "collecting"
	StatusInTransit      Status = "in_transit"
	StatusAtWarehouse    Status = "at_warehouse"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
	StatusFailed         Status = "failed"
)

// deliveredSignal is the raw signal value that short-circuits derivation.
const deliveredSignal = "delivered"

// statusPriority totally orders the non-terminal classifications. The order
// is only as "advanced" as its least-advanced line item, so aggregation
// takes the minimum. Classifications missing from the map rank as 0.
var statusPriority = map[Status]int{
	StatusPending:        0,
	StatusCollecting:     1,
	StatusInTransit:      2,
	StatusAtWarehouse:    3,
	StatusOutForDelivery: 4,
}

// Classify reduces one line item's delivery signals to a status.
func Classify(it orderitem.OrderItem) Status {
	if isDeliveredSignal(it.DeliveryStatus) ||
		isDeliveredSignal(string(it.GatheringStatus)) ||
		it.DeliveredInPartial {
		return StatusDelivered
	}
	switch it.GatheringStatus {
	case orderitem.GatheringFailed:
		return StatusFailed
	case orderitem.GatheringAtWarehouse:
		return StatusAtWarehouse
	case orderitem.GatheringGathered:
		return StatusInTransit
	case orderitem.GatheringAssigned:
		return StatusCollecting
	default:
		// includes GatheringPending, absent, and unrecognized signals
		return StatusPending
	}
}

// DeriveStatus computes the canonical status for an order.
//
// Aggregation:
//  1. order-level deliveryStatus/distributionStatus == "delivered" wins
//     outright (line items not inspected)
//  2. no line items -> pending
//  3. every item delivered -> delivered
//  4. any item failed -> failed
//  5. otherwise the minimum-priority classification across the remaining
//     items (delivered items are excluded from the minimum)
func DeriveStatus(o *Order, items []orderitem.OrderItem) Status {
	if o != nil &&
		(isDeliveredSignal(o.DeliveryStatus) || isDeliveredSignal(o.DistributionStatus)) {
		return StatusDelivered
	}

	if len(items) == 0 {
		return StatusPending
	}

	allDelivered := true
	anyFailed := false
	minStatus := Status("")
	minPriority := 0

	for _, it := range items {
		c := Classify(it)
		if c == StatusDelivered {
			continue
		}
		allDelivered = false
		if c == StatusFailed {
			anyFailed = true
			continue
		}
		p := statusPriority[c]
		if minStatus == "" || p < minPriority {
			minStatus = c
			minPriority = p
		}
	}

	if allDelivered {
		return StatusDelivered
	}
	if minStatus == "" {
		// nothing left but failed items
		if anyFailed {
			return StatusFailed
		}
		return StatusPending
	}
	if anyFailed {
		return StatusFailed
	}
	return minStatus
}

func isDeliveredSignal(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), deliveredSignal)
}
