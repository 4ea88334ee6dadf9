package entity

import (
	"time"
)

const (
	RentalStatusAvailable = "available"
	RentalStatusRequested = "requested"
	RentalStatusApproved  = "approved"
	RentalStatusOverdue   = "overdue"
)

type Rental struct {
	ID           string    `json:"id" firestore:"id"`
	OwnerID      string    `json:"owner_id" firestore:"ownerId"`
	ItemName     string    `json:"item_name" firestore:"itemName"`
	PricePerHour int       `json:"price_per_hour" firestore:"pricePerHour"`
	Block        string    `json:"block" firestore:"block"`
	Icon         string    `json:"icon" firestore:"icon"`
	PhotoUrl     string    `json:"photo_url,omitempty" firestore:"photoUrl,omitempty"`
	Status       string    `json:"status" firestore:"status"`
	RenterID     string    `json:"renter_id,omitempty" firestore:"renterId"`
	CreatedAt    time.Time `json:"created_at" firestore:"createdAt"`
	RequestedAt  time.Time `json:"requested_at,omitempty" firestore:"requestedAt,omitempty"`
}

// HasRenter reports whether the rental is in a state that binds a renter.
func (r *Rental) HasRenter() bool {
	return r.RenterID != "" && (r.Status == RentalStatusRequested ||
		r.Status == RentalStatusApproved ||
		r.Status == RentalStatusOverdue)
}

var validRentalTransitions = map[string][]string{
	RentalStatusAvailable: {RentalStatusRequested},
	RentalStatusRequested: {RentalStatusApproved, RentalStatusAvailable},
	RentalStatusApproved:  {RentalStatusOverdue, RentalStatusAvailable},
	RentalStatusOverdue:   {RentalStatusAvailable},
}

// CanTransition reports whether the status change is allowed by the
// rental lifecycle.
func CanTransition(from, to string) bool {
	for _, next := range validRentalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
