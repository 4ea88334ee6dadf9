package entity

import (
	"time"
)

// Report is an immutable accusation record. Reports are append-only and
// never updated or deleted.
type Report struct {
	ID        string    `json:"id" firestore:"id"`
	RentalID  string    `json:"rental_id" firestore:"rentalId"`
	RenterID  string    `json:"renter_id" firestore:"renterId"`
	OwnerID   string    `json:"owner_id" firestore:"ownerId"`
	Reason    string    `json:"reason" firestore:"reason"`
	Timestamp time.Time `json:"timestamp" firestore:"timestamp"`
}
