package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to string }{
		{RentalStatusAvailable, RentalStatusRequested},
		{RentalStatusRequested, RentalStatusApproved},
		{RentalStatusRequested, RentalStatusAvailable},
		{RentalStatusApproved, RentalStatusOverdue},
		{RentalStatusApproved, RentalStatusAvailable},
		{RentalStatusOverdue, RentalStatusAvailable},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	denied := []struct{ from, to string }{
		{RentalStatusAvailable, RentalStatusApproved},
		{RentalStatusAvailable, RentalStatusOverdue},
		{RentalStatusRequested, RentalStatusOverdue},
		{RentalStatusOverdue, RentalStatusApproved},
		{RentalStatusOverdue, RentalStatusRequested},
		{RentalStatusApproved, RentalStatusRequested},
	}
	for _, tc := range denied {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s should be denied", tc.from, tc.to)
	}
}

func TestHasRenter(t *testing.T) {
	assert.True(t, (&Rental{Status: RentalStatusApproved, RenterID: "u1"}).HasRenter())
	assert.True(t, (&Rental{Status: RentalStatusOverdue, RenterID: "u1"}).HasRenter())
	assert.False(t, (&Rental{Status: RentalStatusAvailable, RenterID: ""}).HasRenter())
	assert.False(t, (&Rental{Status: RentalStatusApproved, RenterID: ""}).HasRenter())
}
