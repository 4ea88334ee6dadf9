package entity

import (
	"regexp"
	"time"
)

// RollNumberPattern matches university roll numbers such as ECE2024-001.
var RollNumberPattern = regexp.MustCompile(`[A-Z]{3}\d{4}-\d{3}`)

// RollNumberExact requires the whole string to be a roll number.
var RollNumberExact = regexp.MustCompile(`^[A-Z]{3}\d{4}-\d{3}$`)

type User struct {
	ID          string `json:"id" firestore:"id"`
	RollNumber  string `json:"roll_number" firestore:"rollNumber"`
	PhoneNumber string `json:"phone_number" firestore:"phoneNumber"`
	Role        string `json:"role" firestore:"role"`

	IsVerified bool   `json:"is_verified" firestore:"isVerified"`
	IdPhotoUrl string `json:"id_photo_url,omitempty" firestore:"idPhotoUrl,omitempty"`

	ReportsCount int  `json:"reports_count" firestore:"reportsCount"`
	IsBlocked    bool `json:"is_blocked" firestore:"isBlocked"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
