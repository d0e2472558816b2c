package models

import "time"

// BookingKind discriminates the two bookable things: a live demo (bound to a
// timeslot) and exclusive use of a testbed for a day.
type BookingKind string

const (
	KindDemo    BookingKind = "demo"
	KindTestbed BookingKind = "testbed"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking carries either an owning user or a guest email, never both.
type Booking struct {
	ID         int64         `json:"id"`
	Kind       BookingKind   `json:"kind"`
	UserID     *string       `json:"userid,omitempty"`
	GuestEmail *string       `json:"guest_email,omitempty"`
	Status     BookingStatus `json:"status"`
	TimeslotID *int64        `json:"timeslot_id,omitempty"`
	TestbedID  *int64        `json:"testbed_id,omitempty"`
	Date       string        `json:"date"` // YYYY-MM-DD
	Message    string        `json:"message,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}

type Timeslot struct {
	ID    int64  `json:"id"`
	Start string `json:"start"` // HH:MM
	End   string `json:"end"`
}

type Testbed struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
