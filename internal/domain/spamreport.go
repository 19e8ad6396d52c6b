package domain

import "time"

// SpamReport is a single user's flag against a phone number. The pair
// (PhoneNumber, ReportedBy) is unique; the number itself does not have
// to belong to any user or contact.
type SpamReport struct {
	ID          int64
	PhoneNumber string
	ReportedBy  int64
	ReportedAt  time.Time
}
