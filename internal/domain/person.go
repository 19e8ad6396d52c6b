package domain

// Person is the merged search/detail view over users and contacts.
// Email stays null except in the detail view when the visibility rule
// allows it.
type Person struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	PhoneNumber  string  `json:"phone_number"`
	SpamCount    int64   `json:"spam_count"`
	Email        *string `json:"email"`
	IsRegistered bool    `json:"is_registered"`
}
