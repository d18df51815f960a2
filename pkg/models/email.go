package models

// Email is a raw notification message as delivered by the mail source.
// Date is the raw header value (RFC 2822 style), used only as a fallback
// when the body carries no date of its own.
type Email struct {
	ID      string
	Subject string
	Body    string
	From    string
	Date    string
}
