package model

import (
	"strings"
	"time"
)

// EmailAddress is a display name plus address pair.
type EmailAddress struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address"`
}

// Recipient wraps an address for the sender and recipient lists.
type Recipient struct {
	EmailAddress EmailAddress `json:"emailAddress"`
}

// Email is the unit of classification. Only the fields the categorizer
// reads are modeled; sources fill in what their protocol provides.
type Email struct {
	ID               string      `json:"id"`
	Subject          string      `json:"subject"`
	BodyPreview      string      `json:"bodyPreview,omitempty"`
	From             Recipient   `json:"from"`
	ToRecipients     []Recipient `json:"toRecipients,omitempty"`
	CcRecipients     []Recipient `json:"ccRecipients,omitempty"`
	BccRecipients    []Recipient `json:"bccRecipients,omitempty"`
	ReceivedDateTime time.Time   `json:"receivedDateTime,omitempty"`
	IsRead           bool        `json:"isRead,omitempty"`
}

// CombinedText returns the lowercased analysis text: subject, body preview
// and sender display name joined by spaces. All keyword matching runs over
// this single string.
func (e *Email) CombinedText() string {
	var sb strings.Builder
	sb.WriteString(e.Subject)
	sb.WriteByte(' ')
	sb.WriteString(e.BodyPreview)
	sb.WriteByte(' ')
	sb.WriteString(e.From.EmailAddress.Name)
	return strings.ToLower(sb.String())
}

// SenderAddress returns the sender's address, empty when absent.
func (e *Email) SenderAddress() string {
	return e.From.EmailAddress.Address
}

// RecipientCount returns the total number of To, Cc and Bcc recipients.
func (e *Email) RecipientCount() int {
	return len(e.ToRecipients) + len(e.CcRecipients) + len(e.BccRecipients)
}
