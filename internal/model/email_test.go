package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCombinedText(t *testing.T) {
	e := Email{
		ID:          "e1",
		Subject:     "RAPPEL: Votre Facture",
		BodyPreview: "Le montant est de 42 €",
		From: Recipient{EmailAddress: EmailAddress{
			Name:    "Service Compta",
			Address: "Billing@Corp.FR",
		}},
	}

	text := e.CombinedText()
	assert.Equal(t, "rappel: votre facture le montant est de 42 € service compta", text)
}

func TestCombinedText_EmptyEmail(t *testing.T) {
	var e Email
	assert.Equal(t, "  ", e.CombinedText())
}

func TestSenderAddress(t *testing.T) {
	var e Email
	assert.Empty(t, e.SenderAddress())

	e.From = Recipient{EmailAddress: EmailAddress{Address: "a@b.fr"}}
	assert.Equal(t, "a@b.fr", e.SenderAddress())
}

func TestRecipientCount(t *testing.T) {
	e := Email{
		ToRecipients:  []Recipient{{}, {}},
		CcRecipients:  []Recipient{{}},
		BccRecipients: []Recipient{{}, {}, {}},
	}
	assert.Equal(t, 6, e.RecipientCount())
}

func TestIsReserved(t *testing.T) {
	assert.True(t, IsReserved(CategoryOther))
	assert.True(t, IsReserved(CategorySpam))
	assert.False(t, IsReserved("tasks"))
	assert.False(t, IsReserved(""))
}
