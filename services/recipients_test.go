package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dataroom-ai/dataroom-server/services"
)

func TestParseRecipients_MixedInput(t *testing.T) {
	got := services.ParseRecipients("a@x.com, @bob\nalice@y.org")

	assert.Len(t, got, 3)

	assert.Equal(t, services.RecipientEmail, got[0].Type)
	assert.Equal(t, "a@x.com", got[0].Value)

	assert.Equal(t, services.RecipientHandle, got[1].Type)
	assert.Equal(t, "bob", got[1].Value)
	assert.Equal(t, "@bob", got[1].Raw)

	assert.Equal(t, services.RecipientEmail, got[2].Type)
	assert.Equal(t, "alice@y.org", got[2].Value)
}

func TestParseRecipients_DropsEmptyEntries(t *testing.T) {
	got := services.ParseRecipients(",,\n\n , a@x.com ,\n,")

	assert.Len(t, got, 1)
	assert.Equal(t, "a@x.com", got[0].Value)
}

func TestParseRecipients_LowerCases(t *testing.T) {
	got := services.ParseRecipients("Bob@X.COM, @Alice")

	assert.Equal(t, "bob@x.com", got[0].Value)
	assert.Equal(t, "alice", got[1].Value)
}

func TestParseRecipients_HandleWithoutAtSign(t *testing.T) {
	got := services.ParseRecipients("carol")

	assert.Len(t, got, 1)
	assert.Equal(t, services.RecipientHandle, got[0].Type)
	assert.Equal(t, "carol", got[0].Value)
}

func TestParseRecipients_NotQuiteAnEmailIsAHandle(t *testing.T) {
	// No dot in the domain part, so this is not an email.
	got := services.ParseRecipients("bob@localhost")

	assert.Len(t, got, 1)
	assert.Equal(t, services.RecipientHandle, got[0].Type)
}

func TestParseRecipients_Empty(t *testing.T) {
	assert.Empty(t, services.ParseRecipients(""))
	assert.Empty(t, services.ParseRecipients(" \n , ,\n"))
	assert.Empty(t, services.ParseRecipients("@"))
}
