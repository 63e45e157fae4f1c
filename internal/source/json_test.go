package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "emails.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

const bareArray = `[
	{
		"id": "m1",
		"subject": "Votre facture",
		"bodyPreview": "Le montant a été prélevé",
		"from": {"emailAddress": {"name": "Compta", "address": "billing@corp.fr"}},
		"toRecipients": [{"emailAddress": {"address": "me@corp.fr"}}]
	},
	{"id": "m2", "subject": "Réunion demain", "from": {"emailAddress": {"address": "boss@corp.fr"}}}
]`

func TestJSONFile_BareArray(t *testing.T) {
	src := NewJSONFile(writeFixture(t, bareArray))

	emails, err := src.FetchEmails(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, emails, 2)

	assert.Equal(t, "m1", emails[0].ID)
	assert.Equal(t, "Votre facture", emails[0].Subject)
	assert.Equal(t, "billing@corp.fr", emails[0].SenderAddress())
	assert.Equal(t, 1, emails[0].RecipientCount())
	assert.Equal(t, "m2", emails[1].ID)
}

func TestJSONFile_ValueWrapper(t *testing.T) {
	src := NewJSONFile(writeFixture(t, `{"value": [{"id": "m1", "subject": "Hello"}]}`))

	emails, err := src.FetchEmails(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, emails, 1)
	assert.Equal(t, "m1", emails[0].ID)
}

func TestJSONFile_LimitApplied(t *testing.T) {
	src := NewJSONFile(writeFixture(t, bareArray))

	emails, err := src.FetchEmails(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, emails, 1)
	assert.Equal(t, "m1", emails[0].ID)
}

func TestJSONFile_LimitLargerThanFile(t *testing.T) {
	src := NewJSONFile(writeFixture(t, bareArray))

	emails, err := src.FetchEmails(context.Background(), 50)
	require.NoError(t, err)
	assert.Len(t, emails, 2)
}

func TestJSONFile_MissingFile(t *testing.T) {
	src := NewJSONFile(filepath.Join(t.TempDir(), "nope.json"))

	_, err := src.FetchEmails(context.Background(), 0)
	assert.Error(t, err)
}

func TestJSONFile_Malformed(t *testing.T) {
	src := NewJSONFile(writeFixture(t, `{"value": "not a list"`))

	_, err := src.FetchEmails(context.Background(), 0)
	assert.Error(t, err)
}
