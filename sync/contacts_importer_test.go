// ABOUTME: Tests for the Google Contacts importer
// ABOUTME: Drives ImportContacts with a fake page source over a temp SQLite database
package sync

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/harperreed/callcoach/db"
	"github.com/harperreed/callcoach/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/people/v1"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

type fakeSource struct {
	pages      []*people.ListConnectionsResponse
	err        error
	syncTokens []string
}

func (f *fakeSource) ListConnections(_ context.Context, pageToken, syncToken string) (*people.ListConnectionsResponse, error) {
	f.syncTokens = append(f.syncTokens, syncToken)
	if f.err != nil {
		return nil, f.err
	}
	i := 0
	if pageToken == "p2" {
		i = 1
	}
	if i >= len(f.pages) {
		return nil, nil
	}
	return f.pages[i], nil
}

func person(resource, name, email, phone, org, title string) *people.Person {
	p := &people.Person{
		ResourceName: resource,
		Names:        []*people.Name{{DisplayName: name}},
	}
	if email != "" {
		p.EmailAddresses = []*people.EmailAddress{{Value: email}}
	}
	if phone != "" {
		p.PhoneNumbers = []*people.PhoneNumber{{Value: phone}}
	}
	if org != "" {
		p.Organizations = []*people.Organization{{Name: org, Title: title}}
	}
	return p
}

func TestImportContact(t *testing.T) {
	database := setupTestDB(t)
	importer := NewContactsImporter(database, nil)

	created, err := importer.ImportContact(&GoogleContact{
		ResourceName: "people/123",
		Name:         "Alice Smith",
		Email:        "alice@mercy.org",
		Phone:        "555-1234",
		Company:      "Mercy General",
		JobTitle:     "HIM Director",
	})
	require.NoError(t, err)
	assert.True(t, created)

	contacts, err := db.FindContacts(database, "alice@mercy.org", nil, 10)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "HIM Director", contacts[0].Title)
	require.NotNil(t, contacts[0].CompanyID)

	company, err := db.GetCompany(database, *contacts[0].CompanyID)
	require.NoError(t, err)
	assert.Equal(t, "mercy.org", company.Domain)

	entityID, err := db.ImportedEntityID(database, ContactsService, "people/123")
	require.NoError(t, err)
	assert.Equal(t, contacts[0].ID.String(), entityID)
}

func TestImportContactMergesByPhone(t *testing.T) {
	database := setupTestDB(t)

	existing := &models.Contact{Name: "Bob Jones", Phone: "(555) 010-2000"}
	require.NoError(t, db.CreateContact(database, existing))

	importer := NewContactsImporter(database, []models.Contact{*existing})
	created, err := importer.ImportContact(&GoogleContact{
		ResourceName: "people/9",
		Name:         "Robert Jones",
		Email:        "bob@stjude.org",
		Phone:        "+1 555 010 2000",
		JobTitle:     "Revenue Cycle Manager",
	})
	require.NoError(t, err)
	assert.False(t, created)

	got, err := db.GetContact(database, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bob Jones", got.Name, "local name should win")
	assert.Equal(t, "bob@stjude.org", got.Email)
	assert.Equal(t, "Revenue Cycle Manager", got.Title)
}

func TestImportContactsPagesAndSkips(t *testing.T) {
	database := setupTestDB(t)

	deleted := person("people/3", "Gone", "gone@example.com", "", "", "")
	deleted.Metadata = &people.PersonMetadata{Deleted: true}

	source := &fakeSource{pages: []*people.ListConnectionsResponse{
		{
			Connections: []*people.Person{
				person("people/1", "Dana Reyes", "dana@mercy.org", "", "Mercy General", "HIM Director"),
				person("people/2", "", "nameless@example.com", "", "", ""),
				deleted,
			},
			NextPageToken: "p2",
		},
		{
			Connections: []*people.Person{
				person("people/4", "Lee Park", "", "555-303-4000", "St. Jude", ""),
				person("people/5", "No Reach", "", "", "", ""),
			},
			NextSyncToken: "sync-1",
		},
	}}

	summary, err := ImportContacts(context.Background(), database, source, false)
	require.NoError(t, err)
	assert.Equal(t, 5, summary.Fetched)
	assert.Equal(t, 2, summary.Created)
	assert.Equal(t, 3, summary.Skipped)

	state, err := db.GetSyncState(database, ContactsService)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, models.SyncStatusIdle, state.Status)
	require.NotNil(t, state.LastSyncToken)
	assert.Equal(t, "sync-1", *state.LastSyncToken)

	// A second run resumes from the sync token and skips logged records.
	summary, err = ImportContacts(context.Background(), database, source, false)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Created)
	assert.Contains(t, source.syncTokens, "sync-1")
}

func TestImportContactsRecordsError(t *testing.T) {
	database := setupTestDB(t)

	_, err := ImportContacts(context.Background(), database, &fakeSource{err: errors.New("quota exceeded")}, true)
	require.Error(t, err)

	state, err := db.GetSyncState(database, ContactsService)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, models.SyncStatusError, state.Status)
	require.NotNil(t, state.ErrorMessage)
	assert.Contains(t, *state.ErrorMessage, "quota exceeded")
}
