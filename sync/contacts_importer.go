// ABOUTME: Google Contacts importer
// ABOUTME: Pages through People API connections and imports them as call contacts with deduplication
package sync

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/harperreed/callcoach/db"
	"github.com/harperreed/callcoach/models"
	"google.golang.org/api/people/v1"
)

// ContactsService names the sync_state and sync_log rows this importer owns.
const ContactsService = "contacts"

type ContactsImporter struct {
	db      *sql.DB
	matcher *ContactMatcher
}

type GoogleContact struct {
	ResourceName string
	Name         string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	Company      string
	JobTitle     string
	Notes        string
}

// ImportSummary counts what one import run did.
type ImportSummary struct {
	Fetched int
	Created int
	Updated int
	Skipped int
	Failed  int
}

func NewContactsImporter(database *sql.DB, existing []models.Contact) *ContactsImporter {
	return &ContactsImporter{
		db:      database,
		matcher: NewContactMatcher(existing),
	}
}

// ImportContact imports a single contact, merging into an existing match.
// It reports whether a new contact was created.
func (ci *ContactsImporter) ImportContact(gc *GoogleContact) (bool, error) {
	if existing, found := ci.matcher.FindMatch(gc.Email, gc.Phone); found {
		if _, err := ci.updateContact(existing, gc); err != nil {
			return false, err
		}
		if err := db.RecordImport(ci.db, ContactsService, gc.ResourceName, "contact", existing.ID.String(), ""); err != nil {
			return false, err
		}
		return false, nil
	}

	contact := &models.Contact{
		Name:      gc.Name,
		FirstName: gc.FirstName,
		LastName:  gc.LastName,
		Title:     gc.JobTitle,
		Email:     gc.Email,
		Phone:     gc.Phone,
		Notes:     gc.Notes,
	}

	if gc.Company != "" {
		company, err := ci.findOrCreateCompany(gc.Company, gc.Email)
		if err != nil {
			return false, fmt.Errorf("failed to handle company: %w", err)
		}
		contact.CompanyID = &company.ID
	}

	if err := db.CreateContact(ci.db, contact); err != nil {
		return false, fmt.Errorf("failed to create contact: %w", err)
	}
	if err := db.RecordImport(ci.db, ContactsService, gc.ResourceName, "contact", contact.ID.String(), ""); err != nil {
		return false, err
	}

	ci.matcher.AddContact(contact)
	return true, nil
}

// updateContact fills blanks on the existing contact; local edits win.
func (ci *ContactsImporter) updateContact(existing *models.Contact, gc *GoogleContact) (bool, error) {
	fresh, err := db.GetContact(ci.db, existing.ID)
	if err != nil {
		return false, fmt.Errorf("failed to load contact: %w", err)
	}
	if fresh == nil {
		return false, fmt.Errorf("contact disappeared during import: %s", existing.ID)
	}

	updated := fillBlank(&fresh.Phone, gc.Phone)
	updated = fillBlank(&fresh.Email, gc.Email) || updated
	updated = fillBlank(&fresh.Title, gc.JobTitle) || updated
	updated = fillBlank(&fresh.FirstName, gc.FirstName) || updated
	updated = fillBlank(&fresh.LastName, gc.LastName) || updated
	updated = fillBlank(&fresh.Notes, gc.Notes) || updated

	if gc.Company != "" && fresh.CompanyID == nil {
		company, err := ci.findOrCreateCompany(gc.Company, gc.Email)
		if err != nil {
			return false, fmt.Errorf("failed to handle company: %w", err)
		}
		fresh.CompanyID = &company.ID
		updated = true
	}

	if !updated {
		return false, nil
	}
	if err := db.UpdateContact(ci.db, fresh.ID, fresh); err != nil {
		return false, err
	}
	ci.matcher.AddContact(fresh)
	return true, nil
}

func fillBlank(dst *string, value string) bool {
	if *dst != "" || value == "" {
		return false
	}
	*dst = value
	return true
}

// findOrCreateCompany takes the new company's domain from the contact's
// email address.
func (ci *ContactsImporter) findOrCreateCompany(name, email string) (*models.Company, error) {
	company, err := db.FindCompanyByName(ci.db, name)
	if err != nil {
		return nil, err
	}
	if company != nil {
		return company, nil
	}

	newCompany := &models.Company{Name: name, Domain: extractDomain(email)}
	if err := db.CreateCompany(ci.db, newCompany); err != nil {
		// Another contact in the batch may have created it
		company, findErr := db.FindCompanyByName(ci.db, name)
		if findErr != nil {
			return nil, fmt.Errorf("failed to create or find company: %w (original error: %w)", findErr, err)
		}
		if company != nil {
			return company, nil
		}
		return nil, err
	}
	return newCompany, nil
}

// ImportContacts pages through source and imports every connection not yet
// in the sync log. Unless initial is set, it resumes from the stored sync
// token so only changed connections are fetched.
func ImportContacts(ctx context.Context, database *sql.DB, source ConnectionSource, initial bool) (*ImportSummary, error) {
	if err := db.UpdateSyncStatus(database, ContactsService, models.SyncStatusSyncing, nil); err != nil {
		return nil, err
	}
	fail := func(err error) (*ImportSummary, error) {
		msg := err.Error()
		_ = db.UpdateSyncStatus(database, ContactsService, models.SyncStatusError, &msg)
		return nil, err
	}

	syncToken := ""
	if !initial {
		state, err := db.GetSyncState(database, ContactsService)
		if err != nil {
			return fail(err)
		}
		if state != nil && state.LastSyncToken != nil {
			syncToken = *state.LastSyncToken
		}
	}

	existing, err := db.FindContacts(database, "", nil, 20000)
	if err != nil {
		return fail(fmt.Errorf("failed to load existing contacts: %w", err))
	}
	importer := NewContactsImporter(database, existing)

	summary := &ImportSummary{}
	pageToken := ""
	nextSyncToken := ""
	for {
		resp, err := source.ListConnections(ctx, pageToken, syncToken)
		if err != nil {
			return fail(fmt.Errorf("failed to fetch contacts: %w", err))
		}
		if resp == nil {
			break
		}
		if resp.NextSyncToken != "" {
			nextSyncToken = resp.NextSyncToken
		}

		for _, person := range resp.Connections {
			summary.Fetched++
			if person.Metadata != nil && person.Metadata.Deleted {
				summary.Skipped++
				continue
			}
			gc := convertPerson(person)
			if gc.Name == "" || (gc.Email == "" && gc.Phone == "") {
				summary.Skipped++
				continue
			}

			imported, err := db.ImportedEntityID(database, ContactsService, gc.ResourceName)
			if err != nil {
				return fail(err)
			}
			if imported != "" {
				summary.Skipped++
				continue
			}

			created, err := importer.ImportContact(gc)
			if err != nil {
				log.Warn("sync: contact import failed", "name", gc.Name, "err", err)
				summary.Failed++
				continue
			}
			if created {
				summary.Created++
			} else {
				summary.Updated++
			}
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
		log.Debug("sync: fetched page", "so_far", summary.Fetched)
	}

	if err := db.UpdateSyncToken(database, ContactsService, nextSyncToken); err != nil {
		return fail(err)
	}
	return summary, nil
}

// convertPerson converts a People API Person to GoogleContact.
func convertPerson(person *people.Person) *GoogleContact {
	gc := &GoogleContact{ResourceName: person.ResourceName}

	if len(person.Names) > 0 {
		n := person.Names[0]
		gc.Name = strings.TrimSpace(n.DisplayName)
		gc.FirstName = n.GivenName
		gc.LastName = n.FamilyName
	}

	for _, email := range person.EmailAddresses {
		if email.Value == "" {
			continue
		}
		if gc.Email == "" {
			gc.Email = email.Value
		}
		if email.Metadata != nil && email.Metadata.Primary {
			gc.Email = email.Value
			break
		}
	}

	for _, phone := range person.PhoneNumbers {
		if phone.Value == "" {
			continue
		}
		if gc.Phone == "" {
			gc.Phone = phone.Value
		}
		if phone.Metadata != nil && phone.Metadata.Primary {
			gc.Phone = phone.Value
			break
		}
	}

	if len(person.Organizations) > 0 {
		org := person.Organizations[0]
		gc.Company = org.Name
		gc.JobTitle = org.Title
	}

	if len(person.Biographies) > 0 {
		gc.Notes = person.Biographies[0].Value
	}

	return gc
}
