// ABOUTME: Contact deduplication and matching logic
// ABOUTME: Finds existing contacts by email, then by phone, to prevent duplicates during import
package sync

import (
	"strings"
	"unicode"

	"github.com/harperreed/callcoach/models"
)

type ContactMatcher struct {
	byEmail map[string]*models.Contact
	byPhone map[string]*models.Contact
}

// NewContactMatcher creates a matcher from existing contacts.
func NewContactMatcher(contacts []models.Contact) *ContactMatcher {
	m := &ContactMatcher{
		byEmail: make(map[string]*models.Contact),
		byPhone: make(map[string]*models.Contact),
	}
	for i := range contacts {
		m.AddContact(&contacts[i])
	}
	return m
}

// FindMatch looks for an existing contact by email, falling back to phone
// number. Cold-call lists often carry only a phone.
func (m *ContactMatcher) FindMatch(email, phone string) (*models.Contact, bool) {
	if normalized := normalizeEmail(email); normalized != "" {
		if contact, found := m.byEmail[normalized]; found {
			return contact, true
		}
	}
	if normalized := normalizePhone(phone); normalized != "" {
		if contact, found := m.byPhone[normalized]; found {
			return contact, true
		}
	}
	return nil, false
}

// AddContact adds a newly created contact to the matcher to prevent duplicates
// within the same import session.
func (m *ContactMatcher) AddContact(contact *models.Contact) {
	if email := normalizeEmail(contact.Email); email != "" {
		m.byEmail[email] = contact
	}
	if phone := normalizePhone(contact.Phone); phone != "" {
		m.byPhone[phone] = contact
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// normalizePhone keeps the last ten digits so "+1 (555) 010-2000" and
// "555.010.2000" compare equal. Fewer than seven digits never match.
func normalizePhone(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) < 7 {
		return ""
	}
	if len(d) > 10 {
		d = d[len(d)-10:]
	}
	return d
}

// extractDomain extracts domain from email address.
func extractDomain(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return ""
	}
	return parts[1]
}
