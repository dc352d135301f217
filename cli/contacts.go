// ABOUTME: Contact CLI commands
// ABOUTME: Human-friendly commands for managing contacts and their notes
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/harperreed/callcoach/db"
	"github.com/harperreed/callcoach/models"
)

// AddContactCommand adds a new contact.
func AddContactCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("add-contact", flag.ExitOnError)
	name := fs.String("name", "", "Full name (required unless --first is given)")
	first := fs.String("first", "", "First name")
	last := fs.String("last", "", "Last name")
	title := fs.String("title", "", "Job title, e.g. HIM Director")
	email := fs.String("email", "", "Email address")
	phone := fs.String("phone", "", "Phone number")
	company := fs.String("company", "", "Company name")
	org := fs.String("org", "", "Organization when it differs from the company")
	notes := fs.String("notes", "", "Notes about the contact")
	_ = fs.Parse(args)

	if *name == "" && *first == "" {
		return fmt.Errorf("--name is required")
	}

	contact := &models.Contact{
		Name:         *name,
		FirstName:    *first,
		LastName:     *last,
		Title:        *title,
		Email:        *email,
		Phone:        *phone,
		Organization: *org,
		Notes:        *notes,
	}

	if *company != "" {
		c, err := findOrCreateCompany(database, *company)
		if err != nil {
			return err
		}
		contact.CompanyID = &c.ID
	}

	if err := db.CreateContact(database, contact); err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	fmt.Printf("✓ Contact created: %s (ID: %s)\n", contact.DisplayName(), contact.ID)
	if contact.Title != "" {
		fmt.Printf("  Title: %s\n", contact.Title)
	}
	if contact.Phone != "" {
		fmt.Printf("  Phone: %s\n", contact.Phone)
	}
	if *company != "" {
		fmt.Printf("  Company: %s\n", *company)
	}

	return nil
}

func findOrCreateCompany(database *sql.DB, name string) (*models.Company, error) {
	existing, err := db.FindCompanyByName(database, name)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup company: %w", err)
	}
	if existing != nil {
		return existing, nil
	}
	company := &models.Company{Name: name}
	if err := db.CreateCompany(database, company); err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}
	return company, nil
}

// ListContactsCommand lists contacts.
func ListContactsCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list-contacts", flag.ExitOnError)
	query := fs.String("query", "", "Search by name, email, or organization")
	company := fs.String("company", "", "Filter by company name")
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	var companyIDPtr *uuid.UUID
	if *company != "" {
		existing, err := db.FindCompanyByName(database, *company)
		if err != nil {
			return fmt.Errorf("failed to lookup company: %w", err)
		}
		if existing == nil {
			fmt.Printf("No company named %s\n", *company)
			return nil
		}
		companyIDPtr = &existing.ID
	}

	contacts, err := db.FindContacts(database, *query, companyIDPtr, *limit)
	if err != nil {
		return fmt.Errorf("failed to find contacts: %w", err)
	}

	if len(contacts) == 0 {
		fmt.Println("No contacts found")
		return nil
	}

	companyNames := map[uuid.UUID]string{}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tTITLE\tPHONE\tCOMPANY\tLAST CALL\tID")
	_, _ = fmt.Fprintln(w, "----\t-----\t-----\t-------\t---------\t--")

	for _, contact := range contacts {
		companyName := "-"
		if contact.CompanyID != nil {
			name, ok := companyNames[*contact.CompanyID]
			if !ok {
				if c, err := db.GetCompany(database, *contact.CompanyID); err == nil && c != nil {
					name = c.Name
				}
				companyNames[*contact.CompanyID] = name
			}
			if name != "" {
				companyName = name
			}
		}

		lastCall := "never"
		if contact.LastContactedAt != nil {
			lastCall = contact.LastContactedAt.Format("2006-01-02")
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			contact.DisplayName(), dash(contact.Title), dash(contact.Phone), companyName, lastCall, contact.ID.String()[:8])
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d contact(s)\n", len(contacts))
	return nil
}

// UpdateContactCommand updates an existing contact.
func UpdateContactCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("update-contact", flag.ExitOnError)
	name := fs.String("name", "", "Full name")
	first := fs.String("first", "", "First name")
	last := fs.String("last", "", "Last name")
	title := fs.String("title", "", "Job title")
	email := fs.String("email", "", "Email address")
	phone := fs.String("phone", "", "Phone number")
	company := fs.String("company", "", "Company name")
	org := fs.String("org", "", "Organization")
	notes := fs.String("notes", "", "Notes about the contact")
	_ = fs.Parse(args)

	contactID, err := idArg(fs, "contact")
	if err != nil {
		return err
	}

	existing, err := db.GetContact(database, contactID)
	if err != nil {
		return fmt.Errorf("contact not found: %w", err)
	}
	if existing == nil {
		return fmt.Errorf("contact not found: %s", contactID)
	}

	setIf(&existing.Name, *name)
	setIf(&existing.FirstName, *first)
	setIf(&existing.LastName, *last)
	setIf(&existing.Title, *title)
	setIf(&existing.Email, *email)
	setIf(&existing.Phone, *phone)
	setIf(&existing.Organization, *org)
	setIf(&existing.Notes, *notes)

	if *company != "" {
		c, err := db.FindCompanyByName(database, *company)
		if err != nil {
			return fmt.Errorf("failed to lookup company: %w", err)
		}
		if c == nil {
			return fmt.Errorf("company not found: %s", *company)
		}
		existing.CompanyID = &c.ID
	}

	if err := db.UpdateContact(database, contactID, existing); err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}

	fmt.Printf("✓ Contact updated: %s (ID: %s)\n", existing.DisplayName(), contactID)
	return nil
}

// DeleteContactCommand deletes a contact with their notes and call history.
func DeleteContactCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("delete-contact", flag.ExitOnError)
	_ = fs.Parse(args)

	contactID, err := idArg(fs, "contact")
	if err != nil {
		return err
	}

	if err := db.DeleteContact(database, contactID); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	fmt.Printf("✓ Contact deleted: %s\n", contactID)
	return nil
}

// AddNoteCommand attaches a note to a contact. Lines like "dms: OnBase"
// feed the script context on the next render.
func AddNoteCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("add-note", flag.ExitOnError)
	text := fs.String("text", "", "Note text (required)")
	_ = fs.Parse(args)

	contactID, err := idArg(fs, "contact")
	if err != nil {
		return err
	}
	if *text == "" {
		return fmt.Errorf("--text is required")
	}

	contact, err := db.GetContact(database, contactID)
	if err != nil {
		return fmt.Errorf("failed to get contact: %w", err)
	}
	if contact == nil {
		return fmt.Errorf("contact not found: %s", contactID)
	}

	note := &models.Note{ContactID: contactID, Content: *text}
	if err := db.CreateNote(database, note); err != nil {
		return fmt.Errorf("failed to add note: %w", err)
	}

	fmt.Printf("✓ Note added for %s\n", contact.DisplayName())
	return nil
}

// ListNotesCommand prints a contact's notes, oldest first.
func ListNotesCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list-notes", flag.ExitOnError)
	_ = fs.Parse(args)

	contactID, err := idArg(fs, "contact")
	if err != nil {
		return err
	}

	notes, err := db.ListNotes(database, contactID)
	if err != nil {
		return fmt.Errorf("failed to list notes: %w", err)
	}
	if len(notes) == 0 {
		fmt.Println("No notes")
		return nil
	}

	for _, n := range notes {
		fmt.Printf("%s  %s\n", n.CreatedAt.Format("2006-01-02 15:04"), n.Content)
	}
	return nil
}

// idArg parses the first positional argument as a UUID.
func idArg(fs *flag.FlagSet, kind string) (uuid.UUID, error) {
	if fs.NArg() < 1 {
		return uuid.Nil, fmt.Errorf("%s ID is required", kind)
	}
	id, err := uuid.Parse(fs.Arg(0))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s ID: %w", kind, err)
	}
	return id, nil
}

func setIf(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
