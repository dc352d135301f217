// ABOUTME: Company CLI commands
// ABOUTME: Human-friendly commands for managing companies and the systems they run
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/harperreed/callcoach/db"
	"github.com/harperreed/callcoach/models"
)

// AddCompanyCommand adds a new company
func AddCompanyCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("add-company", flag.ExitOnError)
	name := fs.String("name", "", "Company name (required)")
	domain := fs.String("domain", "", "Company domain (e.g., mercy.org)")
	industry := fs.String("industry", "", "Industry")
	ehr := fs.String("ehr", "", "EHR system, e.g. Epic")
	dms := fs.String("dms", "", "Document management system, e.g. OnBase")
	volume := fs.String("volume", "", "Document volume, e.g. 2,000 pages a day")
	notes := fs.String("notes", "", "Notes about the company")
	_ = fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("--name is required")
	}

	company := &models.Company{
		Name:     *name,
		Domain:   *domain,
		Industry: *industry,
		EHR:      *ehr,
		DMS:      *dms,
		Volume:   *volume,
		Notes:    *notes,
	}

	if err := db.CreateCompany(database, company); err != nil {
		return fmt.Errorf("failed to create company: %w", err)
	}

	fmt.Printf("✓ Company created: %s (ID: %s)\n", company.Name, company.ID)
	if company.EHR != "" {
		fmt.Printf("  EHR: %s\n", company.EHR)
	}
	if company.DMS != "" {
		fmt.Printf("  DMS: %s\n", company.DMS)
	}

	return nil
}

// ListCompaniesCommand lists all companies
func ListCompaniesCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list-companies", flag.ExitOnError)
	query := fs.String("query", "", "Search by name, domain, EHR, or DMS")
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	companies, err := db.FindCompanies(database, *query, *limit)
	if err != nil {
		return fmt.Errorf("failed to find companies: %w", err)
	}

	if len(companies) == 0 {
		fmt.Println("No companies found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tEHR\tDMS\tVOLUME\tID")
	_, _ = fmt.Fprintln(w, "----\t---\t---\t------\t--")

	for _, company := range companies {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			company.Name, dash(company.EHR), dash(company.DMS), dash(company.Volume), company.ID.String()[:8])
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d company(ies)\n", len(companies))
	return nil
}

// UpdateCompanyCommand updates a company; flags come before the ID.
func UpdateCompanyCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("update-company", flag.ExitOnError)
	name := fs.String("name", "", "Company name")
	domain := fs.String("domain", "", "Company domain")
	industry := fs.String("industry", "", "Industry")
	ehr := fs.String("ehr", "", "EHR system")
	dms := fs.String("dms", "", "Document management system")
	volume := fs.String("volume", "", "Document volume")
	notes := fs.String("notes", "", "Notes")
	_ = fs.Parse(args)

	companyID, err := idArg(fs, "company")
	if err != nil {
		return err
	}

	company, err := db.GetCompany(database, companyID)
	if err != nil {
		return fmt.Errorf("failed to get company: %w", err)
	}
	if company == nil {
		return fmt.Errorf("company not found: %s", companyID)
	}

	setIf(&company.Name, *name)
	setIf(&company.Domain, *domain)
	setIf(&company.Industry, *industry)
	setIf(&company.EHR, *ehr)
	setIf(&company.DMS, *dms)
	setIf(&company.Volume, *volume)
	setIf(&company.Notes, *notes)

	if err := db.UpdateCompany(database, companyID, company); err != nil {
		return fmt.Errorf("failed to update company: %w", err)
	}

	fmt.Printf("✓ Company updated: %s (ID: %s)\n", company.Name, companyID)
	return nil
}

// DeleteCompanyCommand deletes a company; its contacts stay, unlinked.
func DeleteCompanyCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("delete-company", flag.ExitOnError)
	_ = fs.Parse(args)

	companyID, err := idArg(fs, "company")
	if err != nil {
		return err
	}

	if err := db.DeleteCompany(database, companyID); err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}

	fmt.Printf("✓ Company deleted: %s\n", companyID)
	return nil
}
