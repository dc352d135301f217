// ABOUTME: Terminal dashboard statistics and rendering
// ABOUTME: Provides ASCII overview of call activity, script usage, and contacts to call back
package viz

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/callcoach/db"
	"github.com/harperreed/callcoach/models"
)

type DashboardStats struct {
	// Call activity
	Week  *db.CallStats
	Month *db.CallStats

	// Overall stats
	TotalContacts  int
	TotalCompanies int
	TotalScripts   int
	ActiveScripts  int

	// Most used authored content
	TopScripts []ScriptUsage

	// Needs attention
	StaleContacts []StaleContact
	FollowUps     []FollowUp
}

type ScriptUsage struct {
	Name        string
	SectionType string
	UsageCount  int
}

type StaleContact struct {
	Name      string
	DaysSince int
}

type FollowUp struct {
	Name     string
	CalledAt time.Time
}

func GenerateDashboardStats(database *sql.DB) (*DashboardStats, error) {
	now := time.Now()
	stats := &DashboardStats{}

	var err error
	stats.Week, err = db.GetCallStats(database, now.AddDate(0, 0, -7))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch weekly call stats: %w", err)
	}
	stats.Month, err = db.GetCallStats(database, now.AddDate(0, 0, -30))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch monthly call stats: %w", err)
	}

	contacts, err := db.FindContacts(database, "", nil, 10000)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contacts: %w", err)
	}
	stats.TotalContacts = len(contacts)

	companies, err := db.FindCompanies(database, "", 10000)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch companies: %w", err)
	}
	stats.TotalCompanies = len(companies)

	scripts, err := db.ListScripts(database, db.ScriptFilter{Limit: 10000})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scripts: %w", err)
	}
	stats.TotalScripts = len(scripts)
	for _, s := range scripts {
		if s.IsActive {
			stats.ActiveScripts++
		}
		if s.UsageCount > 0 {
			stats.TopScripts = append(stats.TopScripts, ScriptUsage{
				Name:        s.Name,
				SectionType: s.SectionType,
				UsageCount:  s.UsageCount,
			})
		}
	}
	sort.SliceStable(stats.TopScripts, func(i, j int) bool {
		return stats.TopScripts[i].UsageCount > stats.TopScripts[j].UsageCount
	})
	if len(stats.TopScripts) > 5 {
		stats.TopScripts = stats.TopScripts[:5]
	}

	// Contacts never called, or not called in 30+ days
	names := make(map[string]string, len(contacts))
	for _, contact := range contacts {
		names[contact.ID.String()] = contact.DisplayName()
		if contact.LastContactedAt == nil {
			stats.StaleContacts = append(stats.StaleContacts, StaleContact{
				Name:      contact.DisplayName(),
				DaysSince: -1,
			})
			continue
		}
		daysSince := int(now.Sub(*contact.LastContactedAt).Hours() / 24)
		if daysSince > 30 {
			stats.StaleContacts = append(stats.StaleContacts, StaleContact{
				Name:      contact.DisplayName(),
				DaysSince: daysSince,
			})
		}
	}

	// Latest call per contact that ended in follow_up
	calls, err := db.ListCallLogs(database, nil, 10000)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calls: %w", err)
	}
	seen := make(map[string]bool)
	for _, call := range calls {
		id := call.ContactID.String()
		if seen[id] {
			continue
		}
		seen[id] = true
		if call.Outcome == models.OutcomeFollowUp {
			stats.FollowUps = append(stats.FollowUps, FollowUp{Name: names[id], CalledAt: call.CalledAt})
		}
	}

	return stats, nil
}

func RenderDashboard(stats *DashboardStats) string {
	var out strings.Builder

	// Header
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString("  CALLCOACH DASHBOARD\n")
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	// Calls
	out.WriteString("CALLS (LAST 30 DAYS)\n")
	renderOutcomes(&out, stats.Month.ByOutcome)
	out.WriteString(fmt.Sprintf("\n  📞 %d this week  📅 %d meetings  🔗 %.0f%% connect rate\n\n",
		stats.Week.Total, stats.Month.Meetings, stats.Month.ConnectRate()*100))

	// Stats
	out.WriteString("LIBRARY\n")
	out.WriteString(fmt.Sprintf("  📇 %d contacts  🏢 %d companies  📜 %d/%d scripts active\n\n",
		stats.TotalContacts, stats.TotalCompanies, stats.ActiveScripts, stats.TotalScripts))

	if len(stats.TopScripts) > 0 {
		out.WriteString("MOST USED SCRIPTS\n")
		for _, s := range stats.TopScripts {
			out.WriteString(fmt.Sprintf("  %3d  %s (%s)\n", s.UsageCount, s.Name, s.SectionType))
		}
		out.WriteString("\n")
	}

	// Needs attention
	if len(stats.StaleContacts) > 0 || len(stats.FollowUps) > 0 {
		out.WriteString("NEEDS ATTENTION\n")

		if len(stats.FollowUps) > 0 {
			out.WriteString(fmt.Sprintf("  ⚠️  %d contacts waiting on a follow-up call\n", len(stats.FollowUps)))
		}

		if len(stats.StaleContacts) > 0 {
			out.WriteString(fmt.Sprintf("  ⚠️  %d contacts - no call in 30+ days\n", len(stats.StaleContacts)))
		}
	}

	return out.String()
}

func renderOutcomes(out *strings.Builder, byOutcome map[string]int) {
	outcomes := []string{
		models.OutcomeConnected,
		models.OutcomeMeetingSet,
		models.OutcomeFollowUp,
		models.OutcomeNotInterest,
		models.OutcomeVoicemail,
		models.OutcomeNoAnswer,
	}

	// Find max count for scaling
	maxCount := 0
	for _, n := range byOutcome {
		if n > maxCount {
			maxCount = n
		}
	}
	if maxCount == 0 {
		out.WriteString("  no calls logged\n")
		return
	}

	for _, outcome := range outcomes {
		n := byOutcome[outcome]
		barLength := (n * 10) / maxCount
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", 10-barLength)
		out.WriteString(fmt.Sprintf("  %-15s %s  %3d\n", outcome, bar, n))
	}
}
