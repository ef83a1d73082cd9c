// ABOUTME: Renders restoration runs for the terminal
// ABOUTME: Run summary panel, sweep and fragility tables, and best vs worst comparison

package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/markalston/grid-restore/internal/tui/icons"
	"github.com/markalston/grid-restore/internal/tui/styles"
	"github.com/markalston/grid-restore/internal/tui/widgets"
	"github.com/markalston/grid-restore/models"
)

// Summary renders one run: key figures, the power curve and final restoration
func Summary(result *models.RunResult, width int) string {
	if result == nil {
		return "No run data"
	}
	if width < 40 {
		width = 40
	}
	s := result.Summary
	o := s.Options

	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Grid Restoration: " + s.Scenario))
	sb.WriteString("\n")

	rows := [][2]string{
		{"Run", s.RunID},
		{"Strategy", Strategy(o)},
		{"Budget", Dollars(o.Budget) + "/day"},
		{"Delay", fmt.Sprintf("%d days", o.Delay)},
		{"Locations", humanize.Comma(int64(s.Locations))},
		{"Population", humanize.Comma(int64(math.Round(s.Population)))},
		{"Initial outage", Percent(s.InitialOutage)},
		{"Repair cost", Dollars(s.TotalRepairCost)},
		{"Naive repair time", fmt.Sprintf("%.1f days", s.EstimatedRepairDays)},
		{"Days to restore", DaysToRestore(s)},
		{"Total spent", Dollars(s.TotalSpent)},
	}
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%s %s\n", styles.KeyStyle.Render(fmt.Sprintf("%-18s", r[0])), styles.ValueStyle.Render(r[1])))
	}

	power := 1 - s.FinalOutage
	sb.WriteString("\n")
	sb.WriteString(styles.Subtitle.Render("Power restored over time"))
	sb.WriteString("\n")
	sb.WriteString(widgets.Sparkline(result.Timeline.PowerFractions(), width-8, 0, 1, styles.PowerColor(power)))
	sb.WriteString("\n\n")

	cfg := widgets.DefaultProgressBarConfig()
	cfg.Width = width - 32
	sb.WriteString(widgets.ProgressBarWithLabel(power*100, cfg))
	sb.WriteString(" ")
	sb.WriteString(statusLabel(s))

	return styles.Panel.Width(width).Render(sb.String())
}

func statusLabel(s models.RunSummary) string {
	if s.Converged {
		return styles.StatusOK.Render(icons.CheckOK.String() + " restored")
	}
	return styles.StatusCritical.Render(icons.Critical.String() + " " + s.Phase.String())
}

// SweepTable renders one row per run of a sweep
func SweepTable(summaries []models.RunSummary) string {
	headers := []string{"Scenario", "Method", "Sort", "Order", "Update", "Days", "Spent", "Status"}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		status := "restored"
		if !s.Converged {
			status = s.Phase.String()
		}
		rows = append(rows, []string{
			s.Scenario,
			s.Options.RestoreMethod.String(),
			s.Options.SortType.String(),
			s.Options.SortOrder.String(),
			fmt.Sprintf("%t", s.Options.SortUpdate),
			DaysToRestore(s),
			Dollars(s.TotalSpent),
			status,
		})
	}
	return staticTable(headers, rows)
}

// RunsTable renders stored runs with their identifiers
func RunsTable(summaries []models.RunSummary) string {
	headers := []string{"Run", "Scenario", "Strategy", "Budget", "Days", "Spent"}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.RunID,
			s.Scenario,
			Strategy(s.Options),
			Dollars(s.Options.Budget),
			DaysToRestore(s),
			Dollars(s.TotalSpent),
		})
	}
	return staticTable(headers, rows)
}

// FragilityRow is one asset class at one wind speed
type FragilityRow struct {
	Class       models.AssetClass
	Unit        string
	Intensity   float64
	Probability float64
}

// FragilityTable renders failure probabilities per asset class
func FragilityTable(speed models.WindSpeed, rows []FragilityRow) string {
	headers := []string{"Asset class", "Hazard", "Failure probability"}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			icons.ForClass(r.Class).String() + " " + r.Class.String(),
			fmt.Sprintf("%.2f %s", r.Intensity, r.Unit),
			fmt.Sprintf("%.4f", r.Probability),
		})
	}
	title := styles.Title.Render(fmt.Sprintf("Fragility at %.1f mph", speed.MPH()))
	return title + "\n" + staticTable(headers, out)
}

// staticTable renders a non-interactive bubbles table sized to its content
func staticTable(headers []string, rows [][]string) string {
	columns := make([]table.Column, len(headers))
	for i, h := range headers {
		w := lipgloss.Width(h)
		for _, r := range rows {
			if cw := lipgloss.Width(r[i]); cw > w {
				w = cw
			}
		}
		columns[i] = table.Column{Title: h, Width: w}
	}

	tableRows := make([]table.Row, len(rows))
	for i, r := range rows {
		tableRows[i] = table.Row(r)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(tableRows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+3),
	)

	st := table.DefaultStyles()
	st.Header = st.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Muted).
		BorderBottom(true).
		Bold(true)
	st.Selected = lipgloss.NewStyle()
	t.SetStyles(st)
	t.SetHeight(len(rows) + 3)

	return strings.TrimRight(t.View(), "\n ")
}

// Comparison renders the best and worst runs of a sweep side by side
func Comparison(best, worst *models.RunSummary, width int) string {
	if best == nil || worst == nil {
		return "No comparison data"
	}

	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Strategy Comparison"))
	sb.WriteString("\n")

	colWidth := (width - 4) / 2
	left := strings.Split(renderRun("Fastest", best), "\n")
	right := strings.Split(renderRun("Slowest", worst), "\n")
	n := max(len(left), len(right))
	for i := 0; i < n; i++ {
		var l, r string
		if i < len(left) {
			l = left[i]
		}
		if i < len(right) {
			r = right[i]
		}
		sb.WriteString(l + strings.Repeat(" ", max(0, colWidth-lipgloss.Width(l))) + "  " + r + "\n")
	}

	sb.WriteString("\n")
	sb.WriteString(styles.Subtitle.Render("Difference"))
	sb.WriteString("\n")
	if best.Converged && worst.Converged {
		days := worst.DaysToRestore - best.DaysToRestore
		sb.WriteString(fmt.Sprintf("  Days: %s\n", styles.StatusOK.Render(fmt.Sprintf("%d fewer", days))))
	} else {
		sb.WriteString(fmt.Sprintf("  Days: %s\n", styles.StatusWarning.Render("not comparable, a run did not converge")))
	}
	sb.WriteString(fmt.Sprintf("  Spent: %s\n", Dollars(worst.TotalSpent-best.TotalSpent)))

	return sb.String()
}

func renderRun(title string, s *models.RunSummary) string {
	var sb strings.Builder
	sb.WriteString(styles.Subtitle.Render(title))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Scenario: %s\n", s.Scenario))
	sb.WriteString(fmt.Sprintf("Strategy: %s\n", Strategy(s.Options)))
	sb.WriteString(fmt.Sprintf("Days: %s\n", DaysToRestore(*s)))
	sb.WriteString(fmt.Sprintf("Spent: %s", Dollars(s.TotalSpent)))
	return sb.String()
}

// Strategy describes the allocation and priority options of a run
func Strategy(o models.RunOptions) string {
	update := "static"
	if o.SortUpdate {
		update = "re-sorted daily"
	}
	return fmt.Sprintf("%s, %s %s, %s", o.RestoreMethod, o.SortType, o.SortOrder, update)
}

// DaysToRestore formats the restoration day, or "never" for failed runs
func DaysToRestore(s models.RunSummary) string {
	if s.DaysToRestore < 0 {
		return fmt.Sprintf("never (stopped at day %d)", s.DaysSimulated)
	}
	return fmt.Sprintf("%d", s.DaysToRestore)
}

// Dollars formats an amount with thousands separators
func Dollars(v float64) string {
	if v < 0 {
		return "-$" + humanize.Commaf(math.Round(-v))
	}
	return "$" + humanize.Commaf(math.Round(v))
}

// Percent formats a fraction as a percentage
func Percent(fraction float64) string {
	return fmt.Sprintf("%.1f%%", fraction*100)
}
