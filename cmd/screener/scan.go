package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/newthinker/screener/internal/dashboard"
	"github.com/newthinker/screener/internal/notify"
	"github.com/newthinker/screener/internal/render"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	bandColors = map[string]lipgloss.Color{
		render.BandExcellent: lipgloss.Color("#10B981"),
		render.BandGood:      lipgloss.Color("#3B82F6"),
		render.BandAverage:   lipgloss.Color("#F59E0B"),
		render.BandPoor:      lipgloss.Color("#EF4444"),
	}

	severityColors = map[notify.Severity]lipgloss.Color{
		notify.SeveritySuccess: lipgloss.Color("#10B981"),
		notify.SeverityDanger:  lipgloss.Color("#EF4444"),
		notify.SeverityWarning: lipgloss.Color("#F59E0B"),
		notify.SeverityInfo:    lipgloss.Color("#3B82F6"),
	}
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one scan and print the results",
	RunE:  runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	c, err := build()
	if err != nil {
		return err
	}
	defer c.log.Sync()

	scanErr := c.controller.StartScan(cmd.Context())
	printScan(os.Stdout, c.controller.Snapshot())
	return scanErr
}

// printScan writes the stats, the results table and the status line.
func printScan(w io.Writer, s dashboard.State) {
	fmt.Fprintln(w, titleStyle.Render("Stock Screening Results"))
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf(
		"Total stocks: %s  Meeting criteria: %s  Strong buys: %s  Last updated: %s",
		s.Stats.TotalStocks, s.Stats.MeetingCriteria, s.Stats.StrongBuys, s.Stats.LastUpdated)))

	if s.ResultsVisible {
		fmt.Fprintln(w, resultsTable(s.Rows))
	}
	if s.Status != nil {
		style := lipgloss.NewStyle().Foreground(severityColors[s.Status.Severity])
		fmt.Fprintln(w, style.Render(s.Status.Text))
	}
}

func resultsTable(rows []render.RowView) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6"))).
		Headers("Symbol", "Name", "Price", "Decline", "Fundamental", "Technical", "Overall", "Recommendation")

	if len(rows) == 0 {
		t.Row("", "No stocks found meeting the criteria", "", "", "", "", "", "")
	}
	for _, r := range rows {
		t.Row(r.DisplaySymbol, r.Name, r.Price, r.Decline,
			r.Fundamental.Text, r.Technical.Text, r.Overall.Text, r.Badge.Label)
	}

	t.StyleFunc(func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return headerStyle
		}
		if row < 0 || row >= len(rows) {
			return cellStyle
		}
		var cell render.ScoreCell
		switch col {
		case 4:
			cell = rows[row].Fundamental
		case 5:
			cell = rows[row].Technical
		case 6:
			cell = rows[row].Overall
		default:
			return cellStyle
		}
		return cellStyle.Foreground(bandColors[bandOf(cell)])
	})
	return t.String()
}

// bandOf recovers the band name from a score cell's CSS class.
func bandOf(cell render.ScoreCell) string {
	return strings.TrimPrefix(cell.Class, "score-")
}
