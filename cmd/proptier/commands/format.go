package commands

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/wonny/proptier/internal/contracts"
	"github.com/wonny/proptier/internal/report"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// Every command writes through these helpers so output stays uniform
// ═══════════════════════════════════════════════════════════

const (
	doubleLine = "═══════════════════════════════════════════════════════════"
	singleLine = "───────────────────────────────────────────────────────────"
)

var (
	headingColor = color.New(color.FgYellow, color.Bold)
	successColor = color.New(color.FgGreen)
	warningColor = color.New(color.FgRed)
)

// PrintHeader prints a boxed title
func PrintHeader(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, doubleLine)
	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintln(w, doubleLine)
}

// PrintSection prints a coloured section heading
func PrintSection(w io.Writer, title string) {
	fmt.Fprintln(w)
	headingColor.Fprintln(w, title)
	fmt.Fprintln(w, singleLine)
}

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, message string) {
	fmt.Fprintln(w)
	successColor.Fprintf(w, "✅ %s\n", message)
}

// PrintWarning prints a warning message
func PrintWarning(w io.Writer, message string) {
	fmt.Fprintln(w)
	warningColor.Fprintf(w, "⚠️  %s\n", message)
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(w io.Writer, key string, value string, keyWidth int) {
	fmt.Fprintf(w, "   %-*s : %s\n", keyWidth, key, value)
}

// PrintComment prints a YAML comment line
func PrintComment(w io.Writer, message string) {
	fmt.Fprintf(w, "# %s\n", message)
}

// newTable returns a right-aligned table with the given header
func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	return table
}

// PrintInputs lists the input files with their hashes
func PrintInputs(w io.Writer, inputs []contracts.InputFile) {
	PrintSection(w, "Inputs")
	table := newTable(w, []string{"role", "path", "rows", "sha256"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, in := range inputs {
		table.Append([]string{in.Role, in.Path, strconv.Itoa(in.Rows), shortHash(in.SHA256)})
	}
	table.Render()
}

// PrintDiagnostics prints the join coverage report
func PrintDiagnostics(w io.Writer, d *contracts.JoinDiagnostics) {
	if d == nil {
		return
	}
	PrintSection(w, "Join coverage")
	PrintKeyValue(w, "Sales in", strconv.Itoa(d.InputCount), 22)
	PrintKeyValue(w, "Sales out", strconv.Itoa(d.OutputCount), 22)
	PrintKeyValue(w, "No area match", fmt.Sprintf("%d (%s)", d.MissingArea, percent(d.MissingAreaRate())), 22)
	PrintKeyValue(w, "Decile defaulted", fmt.Sprintf("%d (%s)", d.MissingDeprivation, percent(d.MissingDeprivationRate())), 22)
	PrintKeyValue(w, "Postcode links", strconv.Itoa(d.LinkCount), 22)
	PrintKeyValue(w, "Deprivation areas", strconv.Itoa(d.DeprivationCount), 22)
	if d.DuplicateLinks > 0 || d.ConflictingPostcodes > 0 || d.DuplicateDeprivation > 0 {
		PrintKeyValue(w, "Duplicate links", strconv.Itoa(d.DuplicateLinks), 22)
		PrintKeyValue(w, "Conflicting postcodes", strconv.Itoa(d.ConflictingPostcodes), 22)
		PrintKeyValue(w, "Duplicate areas", strconv.Itoa(d.DuplicateDeprivation), 22)
	}
}

// PrintTierCounts prints one row per tier, A first
func PrintTierCounts(w io.Writer, counts map[contracts.Tier]int, total int) {
	PrintSection(w, "Tier counts")
	table := newTable(w, []string{"tier", "count", "share"})
	tiers := contracts.AllTiers()
	for i := len(tiers) - 1; i >= 0; i-- {
		n := counts[tiers[i]]
		share := 0.0
		if total > 0 {
			share = float64(n) / float64(total)
		}
		table.Append([]string{tiers[i].String(), strconv.Itoa(n), percent(share)})
	}
	table.SetFooter([]string{"total", strconv.Itoa(total), ""})
	table.Render()
}

// PrintTierSummary prints the per-tier means
func PrintTierSummary(w io.Writer, s *report.Summary) {
	if s == nil || len(s.Tiers) == 0 {
		return
	}
	PrintSection(w, "Tier summary")
	table := newTable(w, []string{"tier", "count", "mean price", "median price", "mean decile", "mean composite"})
	for _, t := range s.Tiers {
		table.Append([]string{
			t.Tier.String(),
			strconv.Itoa(t.Count),
			money(t.MeanPrice),
			money(t.Price[2]),
			fmt.Sprintf("%.2f", t.MeanDecile),
			fmt.Sprintf("%.2f", t.MeanComposite),
		})
	}
	table.Render()
}

// PrintDistributions prints five-number summaries of price and decile per tier
func PrintDistributions(w io.Writer, s *report.Summary) {
	if s == nil || len(s.Tiers) == 0 {
		return
	}
	PrintSection(w, "Price distribution")
	prices := newTable(w, []string{"tier", "min", "q1", "median", "q3", "max"})
	for _, t := range s.Tiers {
		row := []string{t.Tier.String()}
		for _, v := range t.Price {
			row = append(row, money(v))
		}
		prices.Append(row)
	}
	prices.Render()

	PrintSection(w, "Deprivation decile distribution")
	deciles := newTable(w, []string{"tier", "min", "q1", "median", "q3", "max"})
	for _, t := range s.Tiers {
		row := []string{t.Tier.String()}
		for _, v := range t.Decile {
			row = append(row, fmt.Sprintf("%.1f", v))
		}
		deciles.Append(row)
	}
	deciles.Render()
}

// PrintCorrelation prints the correlation matrix
func PrintCorrelation(w io.Writer, m *report.Matrix) {
	if m == nil {
		return
	}
	PrintSection(w, "Correlation")
	table := newTable(w, append([]string{""}, m.Labels...))
	for i, label := range m.Labels {
		row := []string{label}
		for _, v := range m.Values[i] {
			row = append(row, coefficient(v))
		}
		table.Append(row)
	}
	table.Render()
}

// PrintAreas prints the best and worst areas by mean tier rank
// All areas are listed when there are no more than 2n of them.
func PrintAreas(w io.Writer, areas []report.AreaTier, n int) {
	if len(areas) == 0 || n <= 0 {
		return
	}
	ranked := make([]report.AreaTier, len(areas))
	copy(ranked, areas)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MeanTierRank > ranked[j].MeanTierRank
	})

	PrintSection(w, "Areas by mean tier rank")
	table := newTable(w, []string{"", "area", "mean tier rank", "sales"})
	appendArea := func(label string, a report.AreaTier) {
		table.Append([]string{label, a.AreaCode, fmt.Sprintf("%.2f", a.MeanTierRank), strconv.Itoa(a.Sales)})
	}
	if len(ranked) <= 2*n {
		for i, a := range ranked {
			appendArea(strconv.Itoa(i+1), a)
		}
	} else {
		for i := 0; i < n; i++ {
			appendArea("top", ranked[i])
		}
		for i := len(ranked) - n; i < len(ranked); i++ {
			appendArea("bottom", ranked[i])
		}
	}
	table.Render()
}

// PrintOutputs lists where the run was written
func PrintOutputs(w io.Writer, outputs []string, manifestPath string) {
	PrintSection(w, "Outputs")
	for _, out := range outputs {
		fmt.Fprintf(w, "   • %s\n", out)
	}
	if manifestPath != "" {
		fmt.Fprintf(w, "   • %s (manifest)\n", manifestPath)
	}
}

func percent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

func money(f float64) string {
	return "£" + strconv.FormatFloat(math.Round(f), 'f', 0, 64)
}

func coefficient(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.3f", v)
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
