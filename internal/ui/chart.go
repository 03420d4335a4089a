package ui

import (
	"strconv"
	"strings"

	"github.com/five82/popview/internal/population"
)

const barGlyph = "█"

// chartRow is one laid-out bar: label, bar length in cells, value text.
type chartRow struct {
	Label string
	Bar   int
	Value string
}

// layoutChart scales points into rows that fit width cells. The longest bar
// belongs to the largest value; any non-zero value gets at least one cell.
func layoutChart(points []population.Point, width int) []chartRow {
	if len(points) == 0 {
		return nil
	}
	labelW, valueW, maxVal := 0, 0, 0
	values := make([]string, len(points))
	for i, p := range points {
		values[i] = FormatCount(p.Value)
		labelW = maxInt(labelW, len([]rune(p.Label)))
		valueW = maxInt(valueW, len(values[i]))
		maxVal = maxInt(maxVal, p.Value)
	}
	barW := width - labelW - valueW - 2
	if barW < 1 {
		barW = 1
	}

	rows := make([]chartRow, len(points))
	for i, p := range points {
		bar := 0
		if maxVal > 0 && p.Value > 0 {
			bar = int(int64(p.Value) * int64(barW) / int64(maxVal))
			if bar == 0 {
				bar = 1
			}
		}
		rows[i] = chartRow{
			Label: padLeft(p.Label, labelW),
			Bar:   bar,
			Value: values[i],
		}
	}
	return rows
}

// renderChart renders points as horizontal bars, one per year.
func (m Model) renderChart(points []population.Point, width int) string {
	styles := m.theme.Styles()
	if len(points) == 0 {
		return styles.MutedText.Render("Select a state to see its population by year.")
	}
	rows := layoutChart(points, width)
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = styles.MutedText.Render(r.Label) + " " +
			styles.Bar.Render(strings.Repeat(barGlyph, r.Bar)) + " " +
			styles.Text.Render(r.Value)
	}
	return strings.Join(lines, "\n")
}

// renderTable renders the year/population table for the details view.
func (m Model) renderTable(records []population.Record) string {
	styles := m.theme.Styles()
	if len(records) == 0 {
		return styles.MutedText.Render("No records.")
	}
	popW := len("Population")
	for _, r := range records {
		popW = maxInt(popW, len(FormatCount(r.Population)))
	}
	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render(padRight("Year", 6) + padLeft("Population", popW)))
	for _, r := range records {
		b.WriteString("\n")
		b.WriteString(styles.Text.Render(padRight(strconv.Itoa(r.Year), 6) + padLeft(FormatCount(r.Population), popW)))
	}
	return b.String()
}

// PlainChart renders points as unstyled text bars for non-interactive
// output, one "label bar value" line per point.
func PlainChart(points []population.Point, width int) string {
	rows := layoutChart(points, width)
	longest := 0
	for _, r := range rows {
		longest = maxInt(longest, r.Bar)
	}
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = r.Label + " " + padRight(strings.Repeat(barGlyph, r.Bar), longest) + " " + r.Value
	}
	return strings.Join(lines, "\n")
}
