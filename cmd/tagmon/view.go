package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/joshuapare/memtag/track"
	"github.com/joshuapare/memtag/track/printer"
)

// View renders the whole screen
func (m Model) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n"
	}
	if m.width == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	header := headerStyle.Render("tagmon - live allocation table monitor")
	grid := m.renderSlotGrid()
	tags := m.renderTagTable()
	body := lipgloss.JoinHorizontal(lipgloss.Top, grid, " ", tags)
	status := m.renderStatusBar()

	return lipgloss.JoinVertical(lipgloss.Left, header, body, status)
}

// slotGlyph picks the glyph and style for one table slot.
func (m Model) slotGlyph(d track.Descriptor, order map[track.Tag]int) string {
	if !d.Valid() {
		return emptySlotStyle.Render("·")
	}
	style := tagSlotStyles[order[d.Tag]%len(tagSlotStyles)]
	return style.Render("█")
}

// renderSlotGrid draws the slot table as a grid, one cell per slot, colored
// by tag. Holes show where frees landed; the dense prefix after a shrink is
// visible as a solid run.
func (m Model) renderSlotGrid() string {
	order := m.tagOrder()

	cols := m.width/2 - 8
	if cols < minGridWidth {
		cols = minGridWidth
	}

	var rows []string
	var row strings.Builder
	for i, d := range m.snap.Slots {
		row.WriteString(m.slotGlyph(d, order))
		if (i+1)%cols == 0 {
			rows = append(rows, row.String())
			row.Reset()
		}
	}
	if row.Len() > 0 {
		rows = append(rows, row.String())
	}

	title := paneTitleStyle.Render(fmt.Sprintf("Slots (%d/%d)", m.snap.Count, m.snap.Capacity()))
	content := title + "\n" + strings.Join(rows, "\n")
	return paneStyle.Render(content)
}

// tagStat aggregates live descriptors under one tag.
type tagStat struct {
	tag   track.Tag
	count int
	bytes int
}

// tagOrder assigns each live tag a stable index by first slot appearance,
// so a tag keeps its color while it has live allocations.
func (m Model) tagOrder() map[track.Tag]int {
	order := make(map[track.Tag]int)
	for _, d := range m.snap.Slots {
		if !d.Valid() {
			continue
		}
		if _, ok := order[d.Tag]; !ok {
			order[d.Tag] = len(order)
		}
	}
	return order
}

// renderTagTable aggregates live bytes per tag and draws the side table.
func (m Model) renderTagTable() string {
	order := m.tagOrder()

	stats := make([]tagStat, len(order))
	for tag, idx := range order {
		stats[idx].tag = tag
	}
	for _, d := range m.snap.Live() {
		s := &stats[order[d.Tag]]
		s.count++
		s.bytes += d.Size
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].bytes > stats[j].bytes })

	var b strings.Builder
	b.WriteString(paneTitleStyle.Render("Live bytes by tag"))
	b.WriteString("\n")
	b.WriteString(tableHeaderStyle.Render(fmt.Sprintf("%-6s %6s %10s", "TAG", "COUNT", "BYTES")))
	for _, s := range stats {
		style := tagSlotStyles[order[s.tag]%len(tagSlotStyles)]
		b.WriteString("\n")
		b.WriteString(style.Render(fmt.Sprintf("%-6s", printer.FormatTag(s.tag))))
		b.WriteString(fmt.Sprintf(" %6d %10d", s.count, s.bytes))
	}
	if len(stats) == 0 {
		b.WriteString("\n")
		b.WriteString(emptySlotStyle.Render("(no live allocations)"))
	}
	b.WriteString(fmt.Sprintf("\n\n%-6s %6d %10d", "total", m.snap.Count, m.snap.TotalSize))

	return paneStyle.Render(b.String())
}

// renderStatusBar draws the bottom line with counters and key hints.
func (m Model) renderStatusBar() string {
	state := "running"
	if m.paused {
		state = pausedStyle.Render("PAUSED")
	}

	left := fmt.Sprintf("%s | tick %s | %s ops/tick | allocs %s frees %s errs %d",
		state,
		statusCountStyle.Render(fmt.Sprintf("%d", m.ticks)),
		statusCountStyle.Render(fmt.Sprintf("%d", m.opsPerTick)),
		statusCountStyle.Render(fmt.Sprintf("%d", m.wl.allocs)),
		statusCountStyle.Render(fmt.Sprintf("%d", m.wl.frees)),
		m.wl.errs,
	)
	right := "space pause | s step | +/- speed | r reset | ? help | q quit"
	return statusStyle.Width(m.width).Render(left + "  " + right)
}

// renderHelp draws the full-screen help overlay.
func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(helpTitleStyle.Render("tagmon - keyboard shortcuts"))
	b.WriteString("\n\n")
	for _, group := range m.keys.FullHelp() {
		for _, binding := range group {
			b.WriteString(helpKeyStyle.Render(binding.Help().Key))
			b.WriteString(helpDescStyle.Render(binding.Help().Desc))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(helpDescStyle.Render("The grid shows one cell per table slot, colored by tag.\n"))
	b.WriteString(helpDescStyle.Render("Dots are empty slots; watch the table grow, fragment, and shrink.\n"))
	b.WriteString("\n")
	b.WriteString(helpDescStyle.Render("Press esc, ? or q to close this help."))
	return b.String()
}
