package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/collate"

	"github.com/joefazee/globeguide/internal/listing"
	"github.com/joefazee/globeguide/models"
)

// regionsPage survives a visit to a country's detail page so esc there
// returns to the same region.
type regionsPage struct {
	cursor   int
	selected models.Region
	member   int
}

func (m Model) regionStats() []listing.RegionStat {
	return listing.RegionStats(m.countries)
}

// regionMembers returns the countries of r ordered by name.
func (m Model) regionMembers(r models.Region) []models.Country {
	for _, st := range m.regionStats() {
		if st.Region == r {
			members := slices.Clone(st.Members)
			listing.Sort(members, listing.SortByName, listing.Ascending, collate.New(m.deps.Language))
			return members
		}
	}
	return nil
}

func (m Model) updateRegions(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.loading || m.err != nil {
		if key.Matches(msg, keys.Back) {
			return m.navigate(pageList)
		}
		return m, nil
	}
	if m.regions.selected != "" {
		return m.updateRegionMembers(msg)
	}

	r := &m.regions
	switch {
	case key.Matches(msg, keys.Back):
		return m.navigate(pageList)
	case key.Matches(msg, keys.Up):
		if r.cursor > 0 {
			r.cursor--
		}
	case key.Matches(msg, keys.Down):
		if r.cursor < len(models.Regions)-1 {
			r.cursor++
		}
	case key.Matches(msg, keys.Open):
		r.selected = models.Regions[r.cursor]
		r.member = 0
	}
	return m, nil
}

func (m Model) updateRegionMembers(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	r := &m.regions
	members := m.regionMembers(r.selected)
	switch {
	case key.Matches(msg, keys.Back):
		r.selected = ""
	case key.Matches(msg, keys.Up):
		if r.member > 0 {
			r.member--
		}
	case key.Matches(msg, keys.Down):
		if r.member < len(members)-1 {
			r.member++
		}
	case key.Matches(msg, keys.Open):
		if len(members) == 0 {
			return m, nil
		}
		return m.openDetail(members[min(r.member, len(members)-1)].Code())
	}
	return m, nil
}

func (m Model) viewRegions() string {
	switch {
	case m.loading:
		return "Loading countries…"
	case m.err != nil:
		return m.styles.Error.Render("Could not load countries: " + errorText(m.err))
	case m.regions.selected != "":
		return m.viewRegionMembers()
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Regions"))
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("  %-10s %9s %16s %8s %12s",
		"Region", "Countries", "Population", "Share", "Per km²")))
	b.WriteString("\n")
	for i, st := range m.regionStats() {
		row := fmt.Sprintf("%-10s %9d %16s %7s%% %12s",
			st.Region,
			st.Countries,
			m.deps.Formatter.Number(st.Population),
			st.Share.StringFixed(2),
			st.Density.StringFixed(2))
		if i == m.regions.cursor {
			row = m.styles.Selected.Render("› " + row)
		} else {
			row = "  " + row
		}
		b.WriteString(row)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(helpLine(keys.Up, keys.Down, keys.Open, keys.Back)))
	return b.String()
}

func (m Model) viewRegionMembers() string {
	members := m.regionMembers(m.regions.selected)

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(fmt.Sprintf("%s (%d)", m.regions.selected, len(members))))
	b.WriteString("\n")
	if len(members) == 0 {
		b.WriteString("No countries in this region.\n")
	}
	for i, c := range members {
		row := fmt.Sprintf("%-4s %-34s %16s", c.Code(), truncate(c.CommonName(), 34), m.deps.Formatter.Population(c.Population))
		if i == m.regions.member {
			row = m.styles.Selected.Render("› " + row)
		} else {
			row = "  " + row
		}
		b.WriteString(row)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(helpLine(keys.Up, keys.Down, keys.Open, keys.Back)))
	return b.String()
}
