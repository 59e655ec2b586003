package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/wemitwqw/calorie-tracker-go/internal/models"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.stores.Sessions.Loading() {
		return m.styles.Dim.Render("Checking session…")
	}
	if m.stores.Sessions.Session() == nil {
		return m.signedOutView()
	}
	if m.mode == modeFormMeal || m.mode == modeFormProduct || m.mode == modeFormEmail {
		return m.chrome(m.form.view())
	}

	switch m.tab {
	case TabProducts:
		return m.chrome(m.productsView())
	case TabWhitelist:
		return m.chrome(m.whitelistView())
	default:
		return m.chrome(m.diaryView())
	}
}

func (m Model) signedOutView() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Calorie Tracker") + "\n\n")
	if m.signInURL == "" {
		b.WriteString("Not signed in.\n\n")
		b.WriteString(m.styles.Help.Render("s: sign in · q: quit"))
	} else {
		b.WriteString("Open this URL in your browser to sign in:\n\n")
		b.WriteString(m.styles.Marked.Render(m.signInURL) + "\n\n")
		b.WriteString(m.styles.Dim.Render("Waiting for the redirect…"))
	}
	if m.errText != "" {
		b.WriteString("\n\n" + m.styles.Error.Render(m.errText))
	}
	return b.String()
}

func (m Model) chrome(body string) string {
	tabs := []string{"Diary", "Products"}
	if m.stores.Sessions.IsAdmin() {
		tabs = append(tabs, "Whitelist")
	}
	var header strings.Builder
	for i, name := range tabs {
		style := m.styles.Tab
		if Tab(i) == m.tab {
			style = m.styles.TabOn
		}
		header.WriteString(style.Render(name))
	}

	var footer string
	if m.errText != "" {
		footer = m.styles.Error.Render(m.errText)
	} else {
		footer = m.styles.Help.Render("tab: switch · a: add · d: delete · r: reload · o: sign out · q: quit")
	}
	return header.String() + "\n\n" + body + "\n\n" + footer
}

func (m Model) diaryView() string {
	var b strings.Builder
	selected := m.stores.Dates.Selected()

	b.WriteString(m.styles.Title.Render(humanDate(selected)) + "\n")
	b.WriteString(m.calendarStrip(selected) + "\n\n")

	meals := m.stores.Meals.Meals()
	if len(meals) == 0 {
		b.WriteString(m.styles.Dim.Render("No meals logged for this day.") + "\n")
	}
	for i, meal := range meals {
		line := fmt.Sprintf("%-24s %6.0f kcal  P %.0f  C %.0f  F %.0f",
			meal.Name, meal.Calories, meal.Protein, meal.Carbs, meal.Fat)
		if i == m.cursor {
			line = m.styles.Selected.Render(line)
		}
		b.WriteString(line + "\n")
	}

	totals := m.stores.Meals.DailyTotals()
	b.WriteString("\n" + m.styles.Totals.Render(fmt.Sprintf(
		"Total: %.0f kcal · protein %.1f g · carbs %.1f g · fat %.1f g · fiber %.1f g",
		totals.Calories, totals.Protein, totals.Carbs, totals.Fat, totals.Fiber)))
	return b.String()
}

// calendarStrip shows the selected day in a one-week window, with logged
// days highlighted.
func (m Model) calendarStrip(selected string) string {
	day, err := time.ParseInLocation(models.DateLayout, selected, time.Local)
	if err != nil {
		return ""
	}
	var cells []string
	for offset := -3; offset <= 3; offset++ {
		d := day.AddDate(0, 0, offset)
		key := d.Format(models.DateLayout)
		cell := d.Format("Mon 02")
		switch {
		case offset == 0:
			cell = m.styles.Selected.Render(cell)
		case m.stores.Dates.IsMarked(key):
			cell = m.styles.Marked.Render(cell)
		default:
			cell = m.styles.Dim.Render(cell)
		}
		cells = append(cells, cell)
	}
	return strings.Join(cells, "  ")
}

func (m Model) productsView() string {
	var b strings.Builder
	query := m.stores.Products.SearchQuery()
	if m.mode == modeSearch {
		b.WriteString("Search: " + query + "▌\n\n")
	} else if query != "" {
		b.WriteString(m.styles.Dim.Render("Search: "+query+"  (/ to edit)") + "\n\n")
	} else {
		b.WriteString(m.styles.Dim.Render("/ to search") + "\n\n")
	}

	products := m.stores.Products.Filtered()
	if len(products) == 0 {
		b.WriteString(m.styles.Dim.Render("No products.") + "\n")
	}
	for i, p := range products {
		line := fmt.Sprintf("%-24s %6.0f kcal per %.0f %s", p.Name, p.Calories, p.ServingSize, p.ServingUnit)
		if i == m.cursor && m.mode == modeNormal {
			line = m.styles.Selected.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m Model) whitelistView() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Allowed emails") + "\n\n")

	entries := m.stores.Whitelist.Entries()
	if len(entries) == 0 {
		b.WriteString(m.styles.Dim.Render("Whitelist is empty.") + "\n")
	}
	for i, entry := range entries {
		notes := ""
		if entry.Notes != nil {
			notes = "  — " + *entry.Notes
		}
		line := fmt.Sprintf("%-32s %s%s", entry.Email, entry.AddedAt.Format("2006-01-02"), notes)
		if i == m.cursor {
			line = m.styles.Selected.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func humanDate(key string) string {
	if key == models.Today() {
		return "Today · " + key
	}
	return key
}
