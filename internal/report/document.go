// Package report renders a Record Model into a paginated landscape
// PDF through an HTML intermediate and an external conversion engine.
package report

import (
	"time"

	"github.com/kpraghav/scripdesk/pkg/models"
)

// kvRow is one key/value line in a facts table.
type kvRow struct {
	Key   string
	Value string
}

// tableView is one data table ready for the template.
type tableView struct {
	Label   string
	Headers []string
	Rows    [][]string
}

// sectionView is a page-breaking report section.
type sectionView struct {
	Title  string
	Facts  []kvRow
	Tables []tableView
}

// documentView is the fully assembled template input. It is built once
// from the Record Model before any file I/O happens.
type documentView struct {
	Title       string
	CompanyName string
	Symbol      string
	GeneratedAt string
	Description string
	Metrics     []kvRow
	Sections    []sectionView
}

// buildDocument converts a Record Model into the renderable view.
// Identity and metrics form the first page; every other section starts
// on a new page.
func buildDocument(m *models.RecordModel, now time.Time) documentView {
	view := documentView{
		Symbol:      m.Symbol,
		CompanyName: m.CompanyName(),
		Description: m.Description(),
		GeneratedAt: now.Format("02 Jan 2006 15:04"),
	}
	if view.CompanyName == "" {
		view.CompanyName = "Company Report"
	}
	view.Title = view.CompanyName + " (" + m.Symbol + ")"

	if m.Metrics != nil {
		m.Metrics.Each(func(k, v string) {
			view.Metrics = append(view.Metrics, kvRow{Key: k, Value: v})
		})
	}

	for _, sec := range m.Sections {
		sv := sectionView{Title: sec.Title}
		if sec.Facts != nil {
			sec.Facts.Each(func(k, v string) {
				sv.Facts = append(sv.Facts, kvRow{Key: k, Value: v})
			})
		}
		for _, tb := range sec.Tables {
			if tb.Empty() {
				continue
			}
			sv.Tables = append(sv.Tables, tableView{
				Label:   tb.Name,
				Headers: tb.Headers,
				Rows:    tb.Rows,
			})
		}
		if len(sv.Facts) == 0 && len(sv.Tables) == 0 {
			continue
		}
		view.Sections = append(view.Sections, sv)
	}

	return view
}
