package scrape

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/kpraghav/scripdesk/internal/config"
	"github.com/kpraghav/scripdesk/pkg/models"
	"github.com/kpraghav/scripdesk/pkg/utils"
)

// Extractor turns a company page into a Record Model.
type Extractor struct {
	fetcher *Fetcher
	log     *zap.Logger
}

// NewExtractor creates an Extractor backed by a configured Fetcher.
func NewExtractor(cfg config.ScraperConfig, log *zap.Logger) *Extractor {
	return &Extractor{
		fetcher: NewFetcher(cfg, log),
		log:     log,
	}
}

// Get validates the symbol, downloads its company page and extracts
// the Record Model. Validation happens before any network traffic.
func (e *Extractor) Get(ctx context.Context, rawSymbol string) (*models.RecordModel, error) {
	symbol, err := utils.ValidateSymbol(rawSymbol)
	if err != nil {
		return nil, err
	}

	markup, err := e.fetcher.FetchPage(ctx, symbol)
	if err != nil {
		return nil, err
	}

	model, err := Extract(markup, symbol)
	if err != nil {
		// Do not keep an unparseable page cached for the full TTL.
		e.fetcher.Forget(symbol)
		return nil, err
	}

	e.log.Info("extracted company page",
		zap.String("symbol", symbol),
		zap.Int("sections", len(model.Sections)))
	return model, nil
}

// Extract parses company page markup into a Record Model. The symbol
// must already be validated. Running it twice on the same markup
// produces equal models, key order included.
func Extract(markup, symbol string) (*models.RecordModel, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, &ParseError{Symbol: symbol, Reason: fmt.Sprintf("invalid markup: %v", err)}
	}

	model := &models.RecordModel{
		Symbol:   symbol,
		Identity: extractIdentity(doc),
		Metrics:  extractMetrics(doc),
	}

	model.Sections = extractSections(doc)

	if len(model.Sections) == 0 && model.Identity.Len() == 0 && model.Metrics.Len() == 0 {
		return nil, &ParseError{Symbol: symbol, Reason: "no recognizable sections in page"}
	}
	return model, nil
}

// extractIdentity pulls the company name and description. Both degrade
// to omission when the page lacks them.
func extractIdentity(doc *goquery.Document) *models.FactList {
	facts := models.NewFactList()

	if name := strings.TrimSpace(doc.Find("h1.company-name").First().Text()); name != "" {
		facts.Set(models.FactCompanyName, name)
	}
	if about := collapseSpace(doc.Find("div.about").First().Text()); about != "" {
		facts.Set(models.FactDescription, about)
	}
	return facts
}

// extractMetrics pulls the headline ratio list.
func extractMetrics(doc *goquery.Document) *models.FactList {
	facts := models.NewFactList()

	doc.Find("div.company-ratios li").Each(func(_ int, sel *goquery.Selection) {
		name := collapseSpace(sel.Find("span.name").Text())
		value := collapseSpace(sel.Find("span.number").Text())
		if name != "" && value != "" {
			facts.Set(name, value)
		}
	})
	return facts
}

// extractSections walks the page's <section> elements in document
// order. Duplicate titles merge facts into the first occurrence.
func extractSections(doc *goquery.Document) []models.Section {
	var sections []models.Section
	index := make(map[string]int)

	doc.Find("section").Each(func(_ int, sel *goquery.Selection) {
		title := sectionTitle(sel)
		if title == "" {
			return
		}

		tables := extractTables(sel)
		facts := extractPairs(sel)
		if len(tables) == 0 && facts.Len() == 0 {
			return
		}

		if i, ok := index[title]; ok {
			existing := &sections[i]
			for _, tb := range tables {
				tb.Name = fmt.Sprintf("Table_%d", len(existing.Tables)+1)
				existing.Tables = append(existing.Tables, tb)
			}
			existing.Facts.Merge(facts)
			return
		}

		index[title] = len(sections)
		sections = append(sections, models.Section{
			Title:  title,
			Tables: tables,
			Facts:  facts,
		})
	})

	return sections
}

// sectionTitle prefers the section heading, then the id attribute.
func sectionTitle(sel *goquery.Selection) string {
	if h := collapseSpace(sel.Find("h2").First().Text()); h != "" {
		return h
	}
	if id, ok := sel.Attr("id"); ok {
		return collapseSpace(id)
	}
	return ""
}

// extractTables collects the section's data tables in encounter order.
// The first row supplies the headers whether its cells are th or td,
// and data rows may mix th label cells with td values. A table whose
// first row has no cells, or with no data rows left after it, is
// dropped.
func extractTables(sel *goquery.Selection) []models.TabularBlock {
	var tables []models.TabularBlock

	sel.Find("table").Each(func(_ int, tbl *goquery.Selection) {
		trs := tbl.Find("tr")
		headers := cellTexts(trs.First())
		if len(headers) == 0 {
			return
		}

		var rows [][]string
		trs.Slice(1, trs.Length()).Each(func(_ int, tr *goquery.Selection) {
			if row := cellTexts(tr); len(row) > 0 {
				rows = append(rows, row)
			}
		})
		if len(rows) == 0 {
			return
		}

		block := models.TabularBlock{
			Name:    fmt.Sprintf("Table_%d", len(tables)+1),
			Headers: headers,
			Rows:    rows,
		}
		block.Normalize()
		tables = append(tables, block)
	})

	return tables
}

// cellTexts reads a row's th and td cells in document order.
func cellTexts(tr *goquery.Selection) []string {
	var cells []string
	tr.Find("th, td").Each(func(_ int, c *goquery.Selection) {
		cells = append(cells, collapseSpace(c.Text()))
	})
	return cells
}

// extractPairs collects two-span key/value rows into a fact list.
func extractPairs(sel *goquery.Selection) *models.FactList {
	facts := models.NewFactList()

	sel.Find(".flex-row").Each(func(_ int, row *goquery.Selection) {
		spans := row.Find("span")
		if spans.Length() < 2 {
			return
		}
		key := collapseSpace(spans.Eq(0).Text())
		value := collapseSpace(spans.Eq(1).Text())
		if key != "" && value != "" {
			facts.Set(strings.TrimSuffix(key, ":"), value)
		}
	})
	return facts
}

// collapseSpace trims and folds runs of whitespace into single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
