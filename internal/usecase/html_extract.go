package usecase

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractItineraryText flattens an HTML body into the plain text the
// Navitas parser expects. Booking emails often carry each segment as a
// table row, so rows are re-joined cell by cell into a single line.
func ExtractItineraryText(htmlBody string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlBody))
	if err != nil {
		return htmlBody
	}

	doc.Find("script,style").Remove()

	lines := []string{}
	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := []string{}
		row.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
			text := strings.TrimSpace(cell.Text())
			if text != "" {
				cells = append(cells, text)
			}
		})
		if len(cells) > 0 {
			lines = append(lines, strings.Join(cells, " "))
		}
	})

	doc.Find("p,div,li,pre").Each(func(_ int, block *goquery.Selection) {
		if block.Closest("table").Length() > 0 {
			return
		}
		// Leaf blocks only, otherwise nested text repeats.
		if block.ChildrenFiltered("p,div,li,pre,table").Length() > 0 {
			return
		}
		text := strings.TrimSpace(block.Text())
		if text != "" {
			lines = append(lines, text)
		}
	})

	if len(lines) == 0 {
		return strings.TrimSpace(doc.Text())
	}
	return strings.Join(lines, "\n")
}
