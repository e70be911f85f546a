package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	apperrors "github.com/ddihora1604/IITK-ESG/internal/errors"
	"github.com/ddihora1604/IITK-ESG/pkg/contracts/domain"
)

// nonCompanyNameWords filters index/futures rows masquerading as peers
// on the sustainability page.
var nonCompanyNameWords = []string{
	"copyright", "future", "index", "dow jones", "s&p", "dax", "rights reserved",
}

// Peers scrapes the "ESG Risk Score for Peers" table from the
// sustainability page. The section is located by heading text, then
// each peer row is identified by its quote link.
func Peers(doc *goquery.Document, selfTicker string) ([]domain.PeerRecord, error) {
	if doc == nil {
		return nil, apperrors.NewParseError("sustainability page is empty", nil)
	}

	section := findPeerSection(doc)
	if section == nil {
		return nil, apperrors.NewParseError("no peer section found on sustainability page", nil)
	}

	var peers []domain.PeerRecord
	seen := map[string]bool{selfTicker: true}

	section.Find(`a[href*="/quote/"]`).Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		ticker := tickerFromQuoteHref(href)
		if ticker == "" || seen[ticker] || !isCompanyTicker(ticker) {
			return
		}

		row := peerRow(link)
		if row == nil {
			return
		}

		name := strings.TrimSpace(link.Text())
		if name == "" || name == ticker {
			row.Find("span, div").EachWithBreak(func(_ int, s *goquery.Selection) bool {
				if t := strings.TrimSpace(s.Text()); t != "" && t != ticker {
					name = t
					return false
				}
				return true
			})
		}
		if hasNonCompanyName(name) {
			return
		}

		record := domain.PeerRecord{Ticker: ticker, CompanyName: name}
		scores := peerScores(row)
		if len(scores) > 0 {
			record.TotalESG = scores[0]
		}
		if len(scores) > 1 {
			record.Environment = scores[1]
		}
		if len(scores) > 2 {
			record.Social = scores[2]
		}
		if len(scores) > 3 {
			record.Governance = scores[3]
		}

		seen[ticker] = true
		peers = append(peers, record)
	})

	if len(peers) == 0 {
		return nil, apperrors.NewParseError("peer section contains no usable rows", nil)
	}
	return peers, nil
}

// findPeerSection locates the peers block by its heading, walking up a
// few ancestors until the container holds multiple rows.
func findPeerSection(doc *goquery.Document) *goquery.Selection {
	var section *goquery.Selection

	doc.Find("h1, h2, h3, h4, div").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !strings.Contains(s.Text(), "ESG Risk Score for Peers") {
			return true
		}
		candidate := s.Parent()
		for i := 0; i < 3; i++ {
			if candidate.Find("tr, li").Length() > 0 || candidate.Find("div").Length() > 5 {
				break
			}
			candidate = candidate.Parent()
		}
		section = candidate
		return false
	})

	if section == nil {
		// Looser match: any section mentioning both ESG and peers with
		// enough rows to be a table.
		doc.Find("section, div").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := s.Text()
			if strings.Contains(text, "ESG") && strings.Contains(text, "Peer") &&
				s.Find("tr, li").Length() > 2 {
				section = s
				return false
			}
			return true
		})
	}

	return section
}

// peerRow walks up from a quote link to the row element carrying the
// peer's score cells.
func peerRow(link *goquery.Selection) *goquery.Selection {
	row := link.Parent()
	for i := 0; i < 3; i++ {
		if node := row.Get(0); node != nil {
			name := node.Data
			if (name == "tr" || name == "li" || name == "div") && row.Find("td, div, span").Length() >= 3 {
				return row
			}
		}
		row = row.Parent()
	}
	return row
}

// peerScores pulls the numeric cells of a peer row in document order.
// "--" cells become nil so partial rows survive.
func peerScores(row *goquery.Selection) []*float64 {
	var scores []*float64
	row.Find("td, span, div").Each(func(_ int, s *goquery.Selection) {
		if len(scores) >= 4 {
			return
		}
		text := strings.TrimSpace(s.Text())
		if text == "--" {
			scores = append(scores, nil)
			return
		}
		if v := parseNumber(text); v != nil && *v <= 100 && !strings.ContainsAny(text, " %$") {
			scores = append(scores, v)
		}
	})
	return scores
}

// tickerFromQuoteHref extracts the symbol from a /quote/ link.
func tickerFromQuoteHref(href string) string {
	idx := strings.Index(href, "/quote/")
	if idx < 0 {
		return ""
	}
	rest := href[idx+len("/quote/"):]
	for _, sep := range []string{"?", "/"} {
		if i := strings.Index(rest, sep); i >= 0 {
			rest = rest[:i]
		}
	}
	return strings.TrimSpace(rest)
}

// isCompanyTicker filters indices, futures and currency symbols.
func isCompanyTicker(ticker string) bool {
	return !strings.HasPrefix(ticker, "^") && !strings.Contains(ticker, "=")
}

func hasNonCompanyName(name string) bool {
	lower := strings.ToLower(name)
	for _, word := range nonCompanyNameWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}
