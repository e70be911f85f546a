package extract

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ddihora1604/IITK-ESG/internal/datasource"
	apperrors "github.com/ddihora1604/IITK-ESG/internal/errors"
)

// QuoteSummaryFromPage pulls the embedded QuoteSummaryStore out of a
// quote page's bootstrap JSON. The financials page embeds the same
// modules the quoteSummary API serves, so this backs up the API for
// the statement categories when the endpoint is unavailable.
func QuoteSummaryFromPage(doc *goquery.Document) (*datasource.QuoteSummaryResult, error) {
	if doc == nil {
		return nil, apperrors.NewParseError("quote page is empty", nil)
	}

	var result *datasource.QuoteSummaryResult

	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if !strings.Contains(text, "root.App.main") {
			return true
		}
		m := appMainPattern.FindStringSubmatch(text)
		if m == nil {
			return true
		}

		var payload struct {
			Context struct {
				Dispatcher struct {
					Stores struct {
						QuoteSummaryStore *datasource.QuoteSummaryResult `json:"QuoteSummaryStore"`
					} `json:"stores"`
				} `json:"dispatcher"`
			} `json:"context"`
		}
		if err := json.Unmarshal([]byte(m[1]), &payload); err != nil {
			return true
		}
		result = payload.Context.Dispatcher.Stores.QuoteSummaryStore
		return false
	})

	if result == nil {
		return nil, apperrors.NewParseError("no quote summary store found on page", nil)
	}
	return result, nil
}
