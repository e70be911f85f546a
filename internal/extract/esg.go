package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ddihora1604/IITK-ESG/internal/datasource"
	apperrors "github.com/ddihora1604/IITK-ESG/internal/errors"
	"github.com/ddihora1604/IITK-ESG/pkg/contracts/domain"
)

// ESG converts an esgChart result into ESG scores. A result with no
// series and no component scores is a parse failure so the aggregator
// can try the fallback source.
func ESG(res *datasource.ESGChartResult) (*domain.ESGScores, error) {
	if res == nil {
		return nil, apperrors.NewParseError("esgChart result is empty", nil)
	}

	scores := &domain.ESGScores{Source: "esgChart API"}
	components := res.InstrumentInfo.ESGScores
	scores.TotalESG = components.TotalESG.Raw
	scores.Environment = components.EnvironmentScore.Raw
	scores.Social = components.SocialScore.Raw
	scores.Governance = components.GovernanceScore.Raw
	scores.ControversyLevel = components.ControversyLevel.Raw

	series := res.SymbolSeries
	for i, ts := range series.Timestamp {
		if i >= len(series.ESGScore) {
			break
		}
		scores.History = append(scores.History, domain.ESGPoint{
			Date:  unixDate(ts),
			Score: series.ESGScore[i],
		})
	}

	// Newest first, matching the exported sheet.
	for i, j := 0, len(scores.History)-1; i < j; i, j = i+1, j-1 {
		scores.History[i], scores.History[j] = scores.History[j], scores.History[i]
	}

	if scores.Empty() {
		return nil, apperrors.NewParseError("esgChart result carries no scores", nil)
	}
	return scores, nil
}

// appMainPattern matches the embedded bootstrap JSON older quote pages
// ship in a script tag.
var appMainPattern = regexp.MustCompile(`root\.App\.main\s*=\s*(\{.*\})\s*;`)

// embeddedESGScores is the esgScores store inside the bootstrap JSON.
type embeddedESGScores struct {
	TotalESG         datasource.RawValue `json:"totalEsg"`
	EnvironmentScore datasource.RawValue `json:"environmentScore"`
	SocialScore      datasource.RawValue `json:"socialScore"`
	GovernanceScore  datasource.RawValue `json:"governanceScore"`
	ControversyLevel datasource.RawValue `json:"controversyLevel"`
}

// ESGFromPage scrapes ESG scores out of the sustainability page,
// first from the embedded bootstrap JSON and then from the score
// elements in the DOM.
func ESGFromPage(doc *goquery.Document) (*domain.ESGScores, error) {
	if doc == nil {
		return nil, apperrors.NewParseError("sustainability page is empty", nil)
	}

	scores := &domain.ESGScores{Source: "sustainability page"}

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
						QuoteSummaryStore struct {
							ESGScores *embeddedESGScores `json:"esgScores"`
						} `json:"QuoteSummaryStore"`
					} `json:"stores"`
				} `json:"dispatcher"`
			} `json:"context"`
		}
		if err := json.Unmarshal([]byte(m[1]), &payload); err != nil {
			return true
		}
		if esg := payload.Context.Dispatcher.Stores.QuoteSummaryStore.ESGScores; esg != nil {
			scores.TotalESG = esg.TotalESG.Raw
			scores.Environment = esg.EnvironmentScore.Raw
			scores.Social = esg.SocialScore.Raw
			scores.Governance = esg.GovernanceScore.Raw
			scores.ControversyLevel = esg.ControversyLevel.Raw
		}
		return false
	})

	// DOM fallback when the embedded JSON had nothing.
	if scores.TotalESG == nil {
		doc.Find(`div[data-test="esg-score"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if v := parseNumber(s.Text()); v != nil {
				scores.TotalESG = v
				return false
			}
			return true
		})
	}

	if scores.Empty() {
		return nil, apperrors.NewParseError("no ESG scores found on sustainability page", nil)
	}
	return scores, nil
}
