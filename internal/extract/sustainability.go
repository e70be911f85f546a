package extract

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ddihora1604/IITK-ESG/internal/datasource"
	apperrors "github.com/ddihora1604/IITK-ESG/internal/errors"
	"github.com/ddihora1604/IITK-ESG/pkg/contracts/domain"
)

// involvementFields maps the provider's product involvement flags to
// their display names, in the order the sustainability page lists
// them.
var involvementFields = []struct {
	key  string
	name string
}{
	{"adult", "Adult Entertainment"},
	{"alcoholic", "Alcohol"},
	{"animalTesting", "Animal Testing"},
	{"controversialWeapons", "Controversial Weapons"},
	{"smallArms", "Small Arms"},
	{"furLeather", "Fur and Specialty Leather"},
	{"gambling", "Gambling"},
	{"gmo", "Genetic Engineering"},
	{"militaryContract", "Military Contracting"},
	{"nuclear", "Nuclear"},
	{"pesticides", "Pesticides"},
	{"palmOil", "Palm Oil"},
	{"coal", "Thermal Coal"},
	{"tobacco", "Tobacco"},
}

// Sustainability pulls the controversy level and the product
// involvement flags out of the sustainability page's bootstrap JSON.
func Sustainability(doc *goquery.Document) (*domain.Sustainability, error) {
	if doc == nil {
		return nil, apperrors.NewParseError("sustainability page is empty", nil)
	}

	result := &domain.Sustainability{}

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
							ESGScores map[string]json.RawMessage `json:"esgScores"`
						} `json:"QuoteSummaryStore"`
					} `json:"stores"`
				} `json:"dispatcher"`
			} `json:"context"`
		}
		if err := json.Unmarshal([]byte(m[1]), &payload); err != nil {
			return true
		}
		store := payload.Context.Dispatcher.Stores.QuoteSummaryStore.ESGScores
		if store == nil {
			return true
		}

		if raw, ok := store["controversyLevel"]; ok {
			var v datasource.RawValue
			if err := json.Unmarshal(raw, &v); err == nil {
				result.ControversyLevel = v.Raw
			}
		}
		for _, field := range involvementFields {
			raw, ok := store[field.key]
			if !ok {
				continue
			}
			var flag *bool
			if err := json.Unmarshal(raw, &flag); err != nil || flag == nil {
				continue
			}
			value := "No"
			if *flag {
				value = "Yes"
			}
			result.Involvement = append(result.Involvement, domain.InvolvementArea{
				Area:  field.name,
				Value: value,
			})
		}
		return false
	})

	if result.Empty() {
		return nil, apperrors.NewParseError("no sustainability data found on page", nil)
	}
	return result, nil
}
