package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddihora1604/IITK-ESG/internal/datasource"
	apperrors "github.com/ddihora1604/IITK-ESG/internal/errors"
)

func TestESG(t *testing.T) {
	res := &datasource.ESGChartResult{
		SymbolSeries: datasource.ESGSeries{
			Timestamp: []int64{1672531200, 1704067200}, // 2023, 2024
			ESGScore:  []float64{18.2, 17.5},
		},
	}
	res.InstrumentInfo.ESGScores = datasource.ESGComponentScores{
		TotalESG:         rawValue(17.5),
		EnvironmentScore: rawValue(0.8),
		SocialScore:      rawValue(7.3),
		GovernanceScore:  rawValue(9.4),
		ControversyLevel: rawValue(3),
	}

	scores, err := ESG(res)
	require.NoError(t, err)

	require.NotNil(t, scores.TotalESG)
	assert.Equal(t, 17.5, *scores.TotalESG)
	require.NotNil(t, scores.Governance)
	assert.Equal(t, 9.4, *scores.Governance)
	assert.Equal(t, "esgChart API", scores.Source)

	// History comes back newest first.
	require.Len(t, scores.History, 2)
	assert.Equal(t, 17.5, scores.History[0].Score)
	assert.Equal(t, 18.2, scores.History[1].Score)
	assert.True(t, scores.History[0].Date.After(scores.History[1].Date))
}

func TestESG_NoData(t *testing.T) {
	tests := []struct {
		name string
		res  *datasource.ESGChartResult
	}{
		{name: "nil result", res: nil},
		{name: "empty result", res: &datasource.ESGChartResult{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ESG(tt.res)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
		})
	}
}

func TestESGFromPage_EmbeddedJSON(t *testing.T) {
	html := `<html><body>
<script>
root.App.main = {"context":{"dispatcher":{"stores":{"QuoteSummaryStore":{"esgScores":{"totalEsg":{"raw":21.3,"fmt":"21.3"},"environmentScore":{"raw":2.1},"socialScore":{"raw":8.8},"governanceScore":{"raw":10.4},"controversyLevel":{"raw":2}}}}}}};
</script>
</body></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	scores, err := ESGFromPage(doc)
	require.NoError(t, err)

	require.NotNil(t, scores.TotalESG)
	assert.Equal(t, 21.3, *scores.TotalESG)
	require.NotNil(t, scores.Environment)
	assert.Equal(t, 2.1, *scores.Environment)
	require.NotNil(t, scores.ControversyLevel)
	assert.Equal(t, 2.0, *scores.ControversyLevel)
	assert.Equal(t, "sustainability page", scores.Source)
}

func TestESGFromPage_DOMFallback(t *testing.T) {
	html := `<html><body>
<div data-test="esg-score">24.7</div>
</body></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	scores, err := ESGFromPage(doc)
	require.NoError(t, err)
	require.NotNil(t, scores.TotalESG)
	assert.Equal(t, 24.7, *scores.TotalESG)
}

func TestESGFromPage_NoScores(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body><p>nothing here</p></body></html>"))
	require.NoError(t, err)

	_, err = ESGFromPage(doc)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
}
