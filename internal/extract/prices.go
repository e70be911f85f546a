package extract

import (
	"github.com/ddihora1604/IITK-ESG/internal/datasource"
	apperrors "github.com/ddihora1604/IITK-ESG/internal/errors"
	"github.com/ddihora1604/IITK-ESG/pkg/contracts/domain"
)

// Prices converts a chart result into price bars, preserving the
// provider's chronological order. Bars with no close value (halted
// days) are dropped; other missing fields default to zero.
func Prices(res *datasource.ChartResult) ([]domain.PriceBar, error) {
	if res == nil || len(res.Indicators.Quote) == 0 {
		return nil, apperrors.NewParseError("chart result has no quote series", nil)
	}

	quote := res.Indicators.Quote[0]
	bars := make([]domain.PriceBar, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		bar := domain.PriceBar{
			Date:  unixDate(ts),
			Close: *quote.Close[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			bar.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			bar.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			bar.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}
		bars = append(bars, bar)
	}

	if len(bars) == 0 {
		return nil, apperrors.NewParseError("chart result contains no usable bars", nil)
	}
	return bars, nil
}
