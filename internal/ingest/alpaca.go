package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"quantbt/internal/domain"
	"quantbt/internal/util"
)

// AlpacaSource fetches historical daily bars from the Alpaca market-data API
// and exposes them as a BarSeries.
type AlpacaSource struct {
	client  *marketdata.Client
	limiter *util.RateLimiter
	log     *slog.Logger
}

// NewAlpacaSource creates an AlpacaSource with the given credentials.
// dataURL may be empty to use the SDK default. Requests are rate limited to
// ratePerMin calls per minute.
func NewAlpacaSource(apiKey, apiSecret, dataURL string, ratePerMin int, log *slog.Logger) *AlpacaSource {
	opts := marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	}
	if dataURL != "" {
		opts.BaseURL = dataURL
	}

	return &AlpacaSource{
		client:  marketdata.NewClient(opts),
		limiter: util.NewRateLimiter(ratePerMin),
		log:     log.With("source", "alpaca"),
	}
}

// DailyBars fetches daily bars for symbol over [start, end] and returns them
// as a BarSeries in chronological order. Transient API failures are retried
// with backoff.
func (a *AlpacaSource) DailyBars(ctx context.Context, symbol string, start, end time.Time) (*domain.BarSeries, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var bars []marketdata.Bar
	err := util.Retry(ctx, 3, 500*time.Millisecond, func() error {
		var err error
		bars, err = a.client.GetBars(symbol, marketdata.GetBarsRequest{
			TimeFrame: marketdata.OneDay,
			Start:     start,
			End:       end,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("fetching daily bars for %s: %w", symbol, err)
	}

	series := &domain.BarSeries{}
	for _, b := range bars {
		series.Add(domain.Bar{
			Ts:     b.Timestamp.UnixMilli(),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: float64(b.Volume),
		})
	}

	a.log.Info("fetched daily bars", "symbol", symbol, "bars", series.Len())
	return series, nil
}
