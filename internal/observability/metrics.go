package observability

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("github.com/xdemocle/victorinox-tomato-knife-shop/internal/observability")

type instruments struct {
	requestDuration metric.Float64Histogram
	quotes          metric.Int64Counter
}

var (
	instrumentsOnce sync.Once
	inst            instruments
)

// Instrument creation only fails on invalid names; a failed instrument is
// replaced by a no-op so recording never panics.
func serverInstruments() instruments {
	instrumentsOnce.Do(func() {
		var err error
		inst.requestDuration, err = meter.Float64Histogram("http.server.request.duration",
			metric.WithUnit("s"),
			metric.WithDescription("Duration of HTTP server requests."),
		)
		if err != nil {
			otel.Handle(err)
		}
		inst.quotes, err = meter.Int64Counter("shop.price.quotes",
			metric.WithUnit("{quote}"),
			metric.WithDescription("Price quotes served, by currency and discount."),
		)
		if err != nil {
			otel.Handle(err)
		}
	})
	return inst
}

func recordRequest(ctx context.Context, method, route string, status int, elapsed time.Duration) {
	h := serverInstruments().requestDuration
	if h == nil {
		return
	}
	h.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.String("http.route", route),
		attribute.String("http.response.status_code", strconv.Itoa(status)),
	))
}

// RecordQuote counts a served price quote.
func RecordQuote(ctx context.Context, currency string, discounted bool) {
	c := serverInstruments().quotes
	if c == nil {
		return
	}
	c.Add(ctx, 1, metric.WithAttributes(
		attribute.String("currency", currency),
		attribute.Bool("discounted", discounted),
	))
}
