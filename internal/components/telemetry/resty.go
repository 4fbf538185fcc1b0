package telemetry

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/semconv/v1.13.0/httpconv"
	"go.opentelemetry.io/otel/trace"
)

const (
	report_resty_request  = "resty.request"
	report_resty_response = "resty.response"
	report_resty_metrics  = "resty.metrics"
)

type instrumentResty struct {
	tel       API
	tracer    trace.Tracer
	duration  metric.Float64Histogram
	idcounter *uint64
}

// InstrumentResty reports every request made by the client through tel and
// wraps it in an otel span. Spans and the duration histogram go to the
// global providers, which are no-ops unless Setup was called.
func InstrumentResty(client *resty.Client, tel API) {
	var idcounter uint64
	i := instrumentResty{
		tel:       tel,
		tracer:    otel.Tracer("inventory-adapter/transport"),
		idcounter: &idcounter,
	}

	duration, err := otel.Meter("inventory-adapter/transport").Float64Histogram(
		"http.client.duration",
		metric.WithUnit("ms"),
		metric.WithDescription("Duration of requests made to the inventory backend."),
	)
	if err != nil {
		tel.ReportBroken(report_resty_metrics, err)
	}
	i.duration = duration

	client.OnBeforeRequest(i.onBeforeRequest)
	client.OnAfterResponse(i.onAfterResponse)
	client.OnError(i.onError)
}

type reqCtxKeyType int

var reqCtxKey reqCtxKeyType

type reqCtx struct {
	id uint64
	// startTime does not need to rely on a wall clock, only on the difference
	// in time.
	startTime time.Time
}

func (i instrumentResty) onBeforeRequest(_ *resty.Client, req *resty.Request) error {
	start := time.Now()
	ctx, _ := i.tracer.Start(req.Context(), fmt.Sprintf("http %s", req.Method))

	id := atomic.AddUint64(i.idcounter, 1)
	ctx = context.WithValue(ctx, reqCtxKey, reqCtx{
		id:        id,
		startTime: start,
	})
	i.tel.ReportDebug(report_resty_request, id, req.Method, req.URL)

	req.SetContext(ctx)
	return nil
}

func (i instrumentResty) finish(ctx context.Context, status string) (reqCtx, time.Duration) {
	rc, ok := ctx.Value(reqCtxKey).(reqCtx)
	if !ok {
		return reqCtx{}, 0
	}
	duration := time.Since(rc.startTime)
	if i.duration != nil {
		i.duration.Record(
			ctx,
			float64(duration.Milliseconds()),
			metric.WithAttributes(attribute.String("outcome", status)),
		)
	}
	return rc, duration
}

func (i instrumentResty) onAfterResponse(_ *resty.Client, res *resty.Response) error {
	ctx := res.Request.Context()
	span := trace.SpanFromContext(ctx)
	defer span.End()

	if res.RawResponse != nil {
		span.SetAttributes(httpconv.ClientResponse(res.RawResponse)...)
	}
	if res.Request.RawRequest != nil {
		// RawRequest is still nil in onBeforeRequest
		span.SetAttributes(httpconv.ClientRequest(res.Request.RawRequest)...)
	}

	rc, duration := i.finish(ctx, "response")
	i.tel.ReportDebug(
		report_resty_response,
		rc.id,
		duration.String(),
		res.Status(),
	)
	return nil
}

func (i instrumentResty) onError(req *resty.Request, err error) {
	ctx := req.Context()
	span := trace.SpanFromContext(ctx)
	defer span.End()

	span.RecordError(err)
	span.SetStatus(codes.Error, "request failed")
	if req.RawRequest != nil {
		span.SetAttributes(httpconv.ClientRequest(req.RawRequest)...)
	}

	_, duration := i.finish(ctx, "error")
	i.tel.ReportBroken(
		report_resty_response,
		err,
		req.Method,
		req.URL,
		duration,
	)
}
