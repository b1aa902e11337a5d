/*
Package tracing correlates the log lines of one client request.

Every HTTP request gets a span whose trace ID is echoed in the X-Trace-ID
response header. A voice client may send its own X-Trace-ID so commands from
one spoken session share a trace. The service registry uses the trace ID as
the request ID of the commands it runs, so provider logs carry it too.

Finished spans are buffered (1000) and logged by a collector goroutine at
debug level, or at error level when the span recorded an error.

# Usage

	tracer := tracing.New(logger)
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))

	span, ctx := tracer.StartSpan(ctx, "operation")
	defer func() {
		span.Finish()
		tracer.Submit(span)
	}()
*/
package tracing
