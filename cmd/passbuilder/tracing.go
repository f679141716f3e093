package main

import (
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// tracerName is the instrumentation scope of the command spans.
const tracerName = "github.com/hasbyte1/go-password-builder/cmd/passbuilder"

// newTracerProvider returns the provider used outside tests.  Spans are
// sampled but not exported; their IDs correlate the log lines of one run.
func newTracerProvider() trace.TracerProvider {
	return sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.AlwaysSample()))
}

// traceCommands runs every subcommand of root inside a span named after its
// command path.  The span is stored in the command context, and a failed
// command records its error on the span.
func traceCommands(root *cobra.Command, tp trace.TracerProvider) {
	tracer := tp.Tracer(tracerName, trace.WithInstrumentationVersion(version))

	for _, sub := range root.Commands() {
		run := sub.RunE
		if run == nil {
			continue
		}
		sub.RunE = func(cmd *cobra.Command, args []string) error {
			ctx, span := tracer.Start(cmd.Context(), cmd.CommandPath(),
				trace.WithAttributes(attribute.String("passbuilder.command", cmd.Name())),
			)
			defer span.End()
			cmd.SetContext(ctx)

			err := run(cmd, args)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}
			return err
		}
	}
}
