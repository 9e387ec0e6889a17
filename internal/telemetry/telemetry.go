package telemetry

import (
	"context"
	"ctchen222/tictactoe/internal/config"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// ShutdownFunc flushes and stops whatever Init started.
type ShutdownFunc func(context.Context) error

// Version is reported as the service version resource attribute.
var Version = "v0.1.0"

// Init initializes an OpenTelemetry SDK with traces, metrics and logs.
// With telemetry disabled it installs nothing and returns a no-op shutdown.
func Init(ctx context.Context, conf config.Telemetry) (ShutdownFunc, error) {
	if !conf.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	// --- Create shared resource ---
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(conf.ServiceName),
			semconv.ServiceVersion(Version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	var (
		traceOpts  = []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
		metricOpts = []metric.Option{metric.WithResource(res)}
		logOpts    = []sdklog.LoggerProviderOption{sdklog.WithResource(res)}
		conn       *grpc.ClientConn
	)

	// --- Setup stdout traces ---
	if conf.Stdout {
		stdoutTraceExporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout trace exporter: %w", err)
		}
		traceOpts = append(traceOpts, sdktrace.WithBatcher(stdoutTraceExporter))
	}

	// --- Setup OTLP over gRPC ---
	if conf.OTLPEndpoint != "" {
		conn, err = grpc.NewClient(conf.OTLPEndpoint,
			grpc.WithTransportCredentials(insecure.NewCredentials()),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create gRPC connection to OTLP collector: %w", err)
		}

		otlpTraceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
		if err != nil {
			return nil, errors.Join(fmt.Errorf("failed to create OTLP trace exporter: %w", err), conn.Close())
		}
		traceOpts = append(traceOpts, sdktrace.WithBatcher(otlpTraceExporter))

		otlpMetricExporter, err := otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithGRPCConn(conn))
		if err != nil {
			return nil, errors.Join(fmt.Errorf("failed to create OTLP metric exporter: %w", err), conn.Close())
		}
		metricOpts = append(metricOpts, metric.WithReader(metric.NewPeriodicReader(otlpMetricExporter)))

		otlpLogExporter, err := otlploggrpc.New(ctx, otlploggrpc.WithGRPCConn(conn))
		if err != nil {
			return nil, errors.Join(fmt.Errorf("failed to create OTLP log exporter: %w", err), conn.Close())
		}
		logOpts = append(logOpts, sdklog.WithProcessor(sdklog.NewBatchProcessor(otlpLogExporter)))
	}

	tp := sdktrace.NewTracerProvider(traceOpts...)
	otel.SetTracerProvider(tp)

	mp := metric.NewMeterProvider(metricOpts...)
	otel.SetMeterProvider(mp)

	lp := sdklog.NewLoggerProvider(logOpts...)
	global.SetLoggerProvider(lp)

	// --- Set Propagators ---
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	// --- Shutdown function ---
	shutdown := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		var errs []error
		if err := tp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown TracerProvider: %w", err))
		}
		if err := mp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown MeterProvider: %w", err))
		}
		if err := lp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown LoggerProvider: %w", err))
		}

		// Close the gRPC connection
		if conn != nil {
			if err := conn.Close(); err != nil {
				errs = append(errs, fmt.Errorf("failed to close gRPC connection: %w", err))
			}
		}

		return errors.Join(errs...)
	}

	return shutdown, nil
}
