// internal/telemetry/telemetry.go
package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
)

// ShutdownFunc flushes and stops a provider.
type ShutdownFunc func(context.Context) error

// Setup installs the tracer and meter providers. The returned func shuts
// both down.
func Setup(ctx context.Context, serviceName, endpoint string) (ShutdownFunc, error) {
	shutdownTracing, err := SetupTracing(ctx, serviceName, endpoint)
	if err != nil {
		return nil, err
	}
	shutdownMetrics, err := SetupMetrics(ctx, serviceName, endpoint)
	if err != nil {
		return nil, errors.Join(err, shutdownTracing(ctx))
	}

	return func(ctx context.Context) error {
		return errors.Join(shutdownMetrics(ctx), shutdownTracing(ctx))
	}, nil
}

func newResource(serviceName string) *resource.Resource {
	return resource.NewSchemaless(attribute.String("service.name", serviceName))
}
