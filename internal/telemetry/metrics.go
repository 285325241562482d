// internal/telemetry/metrics.go
package telemetry

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// SetupMetrics installs a global meter provider. Counters are exported
// periodically when endpoint is set; extra readers (a manual reader in tests)
// are attached as given.
func SetupMetrics(ctx context.Context, serviceName, endpoint string, readers ...sdkmetric.Reader) (ShutdownFunc, error) {
	opts := []sdkmetric.Option{sdkmetric.WithResource(newResource(serviceName))}
	if endpoint != "" {
		exporter, err := otlpmetrichttp.New(ctx,
			otlpmetrichttp.WithEndpoint(endpoint),
			otlpmetrichttp.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("create otlp metric exporter: %w", err)
		}
		opts = append(opts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)))
		log.WithField("endpoint", endpoint).Info("exporting metrics")
	}
	for _, r := range readers {
		opts = append(opts, sdkmetric.WithReader(r))
	}

	mp := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(mp)

	return mp.Shutdown, nil
}
