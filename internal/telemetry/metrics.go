package telemetry

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName = "github.com/wolfeidau/traba"
)

// Metrics holds all the OpenTelemetry metric instruments
type Metrics struct {
	// Registry metrics
	IndividualsCreatedTotal      metric.Int64Counter
	IndividualsDeletedTotal      metric.Int64Counter
	PlaceholdersSynthesizedTotal metric.Int64Counter
	ProgenitorsRegisteredTotal   metric.Int64Counter
	ParentLinksSetTotal          metric.Int64Counter

	// Cross metrics
	CrossesRegisteredTotal metric.Int64Counter

	// Resolver metrics
	TreesBuiltTotal   metric.Int64Counter
	TreeBuildDuration metric.Float64Histogram

	// Tenant metrics
	TenantsRegisteredTotal   metric.Int64Counter
	AuthenticationsFailTotal metric.Int64Counter
}

var (
	once    sync.Once
	metrics *Metrics
)

// GetMetrics returns the singleton Metrics instance, initializing it if necessary
func GetMetrics() *Metrics {
	once.Do(func() {
		metrics = initMetrics()
	})
	return metrics
}

// initMetrics creates and registers all metric instruments
func initMetrics() *Metrics {
	meter := otel.GetMeterProvider().Meter(meterName)

	m := &Metrics{}

	m.IndividualsCreatedTotal, _ = meter.Int64Counter(
		"traba.individuals.created.total",
		metric.WithDescription("Total number of individuals registered, placeholders included"),
		metric.WithUnit("{individual}"),
	)

	m.IndividualsDeletedTotal, _ = meter.Int64Counter(
		"traba.individuals.deleted.total",
		metric.WithDescription("Total number of individuals deleted"),
		metric.WithUnit("{individual}"),
	)

	m.PlaceholdersSynthesizedTotal, _ = meter.Int64Counter(
		"traba.individuals.placeholders.total",
		metric.WithDescription("Total number of placeholder ancestors synthesized"),
		metric.WithUnit("{individual}"),
	)

	m.ProgenitorsRegisteredTotal, _ = meter.Int64Counter(
		"traba.progenitors.registered.total",
		metric.WithDescription("Total number of progenitors attached to an existing individual"),
		metric.WithUnit("{individual}"),
	)

	m.ParentLinksSetTotal, _ = meter.Int64Counter(
		"traba.parentage.links.total",
		metric.WithDescription("Total number of parent roles written"),
		metric.WithUnit("{link}"),
	)

	m.CrossesRegisteredTotal, _ = meter.Int64Counter(
		"traba.crosses.registered.total",
		metric.WithDescription("Total number of inbreeding crosses recorded"),
		metric.WithUnit("{cross}"),
	)

	m.TreesBuiltTotal, _ = meter.Int64Counter(
		"traba.trees.built.total",
		metric.WithDescription("Total number of ancestry trees resolved"),
		metric.WithUnit("{tree}"),
	)

	m.TreeBuildDuration, _ = meter.Float64Histogram(
		"traba.trees.build.duration",
		metric.WithDescription("Duration of ancestry tree resolution"),
		metric.WithUnit("ms"),
	)

	m.TenantsRegisteredTotal, _ = meter.Int64Counter(
		"traba.tenants.registered.total",
		metric.WithDescription("Total number of tenants signed up"),
		metric.WithUnit("{tenant}"),
	)

	m.AuthenticationsFailTotal, _ = meter.Int64Counter(
		"traba.tenants.authentication.failures.total",
		metric.WithDescription("Total number of rejected tenant sign-in attempts"),
		metric.WithUnit("{attempt}"),
	)

	return m
}
