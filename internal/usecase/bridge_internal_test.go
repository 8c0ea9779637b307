package usecase

import "time"

// Bridge for external test package access to unexported helpers.
var MinorUnits = minorUnits

// SetMetricCacheNow overrides the cache clock for tests.
func SetMetricCacheNow(c *MetricCache, fn func() time.Time) { c.now = fn }

// SetMetricsNow overrides the metrics use case clock for tests.
func SetMetricsNow(u *MetricsUseCase, fn func() time.Time) { u.now = fn }
