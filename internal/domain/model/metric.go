package model

import "time"

// Metric is a cached dashboard computation keyed by type and range.
type Metric struct {
	Type       string
	Range      string
	Payload    []byte
	ComputedAt time.Time
}

// TrendDirection classifies a period-over-period change.
type TrendDirection string

const (
	TrendUp   TrendDirection = "up"
	TrendDown TrendDirection = "down"
	TrendFlat TrendDirection = "flat"
)

// Trend compares a metric value against the previous period.
type Trend struct {
	Absolute  float64
	Percent   float64
	Direction TrendDirection
}

// ShopMetrics aggregates completed orders over a reporting window.
type ShopMetrics struct {
	Revenue        float64
	OrderCount     int
	UnitsSold      int
	UnitsByProduct map[string]int
	RevenueTrend   Trend
	OrdersTrend    Trend
	WindowStart    time.Time
	WindowEnd      time.Time
}
