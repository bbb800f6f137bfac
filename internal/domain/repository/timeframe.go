package repository

import "time"

// Timeframe is a prediction horizon.
type Timeframe string

const (
	Timeframe1h  Timeframe = "1h"
	Timeframe24h Timeframe = "24h"
	Timeframe7d  Timeframe = "7d"
	Timeframe30d Timeframe = "30d"
)

// NormalizeTimeframe maps unknown inputs to the 24h default.
func NormalizeTimeframe(s string) Timeframe {
	switch Timeframe(s) {
	case Timeframe1h, Timeframe24h, Timeframe7d, Timeframe30d:
		return Timeframe(s)
	default:
		return Timeframe24h
	}
}

// Hours is the lookback window in hours.
func (tf Timeframe) Hours() int {
	switch tf {
	case Timeframe1h:
		return 1
	case Timeframe24h:
		return 24
	case Timeframe7d:
		return 168
	case Timeframe30d:
		return 720
	default:
		return 24
	}
}

// Multiplier scales the trend contribution with the horizon length.
func (tf Timeframe) Multiplier() float64 {
	switch tf {
	case Timeframe1h:
		return 0.1
	case Timeframe24h:
		return 1
	case Timeframe7d:
		return 3
	case Timeframe30d:
		return 5
	default:
		return 1
	}
}

// Duration is the horizon as a time.Duration, used for result expiry.
func (tf Timeframe) Duration() time.Duration {
	return time.Duration(tf.Hours()) * time.Hour
}
