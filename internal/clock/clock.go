package clock

import "time"

// NowFunc returns current time. Override in tests for determinism.
var NowFunc = time.Now

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }

// Unix returns the current time as fractional seconds since the epoch, the
// resolution event timestamps are published with.
func Unix() float64 { return float64(NowFunc().UnixNano()) / float64(time.Second) }
