// Package model defines the core data types for the stock agent.
// Struct tags (`json:"..."` and `db:"..."`) tell serialization libraries
// how to map fields.
package model

import (
	"fmt"
	"time"
)

// Window is a fixed lookback period for price history fetches.
// The values match the Yahoo Finance `range` parameter.
type Window string

const (
	Window1D Window = "1d"  // spot price / ticker validation
	Window1M Window = "1mo" // trend chart and AI insight
)

// NotAvailable is shown for any profile field the data provider left empty.
const NotAvailable = "N/A"

// PricePoint is a single daily close.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// PriceHistory is an ordered (oldest first) sequence of closes.
type PriceHistory []PricePoint

// Empty reports whether the history has no data points.
func (h PriceHistory) Empty() bool { return len(h) == 0 }

// First returns the oldest close. Callers must check Empty first.
func (h PriceHistory) First() float64 { return h[0].Close }

// Last returns the most recent close. Callers must check Empty first.
func (h PriceHistory) Last() float64 { return h[len(h)-1].Close }

// PercentChange returns (end-start)/start*100 over the whole window.
// A zero start price yields 0 rather than Inf.
func (h PriceHistory) PercentChange() float64 {
	if h.Empty() || h.First() == 0 {
		return 0
	}
	return (h.Last() - h.First()) / h.First() * 100
}

// CompanyProfile holds descriptive metadata for a ticker.
// Every field is independently optional.
type CompanyProfile struct {
	Name         string   `json:"name"`
	Sector       string   `json:"sector"`
	Industry     string   `json:"industry"`
	MarketCapUSD *float64 `json:"market_cap_usd,omitempty"`
	Website      string   `json:"website"`
}

// MarketCapDisplay formats the market cap in billions, e.g. "$2891.37B".
func (p *CompanyProfile) MarketCapDisplay() string {
	if p.MarketCapUSD == nil || *p.MarketCapUSD == 0 {
		return NotAvailable
	}
	return fmt.Sprintf("$%.2fB", *p.MarketCapUSD/1e9)
}

// OrNA returns s, or NotAvailable when s is empty.
func OrNA(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}
