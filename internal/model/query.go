package model

// Mode is the outcome of classifying a query.
type Mode string

const (
	ModeTicker  Mode = "ticker"  // one or more confirmed tickers
	ModeFinance Mode = "finance" // general finance question, answered by the LLM
	ModeReject  Mode = "reject"  // out of scope
)

// Classification carries the mode and, for ModeTicker, the confirmed
// tickers in first-seen order.
type Classification struct {
	Mode    Mode     `json:"mode"`
	Tickers []string `json:"tickers,omitempty"`
}
