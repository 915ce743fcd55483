package models

// RateTable maps a target currency code to its factor against one base.
type RateTable map[string]float64

// ExchangeRateResponse is the body returned by the rate lookup service.
type ExchangeRateResponse struct {
	Base  string    `json:"base"`
	Date  string    `json:"date"`
	Rates RateTable `json:"rates"`
}
