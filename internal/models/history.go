package models

type HistoryRecord struct {
	FromCode   string  `json:"fromCode"`
	ToCode     string  `json:"toCode"`
	FromAmount float64 `json:"fromAmount"`
	ToAmount   float64 `json:"toAmount"`
	Date       string  `json:"date"`
}
