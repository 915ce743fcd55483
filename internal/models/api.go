package models

type CurrencyView struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	FlagURL string `json:"flagUrl"`
}

type ResponseSession struct {
	SessionID string       `json:"sessionId"`
	From      CurrencyView `json:"from"`
	To        CurrencyView `json:"to"`
	State     RatesState   `json:"state"`
}

type ResponseNewSession struct {
	Session ResponseSession `json:"session"`
	Token   string          `json:"token"`
}

type RequestSelectCurrency struct {
	Side Side   `json:"side"`
	Code string `json:"code"`
}

type RequestConvert struct {
	Amount string `json:"amount"`
	Save   bool   `json:"save"`
}

type ResponseConversion struct {
	FromCode   string  `json:"fromCode"`
	ToCode     string  `json:"toCode"`
	Amount     float64 `json:"amount"`
	Result     float64 `json:"result"`
	Rate       float64 `json:"rate"`
	ResultText string  `json:"resultText"`
	RateText   string  `json:"rateText"`
}

type ResponseNotification struct {
	Message string `json:"message"`
}
