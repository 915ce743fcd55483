package xrservice

import (
	"errors"
	"time"

	"github.com/AlexZav1327/currency-converter/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	dateLayout    = "2006-01-02"
	ratePrecision = 6
)

var ErrWrongCurrency = errors.New("currency is not valid")

// usdCross holds units of each currency per one US dollar.
var usdCross = map[string]string{
	"USD": "1",
	"EUR": "0.92",
	"GBP": "0.79",
	"JPY": "149.50",
	"AUD": "1.53",
	"CAD": "1.36",
	"CHF": "0.8659",
	"CNY": "7.24",
	"INR": "83.12",
	"SGD": "1.34",
	"ZAR": "18.65",
}

type Rate struct {
	cross map[string]decimal.Decimal
	now   func() time.Time
	log   *logrus.Entry
}

func New(log *logrus.Logger) *Rate {
	cross := make(map[string]decimal.Decimal, len(usdCross))
	for code, v := range usdCross {
		cross[code] = decimal.RequireFromString(v)
	}

	return &Rate{
		cross: cross,
		now:   time.Now,
		log:   log.WithField("module", "xr_service"),
	}
}

// GetLatest returns the factors of every known currency against base.
func (r *Rate) GetLatest(base string) (models.ExchangeRateResponse, error) {
	basePerUSD, ok := r.cross[base]
	if !ok {
		return models.ExchangeRateResponse{}, ErrWrongCurrency
	}

	table := make(models.RateTable, len(r.cross))

	for code, perUSD := range r.cross {
		f, _ := perUSD.DivRound(basePerUSD, ratePrecision).Float64()
		table[code] = f
	}

	r.log.Debugf("served %d rates for %s", len(table), base)

	return models.ExchangeRateResponse{
		Base:  base,
		Date:  r.now().UTC().Format(dateLayout),
		Rates: table,
	}, nil
}
