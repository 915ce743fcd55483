package converter

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/AlexZav1327/currency-converter/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultFrom = "USD"
	DefaultTo   = "EUR"

	// maxExponent keeps amounts inside the float64 range.
	maxExponent = 300
)

var (
	ErrNoRatesLoaded   = errors.New("no rates loaded")
	ErrInvalidAmount   = errors.New("amount is not a valid non-negative number")
	ErrRateNotFound    = errors.New("rate not found")
	ErrStaleRates      = errors.New("rates do not match current base")
	ErrInvalidSide     = errors.New("side must be from or to")
	ErrInvalidCurrency = errors.New("currency code is invalid")
)

var currencyCode = regexp.MustCompile(`^[A-Z]{3}$`)

func NewSession(from, to string) (models.ConversionSession, error) {
	from, err := NormalizeCode(from)
	if err != nil {
		return models.ConversionSession{}, err
	}

	to, err = NormalizeCode(to)
	if err != nil {
		return models.ConversionSession{}, err
	}

	if from == to {
		return models.ConversionSession{}, fmt.Errorf("%w: from and to must differ", ErrInvalidCurrency)
	}

	return models.ConversionSession{
		ID:    uuid.New(),
		From:  from,
		To:    to,
		State: models.RatesPending,
	}, nil
}

func NormalizeCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !currencyCode.MatchString(code) {
		return "", ErrInvalidCurrency
	}

	return code, nil
}

// SetRates stores table as the rates of base. A table fetched for a base
// the session has since moved away from is rejected with ErrStaleRates.
func SetRates(session models.ConversionSession, base string, table models.RateTable) (
	models.ConversionSession, error,
) {
	if base != session.From {
		return session, ErrStaleRates
	}

	rates := make(models.RateTable, len(table))
	for code, rate := range table {
		rates[code] = rate
	}

	session.Base = base
	session.Rates = rates
	session.State = models.RatesReady

	return session, nil
}

// Convert multiplies amount by the rate of toCode. The result is not rounded.
func Convert(session models.ConversionSession, amount, toCode string) (models.Conversion, error) {
	if session.State != models.RatesReady || session.Rates == nil {
		return models.Conversion{}, ErrNoRatesLoaded
	}

	value, err := ParseAmount(amount)
	if err != nil {
		return models.Conversion{}, err
	}

	rate, ok := session.Rates[toCode]
	if !ok {
		return models.Conversion{}, fmt.Errorf("%w for %s", ErrRateNotFound, toCode)
	}

	if !finite(rate) {
		return models.Conversion{}, fmt.Errorf("%w for %s", ErrRateNotFound, toCode)
	}

	result := value.Mul(decimal.NewFromFloat(rate)).InexactFloat64()
	if !finite(result) {
		return models.Conversion{}, fmt.Errorf("%w: %q is out of range", ErrInvalidAmount, amount)
	}

	return models.Conversion{
		FromCode: session.Base,
		ToCode:   toCode,
		Amount:   value.InexactFloat64(),
		Result:   result,
		Rate:     rate,
	}, nil
}

func ParseAmount(amount string) (decimal.Decimal, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return decimal.Zero, ErrInvalidAmount
	}

	value, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}

	if value.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}

	if value.Exponent() > maxExponent || value.Exponent() < -maxExponent || !finite(value.InexactFloat64()) {
		return decimal.Zero, fmt.Errorf("%w: %q is out of range", ErrInvalidAmount, amount)
	}

	return value, nil
}

func finite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

// Swap exchanges the pair. Rates of the old base are dropped.
func Swap(session models.ConversionSession) models.ConversionSession {
	session.From, session.To = session.To, session.From

	return invalidate(session)
}

// SelectCurrency sets one side of the pair. When code collides with the
// other side, that side takes the previous value of the changed side. The
// returned flag reports whether the base changed and rates must be refetched.
func SelectCurrency(session models.ConversionSession, side models.Side, code string) (
	models.ConversionSession, bool, error,
) {
	code, err := NormalizeCode(code)
	if err != nil {
		return session, false, err
	}

	session.LastResult = nil

	switch side {
	case models.SideFrom:
		previous := session.From
		if code == previous {
			return session, false, nil
		}

		session.From = code
		if session.From == session.To {
			session.To = previous
		}

		return invalidate(session), true, nil
	case models.SideTo:
		previous := session.To
		session.To = code

		if session.To == session.From {
			session.From = previous

			return invalidate(session), true, nil
		}

		return session, false, nil
	default:
		return session, false, ErrInvalidSide
	}
}

func invalidate(session models.ConversionSession) models.ConversionSession {
	session.Base = ""
	session.Rates = nil
	session.State = models.RatesPending
	session.LastResult = nil

	return session
}
