package converter

import (
	"strings"
	"testing"

	"github.com/AlexZav1327/currency-converter/internal/models"
	"github.com/stretchr/testify/require"
)

func readySession(t *testing.T, table models.RateTable) models.ConversionSession {
	t.Helper()

	session, err := NewSession("USD", "EUR")
	require.NoError(t, err)

	session, err = SetRates(session, "USD", table)
	require.NoError(t, err)

	return session
}

func TestNewSession(t *testing.T) {
	session, err := NewSession("usd", " eur ")
	require.NoError(t, err)
	require.Equal(t, "USD", session.From)
	require.Equal(t, "EUR", session.To)
	require.Equal(t, models.RatesPending, session.State)

	_, err = NewSession("USD", "USD")
	require.ErrorIs(t, err, ErrInvalidCurrency)

	_, err = NewSession("US", "EUR")
	require.ErrorIs(t, err, ErrInvalidCurrency)
}

func TestConvert(t *testing.T) {
	t.Run("normal case", func(t *testing.T) {
		session := readySession(t, models.RateTable{"EUR": 0.92})

		c, err := Convert(session, "100", "EUR")
		require.NoError(t, err)
		require.Equal(t, 92.0, c.Result)
		require.Equal(t, 0.92, c.Rate)
		require.Equal(t, "€92.00", FormatResult(c))
		require.Equal(t, "1 USD = 0.9200 EUR", FormatRate(c))
	})

	t.Run("multiplies amount by rate", func(t *testing.T) {
		session := readySession(t, models.RateTable{"JPY": 149.3125, "GBP": 0.79})

		for _, tc := range []struct {
			amount string
			to     string
			want   float64
		}{
			{"1", "JPY", 149.3125},
			{"2.5", "GBP", 1.975},
			{"0", "GBP", 0},
			{"1e3", "GBP", 790},
		} {
			c, err := Convert(session, tc.amount, tc.to)
			require.NoError(t, err)
			require.InDelta(t, tc.want, c.Result, 1e-9)
		}
	})

	t.Run("zero rate gives zero", func(t *testing.T) {
		session := readySession(t, models.RateTable{"XAU": 0})

		c, err := Convert(session, "250", "XAU")
		require.NoError(t, err)
		require.Zero(t, c.Result)
	})

	t.Run("invalid amounts", func(t *testing.T) {
		session := readySession(t, models.RateTable{"EUR": 0.92})

		for _, amount := range []string{"", "  ", "-1", "abc", "NaN", "1,5"} {
			_, err := Convert(session, amount, "EUR")
			require.ErrorIs(t, err, ErrInvalidAmount, amount)
		}
	})

	t.Run("amounts out of float range", func(t *testing.T) {
		session := readySession(t, models.RateTable{"EUR": 0.92})

		for _, amount := range []string{
			"1e400",
			"1e-2147483648",
			"1e2147483647",
			"0.5e-301",
			"1" + strings.Repeat("0", 400),
		} {
			_, err := Convert(session, amount, "EUR")
			require.ErrorIs(t, err, ErrInvalidAmount, amount)
		}
	})

	t.Run("result out of float range", func(t *testing.T) {
		session := readySession(t, models.RateTable{"EUR": 1e300})

		_, err := Convert(session, "1e200", "EUR")
		require.ErrorIs(t, err, ErrInvalidAmount)

		c, err := Convert(session, "2", "EUR")
		require.NoError(t, err)
		require.Equal(t, 2e300, c.Result)
	})

	t.Run("rate not found", func(t *testing.T) {
		session := readySession(t, models.RateTable{"EUR": 0.92})

		_, err := Convert(session, "10", "GBP")
		require.ErrorIs(t, err, ErrRateNotFound)
	})

	t.Run("no rates loaded", func(t *testing.T) {
		session, err := NewSession("USD", "EUR")
		require.NoError(t, err)

		_, err = Convert(session, "10", "EUR")
		require.ErrorIs(t, err, ErrNoRatesLoaded)
	})
}

func TestSetRates(t *testing.T) {
	session, err := NewSession("USD", "EUR")
	require.NoError(t, err)

	_, err = SetRates(session, "GBP", models.RateTable{"EUR": 1.15})
	require.ErrorIs(t, err, ErrStaleRates)

	table := models.RateTable{"EUR": 0.92}
	session, err = SetRates(session, "USD", table)
	require.NoError(t, err)
	require.Equal(t, models.RatesReady, session.State)

	table["EUR"] = 5
	require.Equal(t, 0.92, session.Rates["EUR"])
}

func TestSwap(t *testing.T) {
	session := readySession(t, models.RateTable{"EUR": 0.92})

	session = Swap(session)

	require.Equal(t, "EUR", session.From)
	require.Equal(t, "USD", session.To)
	require.Equal(t, models.RatesPending, session.State)
	require.Nil(t, session.Rates)

	_, err := Convert(session, "1", "USD")
	require.ErrorIs(t, err, ErrNoRatesLoaded)
}

func TestSelectCurrency(t *testing.T) {
	t.Run("from without collision refetches", func(t *testing.T) {
		session := readySession(t, models.RateTable{"EUR": 0.92})

		session, refetch, err := SelectCurrency(session, models.SideFrom, "GBP")
		require.NoError(t, err)
		require.True(t, refetch)
		require.Equal(t, "GBP", session.From)
		require.Equal(t, "EUR", session.To)
		require.Equal(t, models.RatesPending, session.State)
	})

	t.Run("from collision moves to onto old from", func(t *testing.T) {
		session := readySession(t, models.RateTable{"EUR": 0.92})

		session, refetch, err := SelectCurrency(session, models.SideFrom, "EUR")
		require.NoError(t, err)
		require.True(t, refetch)
		require.Equal(t, "EUR", session.From)
		require.Equal(t, "USD", session.To)
	})

	t.Run("same from is a no-op", func(t *testing.T) {
		session := readySession(t, models.RateTable{"EUR": 0.92})

		session, refetch, err := SelectCurrency(session, models.SideFrom, "usd")
		require.NoError(t, err)
		require.False(t, refetch)
		require.Equal(t, models.RatesReady, session.State)
	})

	t.Run("to without collision keeps rates", func(t *testing.T) {
		session := readySession(t, models.RateTable{"EUR": 0.92, "JPY": 150})

		session, refetch, err := SelectCurrency(session, models.SideTo, "JPY")
		require.NoError(t, err)
		require.False(t, refetch)
		require.Equal(t, "JPY", session.To)
		require.Equal(t, models.RatesReady, session.State)
	})

	t.Run("to collision moves from onto old to and refetches", func(t *testing.T) {
		session := readySession(t, models.RateTable{"EUR": 0.92})

		session, refetch, err := SelectCurrency(session, models.SideTo, "USD")
		require.NoError(t, err)
		require.True(t, refetch)
		require.Equal(t, "EUR", session.From)
		require.Equal(t, "USD", session.To)
		require.Equal(t, models.RatesPending, session.State)
	})

	t.Run("invalid input", func(t *testing.T) {
		session := readySession(t, models.RateTable{"EUR": 0.92})

		_, _, err := SelectCurrency(session, "middle", "GBP")
		require.ErrorIs(t, err, ErrInvalidSide)

		_, _, err = SelectCurrency(session, models.SideTo, "pounds")
		require.ErrorIs(t, err, ErrInvalidCurrency)
	})

	t.Run("pair never collapses", func(t *testing.T) {
		session, err := NewSession("USD", "EUR")
		require.NoError(t, err)

		codes := []string{"USD", "EUR", "GBP", "JPY", "EUR", "USD", "USD", "GBP"}
		sides := []models.Side{models.SideFrom, models.SideTo}

		for i, code := range codes {
			for _, side := range sides {
				session, _, err = SelectCurrency(session, side, code)
				require.NoError(t, err)
				require.NotEqual(t, session.From, session.To, "step %d side %s", i, side)
			}

			session = Swap(session)
			require.NotEqual(t, session.From, session.To)
		}
	})
}
