package messages

import (
	"testing"

	"github.com/AlexZav1327/currency-converter/internal/models"
	"github.com/stretchr/testify/require"
)

func TestShareText(t *testing.T) {
	c := models.Conversion{FromCode: "USD", ToCode: "EUR", Amount: 100, Result: 92, Rate: 0.92}

	require.Equal(t, "Check out this conversion: €92.00", ShareText(c))
	require.Equal(t, "Check out this conversion: €92.00 (1 USD = 0.9200 EUR)", ShareDetails(c))

	c = models.Conversion{FromCode: "EUR", ToCode: "CHF", Result: 10.005, Rate: 0.9412345}
	require.Equal(t, "Check out this conversion: CHF 10.01 (1 EUR = 0.9412 CHF)", ShareDetails(c))
}
