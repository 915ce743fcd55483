package messages

import (
	"github.com/AlexZav1327/currency-converter/internal/converter"
	"github.com/AlexZav1327/currency-converter/internal/models"
)

const sharePrefix = "Check out this conversion: "

// ShareText is the plain-text summary handed to the share action.
func ShareText(c models.Conversion) string {
	return sharePrefix + converter.FormatResult(c)
}

// ShareDetails adds the pair and rate to the summary.
func ShareDetails(c models.Conversion) string {
	return ShareText(c) + " (" + converter.FormatRate(c) + ")"
}
