package catalog

import (
	"strings"

	"github.com/AlexZav1327/currency-converter/internal/models"
)

const flagURLFmt = "https://flagcdn.com/w160/"

var entries = []models.CatalogEntry{
	header("POPULAR"),
	currency("USD", "United States Dollar", "us"),
	currency("EUR", "Euro", "eu"),
	currency("GBP", "British Pound Sterling", "gb"),
	currency("JPY", "Japanese Yen", "jp"),
	header("ALL CURRENCIES"),
	currency("AUD", "Australian Dollar", "au"),
	currency("CAD", "Canadian Dollar", "ca"),
	currency("CHF", "Swiss Franc", "ch"),
	currency("CNY", "Chinese Yuan", "cn"),
	currency("INR", "Indian Rupee", "in"),
	currency("SGD", "Singapore Dollar", "sg"),
	currency("ZAR", "South African Rand", "za"),
}

var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CAD": "$",
}

func header(title string) models.CatalogEntry {
	return models.CatalogEntry{Kind: models.EntryHeader, Title: title}
}

func currency(code, name, country string) models.CatalogEntry {
	return models.CatalogEntry{
		Kind:    models.EntryCurrency,
		Code:    code,
		Name:    name,
		FlagURL: flagURLFmt + country + ".png",
	}
}

// All returns the full catalog, headers interleaved with currencies.
func All() []models.CatalogEntry {
	all := make([]models.CatalogEntry, len(entries))
	copy(all, entries)

	return all
}

// Filter matches query against currency codes and names ignoring case.
// Headers never match; an empty query yields the full catalog.
func Filter(query string) []models.CatalogEntry {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return All()
	}

	filtered := make([]models.CatalogEntry, 0)

	for _, e := range entries {
		switch e.Kind {
		case models.EntryHeader:
			continue
		case models.EntryCurrency:
			if strings.Contains(strings.ToLower(e.Code), query) || strings.Contains(strings.ToLower(e.Name), query) {
				filtered = append(filtered, e)
			}
		}
	}

	return filtered
}

func Lookup(code string) (models.CatalogEntry, bool) {
	code = strings.ToUpper(code)

	for _, e := range entries {
		if e.Kind == models.EntryCurrency && e.Code == code {
			return e, true
		}
	}

	return models.CatalogEntry{}, false
}

// View describes a code for API responses. Codes outside the catalog keep
// the generic name and the US flag, as the mobile client did.
func View(code string) models.CurrencyView {
	e, ok := Lookup(code)
	if !ok {
		return models.CurrencyView{Code: code, Name: "Currency", FlagURL: flagURLFmt + "us.png"}
	}

	return models.CurrencyView{Code: e.Code, Name: e.Name, FlagURL: e.FlagURL}
}

func Symbol(code string) string {
	if code == "" {
		return "?"
	}

	if s, ok := symbols[code]; ok {
		return s
	}

	return code + " "
}
