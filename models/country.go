package models

import (
	"strings"
)

// Region is one of the fixed continental groupings reported by the country source.
type Region string

const (
	RegionAfrica    Region = "Africa"
	RegionAmericas  Region = "Americas"
	RegionAsia      Region = "Asia"
	RegionEurope    Region = "Europe"
	RegionOceania   Region = "Oceania"
	RegionAntarctic Region = "Antarctic"
)

// Regions lists every region in display order.
var Regions = []Region{
	RegionAfrica,
	RegionAmericas,
	RegionAsia,
	RegionEurope,
	RegionOceania,
	RegionAntarctic,
}

// ParseRegion matches s against the known regions ignoring case.
func ParseRegion(s string) (Region, error) {
	s = strings.TrimSpace(s)
	for _, r := range Regions {
		if strings.EqualFold(string(r), s) {
			return r, nil
		}
	}
	return "", ErrInvalidRegion
}

// CountryName holds the display names of a country.
type CountryName struct {
	Common   string `json:"common"`
	Official string `json:"official"`
}

// Currency describes one accepted currency.
type Currency struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol,omitempty"`
}

// ImageSet holds references to the same image in several formats.
type ImageSet struct {
	PNG string `json:"png,omitempty"`
	SVG string `json:"svg,omitempty"`
	Alt string `json:"alt,omitempty"`
}

// Country is an immutable record as returned by the country source.
// Optional numeric fields are pointers so that a missing value can be told
// apart from zero.
type Country struct {
	Name       CountryName         `json:"name"`
	Cca2       string              `json:"cca2,omitempty"`
	Cca3       string              `json:"cca3"`
	Capital    []string            `json:"capital,omitempty"`
	Region     Region              `json:"region,omitempty"`
	Subregion  string              `json:"subregion,omitempty"`
	Population *int64              `json:"population,omitempty"`
	Area       *float64            `json:"area,omitempty"`
	Languages  map[string]string   `json:"languages,omitempty"`
	Currencies map[string]Currency `json:"currencies,omitempty"`
	Borders    []string            `json:"borders,omitempty"`
	Flags      ImageSet            `json:"flags,omitempty"`
	CoatOfArms ImageSet            `json:"coatOfArms,omitempty"`
	Maps       map[string]string   `json:"maps,omitempty"`
}

// Code returns the primary (alpha-3) code.
func (c *Country) Code() string {
	return c.Cca3
}

// CommonName returns the trimmed common name, empty when absent.
func (c *Country) CommonName() string {
	return strings.TrimSpace(c.Name.Common)
}

// PopulationValue reports the population and whether it was present.
func (c *Country) PopulationValue() (int64, bool) {
	if c.Population == nil {
		return 0, false
	}
	return *c.Population, true
}

// AreaValue reports the area in km² and whether it was present.
func (c *Country) AreaValue() (float64, bool) {
	if c.Area == nil {
		return 0, false
	}
	return *c.Area, true
}

// NormalizeCode upper-cases and trims a country code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsCountryCode reports whether code looks like an alpha-3 code.
func IsCountryCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for i := 0; i < len(code); i++ {
		ch := code[i]
		if (ch < 'A' || ch > 'Z') && (ch < 'a' || ch > 'z') {
			return false
		}
	}
	return true
}
