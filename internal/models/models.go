package models

import "encoding/json"

// Units is the unit system token sent to the provider and used to pick the
// display symbol.
type Units string

const (
	Metric   Units = "metric"
	Imperial Units = "imperial"
	Standard Units = "standard"

	DefaultUnits = Metric
)

// Symbol returns the temperature suffix for u. Tokens the provider does not
// document fall through to Kelvin.
func (u Units) Symbol() string {
	switch u {
	case Metric:
		return "°C"
	case Imperial:
		return "°F"
	default:
		return "K"
	}
}

type Query struct {
	City  string
	Units Units
}

// Report is the display view of one current weather response. FeelsLike is
// empty when the provider omitted it.
type Report struct {
	Location    string
	Country     string
	Description string
	Temperature json.Number
	FeelsLike   json.Number
}
