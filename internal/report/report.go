// Package report renders a current weather report as plain text lines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"weather-lookup/internal/models"
)

// Lines returns the report lines in display order. The feels-like line is
// only present when the provider sent a value.
func Lines(r models.Report, units models.Units) []string {
	symbol := units.Symbol()
	lines := []string{
		fmt.Sprintf("Location: %s, %s", r.Location, r.Country),
		fmt.Sprintf("Weather: %s", r.Description),
		fmt.Sprintf("Temperature: %s%s", formatNumber(r.Temperature), symbol),
	}
	if r.FeelsLike != "" {
		lines = append(lines, fmt.Sprintf("Feels like: %s%s", formatNumber(r.FeelsLike), symbol))
	}
	return lines
}

func Write(w io.Writer, r models.Report, units models.Units) error {
	for _, line := range Lines(r, units) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// formatNumber keeps integers as sent and prints fractional values in their
// shortest form with at least one decimal place, so 15.0 stays "15.0".
// Exponents are expanded (1e20 prints in full); temperatures never get there.
func formatNumber(n json.Number) string {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		return s
	}
	f, err := n.Float64()
	if err != nil {
		return s
	}
	out := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(out, ".") {
		out += ".0"
	}
	return out
}
