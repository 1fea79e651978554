package owm

import (
	"encoding/json"
	"strconv"

	"weather-lookup/internal/models"
)

const (
	fieldTemp = "main.temp"

	unknownLocation = "Unknown location"
	noDescription   = "No description"
)

// Temperatures pulls main.temp and main.feels_like out of a current weather
// body. feelsLike is empty when the provider omitted it.
func Temperatures(data map[string]any) (temp, feelsLike json.Number, err error) {
	main := getMap(data, "main")
	temp, ok := getNumber(main, "temp")
	if !ok {
		return "", "", &MissingFieldError{Field: fieldTemp}
	}
	feelsLike, _ = getNumber(main, "feels_like")
	return temp, feelsLike, nil
}

// ParseReport builds the display view of a current weather body. Only the
// temperature is mandatory.
func ParseReport(data map[string]any) (models.Report, error) {
	temp, feelsLike, err := Temperatures(data)
	if err != nil {
		return models.Report{}, err
	}

	name, ok := data["name"].(string)
	if !ok {
		name = unknownLocation
	}
	desc, ok := getFirstInArray(data, "weather")["description"].(string)
	if !ok {
		desc = noDescription
	}

	return models.Report{
		Location:    name,
		Country:     getString(getMap(data, "sys"), "country"),
		Description: desc,
		Temperature: temp,
		FeelsLike:   feelsLike,
	}, nil
}

func getMap(m map[string]any, key string) map[string]any {
	if v, ok := m[key].(map[string]any); ok {
		return v
	}
	return nil
}

func getArray(m map[string]any, key string) []any {
	if v, ok := m[key].([]any); ok {
		return v
	}
	return nil
}

func getFirstInArray(m map[string]any, key string) map[string]any {
	arr := getArray(m, key)
	if len(arr) > 0 {
		if v, ok := arr[0].(map[string]any); ok {
			return v
		}
	}
	return nil
}

func getString(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func getNumber(m map[string]any, key string) (json.Number, bool) {
	switch v := m[key].(type) {
	case json.Number:
		return v, true
	case float64:
		return json.Number(strconv.FormatFloat(v, 'f', -1, 64)), true
	case int:
		return json.Number(strconv.Itoa(v)), true
	case int64:
		return json.Number(strconv.FormatInt(v, 10)), true
	}
	return "", false
}
