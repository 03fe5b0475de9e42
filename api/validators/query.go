package validators

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/cropwatch/cropwatch-backend/pkg/errors"
)

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "Invalid input: "+key+" must be an integer").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "Invalid input: "+key+" out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// ParseQueryFloat returns nil when the parameter is absent or blank.
func ParseQueryFloat(r *http.Request, key string) (*float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Invalid input: "+key+" must be numeric").WithDetails(map[string]any{"field": key})
	}
	return &value, nil
}

// ParseCoordinates reads the lat and lon query parameters. Both are required
// and must lie within [-90, 90] and [-180, 180].
func ParseCoordinates(r *http.Request) (float64, float64, error) {
	lat, err := ParseQueryFloat(r, "lat")
	if err != nil {
		return 0, 0, err
	}
	lon, err := ParseQueryFloat(r, "lon")
	if err != nil {
		return 0, 0, err
	}
	if lat == nil || lon == nil {
		return 0, 0, pkgerrors.New(pkgerrors.CodeValidation, "Missing required parameters: lat, lon")
	}
	if *lat < -90 || *lat > 90 {
		return 0, 0, pkgerrors.New(pkgerrors.CodeValidation, "Invalid input: lat out of range").WithDetails(map[string]any{"field": "lat", "min": -90, "max": 90})
	}
	if *lon < -180 || *lon > 180 {
		return 0, 0, pkgerrors.New(pkgerrors.CodeValidation, "Invalid input: lon out of range").WithDetails(map[string]any{"field": "lon", "min": -180, "max": 180})
	}
	return *lat, *lon, nil
}
