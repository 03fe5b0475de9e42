package knowledge

import (
	"fmt"
	"strings"

	"github.com/cropwatch/cropwatch-backend/pkg/types"
)

// Location echoes the coordinates a recommendation was made for.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// RecommendationRequest is the body of POST /crop-recommendations. Missing or
// null coordinates default to 0.
type RecommendationRequest struct {
	Latitude  types.NullableFloat `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude types.NullableFloat `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
}

// Recommendation is the body returned for a crop recommendation.
type Recommendation struct {
	Status         string   `json:"status"`
	Location       Location `json:"location"`
	SuitableCrops  []string `json:"suitable_crops"`
	Recommendation string   `json:"recommendation"`
}

// Recommend picks crops by latitude bracket: <10, <20, <30, and the rest.
func Recommend(req RecommendationRequest) *Recommendation {
	lat := valueOr(req.Latitude, 0)
	lon := valueOr(req.Longitude, 0)

	var crops []string
	switch {
	case lat < 10:
		crops = []string{"Rice", "Sugarcane", "Cotton", "Maize"}
	case lat < 20:
		crops = []string{"Wheat", "Maize", "Cotton", "Soybean"}
	case lat < 30:
		crops = []string{"Wheat", "Maize", "Potato", "Soybean"}
	default:
		crops = []string{"Wheat", "Potato", "Barley", "Maize"}
	}

	last := len(crops) - 1
	sentence := fmt.Sprintf("Based on your location, we recommend growing %s or %s.",
		strings.Join(crops[:last], ", "), crops[last])

	return &Recommendation{
		Status:         types.StatusSuccess,
		Location:       Location{Latitude: lat, Longitude: lon},
		SuitableCrops:  crops,
		Recommendation: sentence,
	}
}

func valueOr(n types.NullableFloat, fallback float64) float64 {
	if n.Value == nil {
		return fallback
	}
	return *n.Value
}
