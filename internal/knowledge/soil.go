package knowledge

import "github.com/cropwatch/cropwatch-backend/pkg/types"

const defaultPH = 7.0

// SoilRequest is the body of POST /soil-health. A missing ph_value means neutral soil.
type SoilRequest struct {
	PHValue types.NullableFloat `json:"ph_value" validate:"omitempty,gte=0,lte=14"`
}

// SoilAdvice is the recommendation for one pH bracket.
type SoilAdvice struct {
	PHStatus      string   `json:"ph_status"`
	Actions       []string `json:"actions"`
	SuitableCrops []string `json:"suitable_crops"`
}

// SoilReport is the body returned for a soil check.
type SoilReport struct {
	Status          string     `json:"status"`
	Recommendations SoilAdvice `json:"recommendations"`
}

// SoilHealth classifies pH into brackets <5.5, <6.0, <7.0, <8.0 and the rest.
func SoilHealth(req SoilRequest) *SoilReport {
	ph := valueOr(req.PHValue, defaultPH)

	var advice SoilAdvice
	switch {
	case ph < 5.5:
		advice = SoilAdvice{
			PHStatus:      "Very Acidic",
			Actions:       []string{"Add lime to increase pH", "Apply 2-3 tons/hectare calcium carbonate", "Avoid acid-loving species initially"},
			SuitableCrops: []string{"Potato", "Strawberry"},
		}
	case ph < 6.0:
		advice = SoilAdvice{
			PHStatus:      "Acidic",
			Actions:       []string{"Apply 1-2 tons/hectare lime", "Monitor soil annually", "Good drainage needed"},
			SuitableCrops: []string{"Wheat", "Potato", "Rye"},
		}
	case ph < 7.0:
		advice = SoilAdvice{
			PHStatus:      "Slightly Acidic (Good)",
			Actions:       []string{"Maintain current pH", "Regular soil testing", "Add organic matter"},
			SuitableCrops: []string{"Most crops"},
		}
	case ph < 8.0:
		advice = SoilAdvice{
			PHStatus:      "Neutral to Slightly Alkaline (Ideal)",
			Actions:       []string{"Excellent for most crops", "Monitor micronutrient availability", "Maintain with organic matter"},
			SuitableCrops: []string{"Wheat", "Rice", "Maize", "Sugarcane"},
		}
	default:
		advice = SoilAdvice{
			PHStatus:      "Alkaline",
			Actions:       []string{"Add sulfur to lower pH", "Incorporate organic matter", "Improve drainage"},
			SuitableCrops: []string{"Bajra", "Gram"},
		}
	}
	return &SoilReport{Status: types.StatusSuccess, Recommendations: advice}
}
