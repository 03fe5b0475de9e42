package vegetation

// Health is the scored tier for an NDVI value.
type Health struct {
	Score  string `json:"score"`
	Color  string `json:"color"`
	Action string `json:"action"`
}

const (
	ScorePoor      = "Poor"
	ScoreFair      = "Fair"
	ScoreGood      = "Good"
	ScoreExcellent = "Excellent"

	// AlertThreshold is the NDVI below which the owner is mailed.
	AlertThreshold = 0.2
)

// Classify maps an NDVI value onto a tier. Each tier includes its lower bound.
func Classify(ndvi float64) Health {
	switch {
	case ndvi < 0.2:
		return Health{Score: ScorePoor, Color: "red", Action: "Immediate intervention required"}
	case ndvi < 0.4:
		return Health{Score: ScoreFair, Color: "orange", Action: "Monitor and treat"}
	case ndvi < 0.6:
		return Health{Score: ScoreGood, Color: "yellow", Action: "Continue monitoring"}
	default:
		return Health{Score: ScoreExcellent, Color: "green", Action: "Maintain current practices"}
	}
}
