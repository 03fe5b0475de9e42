package knowledge

import (
	"encoding/json"
	"testing"

	pkgerrors "github.com/cropwatch/cropwatch-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogLoadsEveryCrop(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"Wheat", "Rice", "Maize", "Cotton", "Sugarcane", "Soybean", "Tomato", "Potato"}, c.CropNames())

	db := c.CropDatabase()
	assert.Equal(t, "success", db.Status)
	require.Len(t, db.Crops, 8)
	assert.Equal(t, "Winter", db.Crops["Wheat"].Season)
	assert.Equal(t, "6.0-6.8", db.Crops["Tomato"].PHLevel)

	body, err := json.Marshal(db.Crops["Rice"])
	require.NoError(t, err)
	assert.Contains(t, string(body), `"water_needed":"1000-1500mm"`)
	assert.NotContains(t, string(body), `"name"`)

	for _, name := range c.CropNames() {
		_, err := c.MaintenanceGuide(name)
		assert.NoError(t, err, "every crop has a guide: %s", name)
	}
}

func TestMaintenanceGuideLookup(t *testing.T) {
	c := MustLoad()

	guide, err := c.MaintenanceGuide("wheat")
	require.NoError(t, err)
	assert.Equal(t, "Wheat", guide.Guide.Name)
	assert.Len(t, guide.Guide.Stages, 4)
	assert.NotEmpty(t, guide.Guide.PestsDiseases)

	_, err = c.MaintenanceGuide("Quinoa")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Equal(t, "No guide found for Quinoa", pkgerrors.As(err).Message())
}

func decodeRecommendation(t *testing.T, body string) RecommendationRequest {
	t.Helper()
	var req RecommendationRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return req
}

func TestRecommendBrackets(t *testing.T) {
	cases := []struct {
		body  string
		first string
		last  string
	}{
		{`{}`, "Rice", "Maize"},
		{`{"latitude":9.99}`, "Rice", "Maize"},
		{`{"latitude":10}`, "Wheat", "Soybean"},
		{`{"latitude":"25.5","longitude":"80"}`, "Wheat", "Soybean"},
		{`{"latitude":30}`, "Wheat", "Maize"},
		{`{"latitude":-45}`, "Rice", "Maize"},
	}
	for _, tc := range cases {
		out := Recommend(decodeRecommendation(t, tc.body))
		require.Len(t, out.SuitableCrops, 4, tc.body)
		assert.Equal(t, tc.first, out.SuitableCrops[0], tc.body)
		assert.Equal(t, tc.last, out.SuitableCrops[3], tc.body)
	}

	out := Recommend(decodeRecommendation(t, `{"latitude":35,"longitude":-100}`))
	assert.Equal(t, "Based on your location, we recommend growing Wheat, Potato, Barley or Maize.", out.Recommendation)
	assert.Equal(t, Location{Latitude: 35, Longitude: -100}, out.Location)
}

func TestSoilHealthBrackets(t *testing.T) {
	cases := map[float64]string{
		4.0: "Very Acidic",
		5.5: "Acidic",
		5.9: "Acidic",
		6.0: "Slightly Acidic (Good)",
		7.0: "Neutral to Slightly Alkaline (Ideal)",
		8.0: "Alkaline",
		9.5: "Alkaline",
	}
	for ph, status := range cases {
		v := ph
		req := SoilRequest{}
		req.PHValue.Valid = true
		req.PHValue.Value = &v
		assert.Equal(t, status, SoilHealth(req).Recommendations.PHStatus, "ph %v", ph)
	}

	def := SoilHealth(SoilRequest{})
	assert.Equal(t, "Neutral to Slightly Alkaline (Ideal)", def.Recommendations.PHStatus)
	assert.Equal(t, []string{"Wheat", "Rice", "Maize", "Sugarcane"}, def.Recommendations.SuitableCrops)
}
