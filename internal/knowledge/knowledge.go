// Package knowledge serves the static agronomy reference tables.
package knowledge

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	pkgerrors "github.com/cropwatch/cropwatch-backend/pkg/errors"
	"github.com/cropwatch/cropwatch-backend/pkg/types"
)

//go:embed data/*.json
var dataFS embed.FS

// Crop is one entry of the crop database.
type Crop struct {
	Name        string `json:"-"`
	Season      string `json:"season"`
	IdealTemp   string `json:"ideal_temp"`
	WaterNeeded string `json:"water_needed"`
	SoilType    string `json:"soil_type"`
	PHLevel     string `json:"ph_level"`
	Duration    string `json:"duration"`
	Yield       string `json:"yield"`
	Benefits    string `json:"benefits"`
	Spacing     string `json:"spacing"`
}

// Stage is one growth stage of a maintenance guide.
type Stage struct {
	Stage string `json:"stage"`
	Care  string `json:"care"`
}

// Guide is a per-crop maintenance guide.
type Guide struct {
	Name          string   `json:"name"`
	Stages        []Stage  `json:"stages"`
	Fertilizer    string   `json:"fertilizer"`
	Irrigation    string   `json:"irrigation"`
	PestsDiseases []string `json:"pests_diseases"`
	HarvestTime   string   `json:"harvest_time"`
}

// CropDatabase is the body of GET /crop-database, keyed by crop name.
type CropDatabase struct {
	Status string          `json:"status"`
	Crops  map[string]Crop `json:"crops"`
}

// GuideResponse is the body of GET /maintenance-guide/{crop}.
type GuideResponse struct {
	Status string `json:"status"`
	Guide  Guide  `json:"guide"`
}

// Catalog holds the loaded tables. It is read-only after Load.
type Catalog struct {
	crops  []Crop
	guides map[string]Guide
}

type cropRecord struct {
	Name string `json:"name"`
	Crop
}

// Load parses the embedded tables.
func Load() (*Catalog, error) {
	raw, err := dataFS.ReadFile("data/crops.json")
	if err != nil {
		return nil, fmt.Errorf("read crops: %w", err)
	}
	var records []cropRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parse crops: %w", err)
	}

	raw, err = dataFS.ReadFile("data/guides.json")
	if err != nil {
		return nil, fmt.Errorf("read guides: %w", err)
	}
	var guides []Guide
	if err := json.Unmarshal(raw, &guides); err != nil {
		return nil, fmt.Errorf("parse guides: %w", err)
	}

	c := &Catalog{
		crops:  make([]Crop, 0, len(records)),
		guides: make(map[string]Guide, len(guides)),
	}
	for _, r := range records {
		crop := r.Crop
		crop.Name = r.Name
		c.crops = append(c.crops, crop)
	}
	for _, g := range guides {
		c.guides[strings.ToLower(g.Name)] = g
	}
	return c, nil
}

// MustLoad is Load for process start-up.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// CropDatabase returns every crop keyed by name.
func (c *Catalog) CropDatabase() *CropDatabase {
	crops := make(map[string]Crop, len(c.crops))
	for _, crop := range c.crops {
		crops[crop.Name] = crop
	}
	return &CropDatabase{Status: types.StatusSuccess, Crops: crops}
}

// CropNames lists the crops in catalog order.
func (c *Catalog) CropNames() []string {
	names := make([]string, 0, len(c.crops))
	for _, crop := range c.crops {
		names = append(names, crop.Name)
	}
	return names
}

// MaintenanceGuide looks a guide up case-insensitively.
func (c *Catalog) MaintenanceGuide(crop string) (*GuideResponse, error) {
	guide, ok := c.guides[strings.ToLower(strings.TrimSpace(crop))]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("No guide found for %s", crop))
	}
	return &GuideResponse{Status: types.StatusSuccess, Guide: guide}, nil
}
