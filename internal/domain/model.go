package domain

import "time"

// Version status labels reported by the carbon backend. Unknown labels are
// passed through verbatim.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Project is a building project as owned by the carbon backend.
type Project struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Client     string          `json:"client,omitempty"`
	Typology   string          `json:"typology,omitempty"`
	Benchmarks OrderedValues   `json:"benchmarks,omitempty"`
	Access     []AccessEntry   `json:"access,omitempty"`
	Versions   []UploadVersion `json:"versions,omitempty"`
}

// AccessEntry grants a user a role on a project.
type AccessEntry struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// UploadVersion is one processed IFC upload of a project.
type UploadVersion struct {
	Version    int       `json:"version"`
	UploadedBy string    `json:"uploaded_by,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
	Comment    string    `json:"comment,omitempty"`
	Status     string    `json:"status"`
	TotalEC    float64   `json:"total_ec"`
	GFA        float64   `json:"gfa"`
}

// Completed reports whether the backend has finished computing the version.
// Completed versions never change and may be cached.
func (v UploadVersion) Completed() bool {
	return v.Status == StatusCompleted
}

// LatestVersion returns the highest version number of the project.
func (p *Project) LatestVersion() (UploadVersion, bool) {
	var (
		latest UploadVersion
		found  bool
	)
	for _, v := range p.Versions {
		if !found || v.Version > latest.Version {
			latest = v
			found = true
		}
	}
	return latest, found
}

// FindVersion looks a version up by number.
func (p *Project) FindVersion(n int) (UploadVersion, bool) {
	for _, v := range p.Versions {
		if v.Version == n {
			return v, true
		}
	}
	return UploadVersion{}, false
}

// ProjectInput is the body of project create and update calls.
type ProjectInput struct {
	Name       string        `json:"name"`
	Client     string        `json:"client,omitempty"`
	Typology   string        `json:"typology,omitempty"`
	Benchmarks OrderedValues `json:"benchmarks,omitempty"`
	Access     []AccessEntry `json:"access,omitempty"`
}

// BreakdownSummary holds three parallel category → carbon mappings.
type BreakdownSummary struct {
	ByMaterial       OrderedValues `json:"by_material"`
	ByElement        OrderedValues `json:"by_element"`
	ByBuildingSystem OrderedValues `json:"by_building_system"`
}

// Material is a catalog entry.
type Material struct {
	Name         string  `json:"name"`
	Category     string  `json:"category,omitempty"`
	CarbonFactor float64 `json:"carbon_factor"`
	Unit         string  `json:"unit,omitempty"`
}

// Element is a catalog entry.
type Element struct {
	Name           string `json:"name"`
	BuildingSystem string `json:"building_system,omitempty"`
}

// MaterialNames returns catalog names in catalog order.
func MaterialNames(ms []Material) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.Name)
	}
	return out
}

// ElementNames returns catalog names in catalog order.
func ElementNames(es []Element) []string {
	out := make([]string, 0, len(es))
	for _, e := range es {
		out = append(out, e.Name)
	}
	return out
}
