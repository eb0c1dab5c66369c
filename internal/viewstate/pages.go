package viewstate

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/carbonview/dashboard/internal/chartdata"
	"github.com/carbonview/dashboard/internal/domain"
)

type ProjectsPage struct {
	Projects Result[[]domain.Project] `json:"projects"`
}

// ProjectPage is the single-version view of a project.
type ProjectPage struct {
	Project         Result[domain.Project]          `json:"project"`
	SelectedVersion int                             `json:"selected_version"`
	Version         *domain.UploadVersion           `json:"version,omitempty"`
	Intensity       float64                         `json:"intensity"`
	Benchmarks      []chartdata.BenchmarkResult     `json:"benchmarks"`
	Breakdown       Result[domain.BreakdownSummary] `json:"breakdown"`
	Charts          *chartdata.BreakdownCharts      `json:"charts,omitempty"`
	Tree            Result[domain.EcBreakdownTree]  `json:"tree"`
	Flow            *chartdata.FlowGraph            `json:"flow,omitempty"`
	Materials       Result[[]domain.Material]       `json:"materials"`
	Elements        Result[[]domain.Element]        `json:"elements"`
}

// Dimension picks one of the three breakdown mappings.
type Dimension string

const (
	ByMaterial       Dimension = "material"
	ByElement        Dimension = "element"
	ByBuildingSystem Dimension = "system"
)

// ParseDimension accepts the short names used in query strings.
func ParseDimension(s string) (Dimension, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "material", "materials":
		return ByMaterial, nil
	case "element", "elements":
		return ByElement, nil
	case "system", "systems", "building_system":
		return ByBuildingSystem, nil
	}
	return "", fmt.Errorf("unknown breakdown dimension %q: %w", s, domain.ErrInvalidInput)
}

// Pick returns the mapping of s for the dimension.
func (d Dimension) Pick(s domain.BreakdownSummary) domain.OrderedValues {
	switch d {
	case ByElement:
		return s.ByElement
	case ByBuildingSystem:
		return s.ByBuildingSystem
	default:
		return s.ByMaterial
	}
}

// ComparePage lays the selected versions side by side.
type ComparePage struct {
	Project    Result[domain.Project] `json:"project"`
	Targets    []int                  `json:"targets"`
	Dimension  Dimension              `json:"dimension"`
	Breakdowns []VersionBreakdown     `json:"breakdowns"`
	Comparison *chartdata.Comparison  `json:"comparison,omitempty"`
}

type VersionBreakdown struct {
	Version   int                             `json:"version"`
	Breakdown Result[domain.BreakdownSummary] `json:"breakdown"`
}

type HistoryPage struct {
	Project Result[domain.Project]         `json:"project"`
	History Result[[]domain.UploadVersion] `json:"history"`
	Series  *chartdata.SeriesData          `json:"series,omitempty"`
}

// UploadDialog is the outcome of one IFC upload.
type UploadDialog struct {
	FileName string                       `json:"file_name"`
	Upload   Result[domain.UploadVersion] `json:"upload"`
}

// SelectVersion resolves the version a page shows. raw is the query value;
// empty means the latest version.
func SelectVersion(p *domain.Project, raw string) (domain.UploadVersion, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		v, ok := p.LatestVersion()
		if !ok {
			return domain.UploadVersion{}, domain.ErrNoVersions
		}
		return v, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return domain.UploadVersion{}, fmt.Errorf("version %q: %w", raw, domain.ErrUnknownVersion)
	}
	v, ok := p.FindVersion(n)
	if !ok {
		return domain.UploadVersion{}, fmt.Errorf("version %d: %w", n, domain.ErrUnknownVersion)
	}
	return v, nil
}

// ParseTargets resolves the comparison targets from a comma separated list.
// Empty means the two latest versions. Targets come back in ascending order
// without duplicates.
func ParseTargets(p *domain.Project, raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		nums := make([]int, 0, len(p.Versions))
		for _, v := range p.Versions {
			nums = append(nums, v.Version)
		}
		sort.Ints(nums)
		if len(nums) == 0 {
			return nil, domain.ErrNoVersions
		}
		if len(nums) > 2 {
			nums = nums[len(nums)-2:]
		}
		return nums, nil
	}

	seen := make(map[int]bool)
	var out []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(part, "v"))
		if err != nil {
			return nil, fmt.Errorf("version %q: %w", part, domain.ErrUnknownVersion)
		}
		if _, ok := p.FindVersion(n); !ok {
			return nil, fmt.Errorf("version %d: %w", n, domain.ErrUnknownVersion)
		}
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no versions selected: %w", domain.ErrUnknownVersion)
	}
	sort.Ints(out)
	return out, nil
}
