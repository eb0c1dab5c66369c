package chartdata

import (
	"fmt"
	"sort"

	"github.com/carbonview/dashboard/internal/domain"
)

// Intensity is embodied carbon per square metre of gross floor area. It is 0
// when the floor area is unknown.
func Intensity(totalEC, gfa float64) float64 {
	if gfa <= 0 {
		return 0
	}
	return totalEC / gfa
}

// BenchmarkResult compares a version's intensity with one target.
type BenchmarkResult struct {
	Standard string  `json:"standard"`
	Target   float64 `json:"target"`
	Actual   float64 `json:"actual"`
	Delta    float64 `json:"delta"`
	Meets    bool    `json:"meets"`
}

// BenchmarkStatus checks the version against every project target, in the
// project's benchmark order. Without a floor area there is nothing to check.
func BenchmarkStatus(targets domain.OrderedValues, v domain.UploadVersion) []BenchmarkResult {
	out := []BenchmarkResult{}
	if v.GFA <= 0 {
		return out
	}
	actual := Intensity(v.TotalEC, v.GFA)
	for _, t := range targets {
		out = append(out, BenchmarkResult{
			Standard: t.Key,
			Target:   t.Value,
			Actual:   actual,
			Delta:    actual - t.Value,
			Meets:    actual <= t.Value,
		})
	}
	return out
}

// HistorySeries plots total EC and intensity per version, oldest first.
func HistorySeries(versions []domain.UploadVersion) SeriesData {
	out := SeriesData{Labels: []string{}, Datasets: []Dataset{}}
	if len(versions) == 0 {
		return out
	}

	sorted := make([]domain.UploadVersion, len(versions))
	copy(sorted, versions)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Version < sorted[j].Version })

	total := Dataset{Label: "Total EC (kgCO2e)", BackgroundColor: []string{Color(0)}}
	intensity := Dataset{Label: "EC intensity (kgCO2e/m²)", BackgroundColor: []string{Color(1)}}
	for _, v := range sorted {
		out.Labels = append(out.Labels, fmt.Sprintf("v%d", v.Version))
		total.Data = append(total.Data, v.TotalEC)
		intensity.Data = append(intensity.Data, Intensity(v.TotalEC, v.GFA))
	}
	out.Datasets = append(out.Datasets, total, intensity)
	return out
}
