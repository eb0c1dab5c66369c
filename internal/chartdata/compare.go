package chartdata

import (
	"fmt"

	"github.com/carbonview/dashboard/internal/domain"
)

// VersionValues is one version's mapping in a comparison.
type VersionValues struct {
	Version int
	Values  domain.OrderedValues
}

// Delta is the change of one category between the first and last compared
// versions. Percent is nil when the base value is zero.
type Delta struct {
	Key      string   `json:"key"`
	From     float64  `json:"from"`
	To       float64  `json:"to"`
	Absolute float64  `json:"absolute"`
	Percent  *float64 `json:"percent,omitempty"`
}

type Comparison struct {
	Series SeriesData `json:"series"`
	Deltas []Delta    `json:"deltas"`
}

// CompareVersions lays several versions side by side: one dataset per
// version, labels are the union of keys in first-seen order, and keys
// missing from a version plot as 0.
func CompareVersions(versions []VersionValues) Comparison {
	out := Comparison{
		Series: SeriesData{Labels: []string{}, Datasets: []Dataset{}},
		Deltas: []Delta{},
	}
	if len(versions) == 0 {
		return out
	}

	var keys []string
	seen := make(map[string]bool)
	for _, v := range versions {
		for _, kv := range v.Values {
			if !seen[kv.Key] {
				seen[kv.Key] = true
				keys = append(keys, kv.Key)
			}
		}
	}
	if len(keys) == 0 {
		return out
	}

	out.Series.Labels = Labels(keys)
	for i, v := range versions {
		ds := Dataset{
			Label:           fmt.Sprintf("v%d", v.Version),
			Data:            make([]float64, 0, len(keys)),
			BackgroundColor: []string{Color(i)},
		}
		for _, k := range keys {
			val, _ := v.Values.Get(k)
			ds.Data = append(ds.Data, val)
		}
		out.Series.Datasets = append(out.Series.Datasets, ds)
	}

	if len(versions) < 2 {
		return out
	}
	first, last := versions[0].Values, versions[len(versions)-1].Values
	for _, k := range keys {
		from, _ := first.Get(k)
		to, _ := last.Get(k)
		d := Delta{Key: k, From: from, To: to, Absolute: to - from}
		if from != 0 {
			pct := (to - from) / from * 100
			d.Percent = &pct
		}
		out.Deltas = append(out.Deltas, d)
	}
	return out
}
