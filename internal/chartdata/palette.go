package chartdata

var palette = []string{
	"#2e7d32", "#1565c0", "#ef6c00", "#6a1b9a", "#c62828",
	"#00838f", "#9e9d24", "#4e342e", "#ad1457", "#37474f",
}

// Color returns the i-th palette entry, cycling.
func Color(i int) string {
	if i < 0 {
		i = -i
	}
	return palette[i%len(palette)]
}
