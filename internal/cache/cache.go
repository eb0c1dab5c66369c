// Package cache is the read-through cache in front of the carbon backend.
package cache

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

const keyPrefix = "ecdash:"

// Store caches JSON-encoded values.
type Store interface {
	// GetJSON decodes the value under key into dst. found is false on a miss.
	GetJSON(ctx context.Context, key string, dst any) (found bool, err error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error
	Ping(ctx context.Context) error
	Stats() Stats
}

// Stats counts cache lookups.
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

type counters struct {
	hits   atomic.Int64
	misses atomic.Int64
}

func (c *counters) record(found bool) {
	if found {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
}

func (c *counters) snapshot() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

// CatalogKey is the key of the materials or elements catalog.
func CatalogKey(kind string) string {
	return keyPrefix + "catalog:" + kind
}

// projectPrefix is the key prefix of one project's entries of kind. The id
// is query-escaped so a ':' inside it cannot reach into another project.
func projectPrefix(kind, projectID string) string {
	return keyPrefix + kind + ":" + url.QueryEscape(projectID) + ":"
}

// BreakdownKey is the key of a version's flat breakdown summary.
func BreakdownKey(projectID string, version int) string {
	return projectPrefix("breakdown", projectID) + strconv.Itoa(version)
}

// TreeKey is the key of a version's EC breakdown tree.
func TreeKey(projectID string, version int) string {
	return projectPrefix("tree", projectID) + strconv.Itoa(version)
}

// InvalidateProject drops every cached breakdown of a project.
func InvalidateProject(ctx context.Context, s Store, projectID string) error {
	for _, kind := range []string{"breakdown", "tree"} {
		if err := s.DeletePrefix(ctx, projectPrefix(kind, projectID)); err != nil {
			return err
		}
	}
	return nil
}

// escapeGlob quotes Redis MATCH metacharacters.
func escapeGlob(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)
	return r.Replace(s)
}
