package carbonapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carbonview/dashboard/internal/domain"
	"github.com/carbonview/dashboard/internal/logging"
	"github.com/carbonview/dashboard/internal/session"
)

var alice = session.Identity{UserID: "alice", Token: "tok-a"}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Options{BaseURL: srv.URL + "/"})
}

func TestListProjects_SendsIdentity(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/projects", r.URL.Path)
		assert.Equal(t, "Bearer tok-a", r.Header.Get("Authorization"))
		assert.Equal(t, "alice", r.Header.Get(session.HeaderUserID))
		assert.Equal(t, "req-1", r.Header.Get("X-Request-Id"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"id":"p1","name":"Tower"},{"id":"p2","name":"Depot"}]`)
	})

	ctx := logging.WithRequestID(context.Background(), "req-1")
	got, err := c.ListProjects(ctx, alice)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Tower", got[0].Name)
}

func TestListProjects_WrappedAndEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"projects":[{"id":"p1","name":"Tower"}]}`)
	})
	got, err := c.ListProjects(context.Background(), alice)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	empty := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `null`)
	})
	got, err = empty.ListProjects(context.Background(), alice)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGetProject_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail":"Project not found"}`)
	})

	_, err := c.GetProject(context.Background(), alice, "missing")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Project not found", apiErr.UserDetail())
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, http.StatusNotFound, StatusOf(err))
}

func TestGetBreakdown_KeepsKeyOrder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/projects/p1/get_breakdown", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("version"))
		_, _ = io.WriteString(w, `{"by_material":{"steel":200,"concrete":100},"by_element":{},"by_building_system":{"structure":300}}`)
	})

	got, err := c.GetBreakdown(context.Background(), alice, "p1", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"steel", "concrete"}, got.ByMaterial.Keys())
	assert.Equal(t, 0, got.ByElement.Len())
	assert.Equal(t, []float64{300}, got.ByBuildingSystem.Values())
}

func TestGetEcBreakdown(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/projects/p1/get_ec_breakdown", r.URL.Path)
		_, _ = io.WriteString(w, `{"categories":[{"name":"Structure","total":100,"elements":[{"name":"Wall","total":100,"materials":[{"name":"Concrete","total":100}]}]}]}`)
	})

	got, err := c.GetEcBreakdown(context.Background(), alice, "p1", 1)
	require.NoError(t, err)
	require.Len(t, got.Categories, 1)
	assert.Equal(t, "Concrete", got.Categories[0].Elements[0].Materials[0].Name)
}

func TestUploadIFC_Multipart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/projects/p1/upload_ifc", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		b, _ := io.ReadAll(f)
		assert.Equal(t, "model.ifc", hdr.Filename)
		assert.Equal(t, "ISO-10303-21;", string(b))
		assert.Equal(t, "first pass", r.FormValue("comment"))
		_, _ = io.WriteString(w, `{"version":4,"status":"processing"}`)
	})

	v, err := c.UploadIFC(context.Background(), alice, "p1", "model.ifc", []byte("ISO-10303-21;"), "first pass")
	require.NoError(t, err)
	assert.Equal(t, 4, v.Version)
	assert.Equal(t, domain.StatusProcessing, v.Status)
}

func TestUploadIFC_ValidationDetail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"detail":[{"msg":"file is not IFC"},{"msg":"comment too long"}]}`)
	})

	_, err := c.UploadIFC(context.Background(), alice, "p1", "x.ifc", []byte("x"), "")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "file is not IFC; comment too long", apiErr.Detail)
}

func TestDeleteProject_NoContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})
	assert.NoError(t, c.DeleteProject(context.Background(), alice, "p1"))
}

func TestCatalogs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/materials":
			_, _ = io.WriteString(w, `[{"name":"Concrete","carbon_factor":0.12,"unit":"kg"}]`)
		case "/elements":
			_, _ = io.WriteString(w, `{"elements":[{"name":"Wall","building_system":"Structure"}]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	ms, err := c.ListMaterials(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, []string{"Concrete"}, domain.MaterialNames(ms))

	es, err := c.ListElements(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, "Structure", es[0].BuildingSystem)
}

func TestMetricsCountErrors(t *testing.T) {
	ResetMetrics()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/materials" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = io.WriteString(w, `[]`)
	})

	_, _ = c.ListElements(context.Background(), alice)
	_, _ = c.ListMaterials(context.Background(), alice)

	m := GetMetrics()
	assert.Equal(t, int64(2), m.Calls)
	assert.Equal(t, int64(1), m.Errors)
}

func TestParseDetail(t *testing.T) {
	assert.Equal(t, "boom", parseDetail([]byte(`{"detail":"boom"}`)))
	assert.Equal(t, "bad", parseDetail([]byte(`{"error":"bad"}`)))
	assert.Equal(t, "", parseDetail([]byte(`<html>`)))
	assert.Equal(t, "", parseDetail([]byte(`{"detail":42}`)))
}
