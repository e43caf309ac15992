package web

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/hcl/internal/config"
	"github.com/JonMunkholm/hcl/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	snap       *core.Snapshot
	refreshErr error
	refreshes  int
}

func (f *fakeCatalog) Current() *core.Snapshot { return f.snap }

func (f *fakeCatalog) Refresh(ctx context.Context) (*core.Snapshot, error) {
	f.refreshes++
	if f.refreshErr != nil {
		return f.snap, f.refreshErr
	}
	return f.snap, nil
}

func testSnapshot() *core.Snapshot {
	result := core.Aggregate(
		core.SheetsFromNames([]string{"Windows", "RHEL", "FW"}, "FW"),
		[][]core.RawRow{
			{
				{"Component": "NIC", "Vendor": "Intel", "Description": "X710-DA2", "OS": "Windows Server 2022", "Driver": "1.2"},
				{"Vendor": "Mellanox", "Description": "ConnectX-6", "OS": "Windows Server 2022", "Driver": "Not Supported"},
			},
			{{"Component": "HBA", "Vendor": "Broadcom", "Description": "9500-8i", "OS": "RHEL 9", "Driver": "8.1"}},
			{{"Description": "X710-DA2", "FW Version": "9.40", "SWID": "0x1"}},
		},
	)
	return &core.Snapshot{
		Catalog:  core.NewCatalog(result.Products),
		OSLabels: result.ObservedOS,
		LoadedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Sheets:   []core.SheetStatus{{Name: "Windows", Rows: 2}, {Name: "RHEL", Rows: 1}, {Name: "FW", Rows: 1}},
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{RequestTimeout: 5 * time.Second},
		Rate:     config.RateLimitConfig{Enabled: false},
		Security: config.SecurityConfig{EnableCSP: true},
		Metrics:  config.MetricsConfig{Enabled: true},
	}
}

func newTestServer(t *testing.T, cat *fakeCatalog, cfg *config.Config) *Server {
	t.Helper()
	s := NewServer(cat, cfg)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s
}

func do(s *Server, method, target string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestListProducts(t *testing.T) {
	s := newTestServer(t, &fakeCatalog{snap: testSnapshot()}, testConfig())

	rec := do(s, http.MethodGet, "/api/products?q=intel", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var products []core.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	require.Len(t, products, 1)
	assert.Equal(t, "X710-DA2", products[0].Model)
	assert.Equal(t, "9.40", products[0].FW)

	rec = do(s, http.MethodGet, "/api/products", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	assert.Len(t, products, 3)
}

func TestGetProduct(t *testing.T) {
	s := newTestServer(t, &fakeCatalog{snap: testSnapshot()}, testConfig())

	rec := do(s, http.MethodGet, "/api/products/ConnectX-6", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Mellanox", resp.Brand)
	assert.Equal(t, "NIC", resp.Type)
	assert.Equal(t, "mstflint -d 00:03.0 -i DEVICE_ID.bin burn", resp.UpdateCommand)

	rec = do(s, http.MethodGet, "/api/products/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "CAT001", errResp.Code)
}

func TestListOS(t *testing.T) {
	s := newTestServer(t, &fakeCatalog{snap: testSnapshot()}, testConfig())

	rec := do(s, http.MethodGet, "/api/os", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var labels []OSResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &labels))
	require.Len(t, labels, 2)
	assert.Equal(t, "RHEL 9", labels[0].Label)
	assert.Equal(t, "RHEL", labels[0].Family)
	assert.Equal(t, "9", labels[0].VersionTag)
	assert.Equal(t, "2022", labels[1].VersionTag)
}

func TestMenuAndValues(t *testing.T) {
	s := newTestServer(t, &fakeCatalog{snap: testSnapshot()}, testConfig())

	rec := do(s, http.MethodGet, "/api/menu", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var menu []core.MenuCategory
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &menu))
	require.Len(t, menu, 2)
	assert.Equal(t, "HBA", menu[0].Component)

	rec = do(s, http.MethodGet, "/api/values/brand", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var values []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &values))
	assert.Equal(t, []string{"Broadcom", "Intel", "Mellanox"}, values)

	rec = do(s, http.MethodGet, "/api/values/drivers", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusAndHealth(t *testing.T) {
	cat := &fakeCatalog{snap: testSnapshot()}
	s := newTestServer(t, cat, testConfig())

	rec := do(s, http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var status StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.Loaded)
	assert.Equal(t, 3, status.Products)
	assert.Len(t, status.Sheets, 3)

	assert.Equal(t, http.StatusOK, do(s, http.MethodGet, "/healthz", "").Code)

	cat.snap = &core.Snapshot{Catalog: core.NewCatalog(nil)}
	assert.Equal(t, http.StatusServiceUnavailable, do(s, http.MethodGet, "/healthz", "").Code)
}

func TestRefresh(t *testing.T) {
	cat := &fakeCatalog{snap: testSnapshot()}
	s := newTestServer(t, cat, testConfig())

	rec := do(s, http.MethodPost, "/api/refresh", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, cat.refreshes)

	cat.refreshErr = core.ErrAllSourcesFailed
	rec = do(s, http.MethodPost, "/api/refresh", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "SRC003")
}

func TestRefresh_RateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.Rate = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 100, RefreshLimit: 1}
	s := newTestServer(t, &fakeCatalog{snap: testSnapshot()}, cfg)

	assert.Equal(t, http.StatusOK, do(s, http.MethodPost, "/api/refresh", "").Code)

	rec := do(s, http.MethodPost, "/api/refresh", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "RATE001")

	// Other routes use the general limit.
	assert.Equal(t, http.StatusOK, do(s, http.MethodGet, "/api/status", "").Code)
}

func TestPages(t *testing.T) {
	s := newTestServer(t, &fakeCatalog{snap: testSnapshot()}, testConfig())

	rec := do(s, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Database: 3 products")
	assert.Contains(t, body, "ConnectX-6")
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))

	rec = do(s, http.MethodGet, "/search?q=x710&os=Windows+Server+2022", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = rec.Body.String()
	assert.Contains(t, body, "X710-DA2")
	assert.Contains(t, body, "nvmupdate64e -l log.txt -c nvmupdate.cfg -id 0x1")
	assert.Contains(t, body, "Results: 1")

	rec = do(s, http.MethodGet, "/search?q=%3Cscript%3E", "")
	assert.NotContains(t, rec.Body.String(), "<script>")
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, &fakeCatalog{snap: testSnapshot()}, testConfig())
	assert.Equal(t, http.StatusOK, do(s, http.MethodGet, "/metrics", "").Code)

	cfg := testConfig()
	cfg.Metrics.Enabled = false
	s = newTestServer(t, &fakeCatalog{snap: testSnapshot()}, cfg)
	assert.Equal(t, http.StatusNotFound, do(s, http.MethodGet, "/metrics", "").Code)
}

func TestNormalizeGroups(t *testing.T) {
	s := newTestServer(t, &fakeCatalog{snap: testSnapshot()}, testConfig())

	rec := do(s, http.MethodPost, "/api/groups/normalize", `{"groups":[{"id":"a","name":"A"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var set core.GroupSet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &set))
	assert.Equal(t, "a", set.ActiveID)
	assert.Equal(t, "RHEL 9", set.Groups[0].OS)
	assert.Equal(t, core.Palette[0], set.Groups[0].Color)

	rec = do(s, http.MethodPost, "/api/groups/normalize", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &set))
	assert.Equal(t, "g1", set.ActiveID)
}

func applyCmd(t *testing.T, s *Server, cmd GroupCommand) (*httptest.ResponseRecorder, GroupCommandResponse) {
	t.Helper()
	body, err := json.Marshal(cmd)
	require.NoError(t, err)
	rec := do(s, http.MethodPost, "/api/groups/apply", string(body))
	var resp GroupCommandResponse
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestApplyGroupCommand(t *testing.T) {
	s := newTestServer(t, &fakeCatalog{snap: testSnapshot()}, testConfig())

	rec, resp := applyCmd(t, s, GroupCommand{Op: "create", Name: "Rack 01"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, resp.CreatedID)
	require.Len(t, resp.State.Groups, 2)
	id := resp.State.Groups[1].ID
	assert.Equal(t, resp.CreatedID, id)

	state, err := json.Marshal(resp.State)
	require.NoError(t, err)

	rec, resp = applyCmd(t, s, GroupCommand{Op: "add_item", State: state, ID: id, Model: "X710-DA2"})
	require.Equal(t, http.StatusOK, rec.Code)
	g, ok := resp.State.Find(id)
	require.True(t, ok)
	assert.Equal(t, []string{"X710-DA2"}, g.Items)

	state, _ = json.Marshal(resp.State)
	rec, _ = applyCmd(t, s, GroupCommand{Op: "add_item", State: state, ID: id, Model: "X710-DA2"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "GRP004")

	rec, _ = applyCmd(t, s, GroupCommand{Op: "add_item", State: state, ID: id, Model: "nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = applyCmd(t, s, GroupCommand{Op: "set_color", State: state, ID: id, Color: "#000000"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = applyCmd(t, s, GroupCommand{Op: "delete", ID: "g1"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "GRP002")

	rec, _ = applyCmd(t, s, GroupCommand{Op: "explode"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(s, http.MethodPost, "/api/groups/apply", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportGroup(t *testing.T) {
	s := newTestServer(t, &fakeCatalog{snap: testSnapshot()}, testConfig())
	state := `{"groups":[
		{"id":"g1","name":"Empty","items":[],"os":"RHEL 9","color":"#8e44ad"},
		{"id":"r1","name":"Rack 01","items":["X710-DA2","9500-8i"],"os":"RHEL 9","color":"#2980b9"}
	],"activeId":"g1"}`

	rec := do(s, http.MethodPost, "/api/groups/export?id=r1", state)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="HCL_Rack 01_RHEL 9.csv"`)

	body := bytes.TrimPrefix(rec.Body.Bytes(), []byte("\ufeff"))
	records, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, core.ExportHeader, records[0])
	assert.Equal(t, []string{"NIC", "Intel", "X710-DA2", "9.40", "RHEL 9", "N/A", "0x1",
		"nvmupdate64e -l log.txt -c nvmupdate.cfg -id 0x1"}, records[1])
	assert.Equal(t, "8.1", records[2][5])

	// The active group is empty.
	rec = do(s, http.MethodPost, "/api/groups/export", state)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "EXP001")

	rec = do(s, http.MethodPost, "/api/groups/export?id=missing", state)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSecurityHeaders(t *testing.T) {
	cfg := testConfig()
	cfg.Security.EnableCSP = false
	s := newTestServer(t, &fakeCatalog{snap: testSnapshot()}, cfg)

	rec := do(s, http.MethodGet, "/api/status", "")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Empty(t, rec.Header().Get("Content-Security-Policy"))
}
