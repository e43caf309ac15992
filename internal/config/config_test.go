package config

import (
	"strings"
	"testing"
	"time"
)

// mapLookup builds a LookupFunc over a fixed set of values.
func mapLookup(env map[string]string) LookupFunc {
	return func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadWith(mapLookup(map[string]string{"SOURCE_SPREADSHEET_ID": "abc"}))
	if err != nil {
		t.Fatalf("LoadWith() error = %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Source.BaseURL != "https://opensheet.elk.sh" {
		t.Errorf("Source.BaseURL = %q", cfg.Source.BaseURL)
	}
	if got := strings.Join(cfg.Source.Sheets, ","); got != "Windows,RHEL,Oracle,ESXi,FW" {
		t.Errorf("Source.Sheets = %q", got)
	}
	if cfg.Source.FirmwareSheet != "FW" {
		t.Errorf("Source.FirmwareSheet = %q, want %q", cfg.Source.FirmwareSheet, "FW")
	}
	if cfg.Source.FetchTimeout != 15*time.Second {
		t.Errorf("Source.FetchTimeout = %v, want %v", cfg.Source.FetchTimeout, 15*time.Second)
	}
	if cfg.Catalog.RefreshInterval != 15*time.Minute {
		t.Errorf("Catalog.RefreshInterval = %v, want %v", cfg.Catalog.RefreshInterval, 15*time.Minute)
	}
	if cfg.Catalog.Continuation != "skip" {
		t.Errorf("Catalog.Continuation = %q, want %q", cfg.Catalog.Continuation, "skip")
	}
	if cfg.Rate.RequestsPerMinute != 100 || cfg.Rate.RefreshLimit != 2 {
		t.Errorf("Rate = %+v, want 100/min and refresh 2/min", cfg.Rate)
	}
	if !cfg.Metrics.Enabled || !cfg.Security.EnableCSP {
		t.Error("metrics and CSP should default to enabled")
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	cfg, err := LoadWith(mapLookup(map[string]string{
		"SOURCE_WORKBOOK_PATH":     "hcl.xlsx",
		"SERVER_PORT":              "9090",
		"CATALOG_CONTINUATION":     "attach",
		"CATALOG_REFRESH_INTERVAL": "1h",
		"LOG_LEVEL":                "debug",
		"RATE_LIMIT_ENABLED":       "false",
	}))
	if err != nil {
		t.Fatalf("LoadWith() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Source.WorkbookPath != "hcl.xlsx" {
		t.Errorf("Source.WorkbookPath = %q, want %q", cfg.Source.WorkbookPath, "hcl.xlsx")
	}
	if cfg.Catalog.Continuation != "attach" {
		t.Errorf("Catalog.Continuation = %q, want %q", cfg.Catalog.Continuation, "attach")
	}
	if cfg.Catalog.RefreshInterval != time.Hour {
		t.Errorf("Catalog.RefreshInterval = %v, want %v", cfg.Catalog.RefreshInterval, time.Hour)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Rate.Enabled {
		t.Error("Rate.Enabled = true, want false")
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SOURCE_SPREADSHEET_ID", "from-env")
	t.Setenv("SERVER_PORT", " 7070 ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Source.SpreadsheetID != "from-env" {
		t.Errorf("Source.SpreadsheetID = %q, want %q", cfg.Source.SpreadsheetID, "from-env")
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 7070)
	}
}

func TestLoad_AltEnvVar(t *testing.T) {
	cfg, err := LoadWith(mapLookup(map[string]string{"SPREADSHEET_ID": "alt"}))
	if err != nil {
		t.Fatalf("LoadWith() error = %v", err)
	}
	if cfg.Source.SpreadsheetID != "alt" {
		t.Errorf("Source.SpreadsheetID = %q, want %q", cfg.Source.SpreadsheetID, "alt")
	}
}

func TestLoad_CommaSeparatedSlice(t *testing.T) {
	cfg, err := LoadWith(mapLookup(map[string]string{
		"SOURCE_SPREADSHEET_ID": "abc",
		"SOURCE_SHEETS":         " Windows , ,RHEL,Firmware ",
		"SOURCE_FIRMWARE_SHEET": "Firmware",
		"TRUSTED_PROXIES":       "10.0.0.0/8,192.168.1.1",
	}))
	if err != nil {
		t.Fatalf("LoadWith() error = %v", err)
	}

	if got := strings.Join(cfg.Source.Sheets, "|"); got != "Windows|RHEL|Firmware" {
		t.Errorf("Source.Sheets = %q, want %q", got, "Windows|RHEL|Firmware")
	}
	if len(cfg.Security.TrustedProxies) != 2 {
		t.Errorf("len(TrustedProxies) = %d, want 2", len(cfg.Security.TrustedProxies))
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	_, err := LoadWith(mapLookup(map[string]string{
		"SOURCE_SPREADSHEET_ID": "abc",
		"SOURCE_FETCH_TIMEOUT":  "soon",
	}))
	if err == nil || !strings.Contains(err.Error(), "SOURCE_FETCH_TIMEOUT") {
		t.Errorf("LoadWith() error = %v, want invalid SOURCE_FETCH_TIMEOUT", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "no source",
			env:     map[string]string{},
			wantErr: "one of SOURCE_SPREADSHEET_ID or SOURCE_WORKBOOK_PATH is required",
		},
		{
			name:    "both sources",
			env:     map[string]string{"SOURCE_SPREADSHEET_ID": "abc", "SOURCE_WORKBOOK_PATH": "x.xlsx"},
			wantErr: "mutually exclusive",
		},
		{
			name:    "firmware sheet not listed",
			env:     map[string]string{"SOURCE_SPREADSHEET_ID": "abc", "SOURCE_SHEETS": "Windows,RHEL"},
			wantErr: "SOURCE_FIRMWARE_SHEET",
		},
		{
			name:    "bad continuation",
			env:     map[string]string{"SOURCE_SPREADSHEET_ID": "abc", "CATALOG_CONTINUATION": "merge"},
			wantErr: "CATALOG_CONTINUATION",
		},
		{
			name:    "invalid port",
			env:     map[string]string{"SOURCE_SPREADSHEET_ID": "abc", "SERVER_PORT": "70000"},
			wantErr: "SERVER_PORT",
		},
		{
			name:    "invalid log level",
			env:     map[string]string{"SOURCE_SPREADSHEET_ID": "abc", "LOG_LEVEL": "verbose"},
			wantErr: "LOG_LEVEL",
		},
		{
			name:    "non-positive refresh interval",
			env:     map[string]string{"SOURCE_SPREADSHEET_ID": "abc", "CATALOG_REFRESH_INTERVAL": "0s"},
			wantErr: "CATALOG_REFRESH_INTERVAL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadWith(mapLookup(tt.env))
			if err == nil {
				t.Fatal("LoadWith() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadWith() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	_, err := LoadWith(mapLookup(map[string]string{"SERVER_PORT": "0", "LOG_FORMAT": "xml"}))
	if err == nil {
		t.Fatal("LoadWith() error = nil, want error")
	}
	for _, want := range []string{"SOURCE_SPREADSHEET_ID", "SERVER_PORT", "LOG_FORMAT"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"localhost", 3000, "localhost:3000"},
		{"", 80, ":80"},
	}

	for _, tt := range tests {
		cfg := ServerConfig{Host: tt.host, Port: tt.port}
		if got := cfg.Addr(); got != tt.want {
			t.Errorf("Addr() = %q, want %q", got, tt.want)
		}
	}
}

func TestConfigString(t *testing.T) {
	cfg, err := LoadWith(mapLookup(map[string]string{"SOURCE_WORKBOOK_PATH": "hcl.xlsx"}))
	if err != nil {
		t.Fatalf("LoadWith() error = %v", err)
	}
	s := cfg.String()
	if !strings.Contains(s, `Workbook: "hcl.xlsx"`) {
		t.Errorf("String() = %q, want workbook path", s)
	}
}
