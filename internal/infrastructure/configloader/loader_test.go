package configloader

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
chain:
  primaryRpcUrl: "https://eth.example.com"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != ":8080" {
		t.Errorf("Server.Port = %q, want :8080", cfg.Server.Port)
	}
	if cfg.Report.TransferCap != 500 {
		t.Errorf("Report.TransferCap = %d, want 500", cfg.Report.TransferCap)
	}
	if cfg.Report.GasConcurrency != 5 {
		t.Errorf("Report.GasConcurrency = %d, want 5", cfg.Report.GasConcurrency)
	}
	if cfg.Report.ApprovalScanDepth != 100 {
		t.Errorf("Report.ApprovalScanDepth = %d, want 100", cfg.Report.ApprovalScanDepth)
	}
	if cfg.Price.MaxAddressesPerBatch != 100 {
		t.Errorf("Price.MaxAddressesPerBatch = %d, want 100", cfg.Price.MaxAddressesPerBatch)
	}
	if cfg.Chain.RPCCallTimeoutSecs != 8 {
		t.Errorf("Chain.RPCCallTimeoutSecs = %d, want 8", cfg.Chain.RPCCallTimeoutSecs)
	}
	if cfg.Report.ValueHistorySize != 30 {
		t.Errorf("Report.ValueHistorySize = %d, want 30", cfg.Report.ValueHistorySize)
	}
}

func TestLoadExplicitValuesWin(t *testing.T) {
	path := writeConfig(t, `
server:
  port: ":9999"
chain:
  primaryRpcUrl: "https://eth.example.com"
report:
  transferCap: 200
  gasConcurrency: 3
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != ":9999" {
		t.Errorf("Server.Port = %q, want :9999", cfg.Server.Port)
	}
	if cfg.Report.TransferCap != 200 {
		t.Errorf("Report.TransferCap = %d, want 200", cfg.Report.TransferCap)
	}
	if cfg.Report.GasConcurrency != 3 {
		t.Errorf("Report.GasConcurrency = %d, want 3", cfg.Report.GasConcurrency)
	}
}

func TestLoadRequiresRPCURL(t *testing.T) {
	path := writeConfig(t, `
server:
  port: ":8080"
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error when chain.primaryRpcUrl missing")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("does/not/exist.yaml"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestExplorerKeyFromEnv(t *testing.T) {
	t.Setenv("EXPLORER_API_KEY", "env-key")
	path := writeConfig(t, `
chain:
  primaryRpcUrl: "https://eth.example.com"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Explorer.APIKey != "env-key" {
		t.Errorf("Explorer.APIKey = %q, want env-key", cfg.Explorer.APIKey)
	}
}
