package install

import (
	"detailq/internal/daemon"
	"detailq/internal/detail"
	"detailq/internal/global"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestCreateTemplateConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "detailq.json")

	err := CreateTemplateConfig(path)
	if err != nil {
		t.Fatalf("CreateTemplateConfig: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("template mode = %v, want 0600", info.Mode().Perm())
	}

	// Template must load as a valid daemon config
	jsonCfg, err := daemon.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	cfg, err := jsonCfg.NewDaemonConf()
	if err != nil {
		t.Fatalf("NewDaemonConf: %v", err)
	}

	if cfg.DetailGlob != global.DefaultDetailGlob {
		t.Errorf("glob = %q", cfg.DetailGlob)
	}
	if cfg.Priorities.Lookup('A') != detail.PriorityHigh {
		t.Errorf("class A priority = %v", cfg.Priorities.Lookup('A'))
	}
	if cfg.MinWorkers != 2 || cfg.MaxWorkers != 16 {
		t.Errorf("workers = %d..%d", cfg.MinWorkers, cfg.MaxWorkers)
	}
	if cfg.MetricCollectionInterval != 5*time.Second {
		t.Errorf("collection interval = %v", cfg.MetricCollectionInterval)
	}
	if cfg.FilePath == "" || cfg.BeatsEndpoint != "" || len(cfg.KafkaBrokers) != 0 || cfg.JournalURL != "" {
		t.Errorf("unexpected outputs enabled: %+v", cfg)
	}
}

func TestCreateTemplateConfig_NoPath(t *testing.T) {
	if err := CreateTemplateConfig(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestRenderUnit(t *testing.T) {
	unit := renderUnit("/usr/local/bin/detailq", "/etc/detailq.json")

	for _, want := range []string{
		"ExecStart=/usr/local/bin/detailq run --config /etc/detailq.json\n",
		"Type=notify-reload\n",
		"WantedBy=multi-user.target\n",
	} {
		if !strings.Contains(unit, want) {
			t.Errorf("unit missing %q:\n%s", want, unit)
		}
	}
	if strings.Contains(unit, "$") {
		t.Errorf("unit has unreplaced placeholder:\n%s", unit)
	}
}

func TestPlaceBinary(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "build", "detailq")
	dst := filepath.Join(dir, "bin", "detailq")
	if err := os.MkdirAll(filepath.Dir(src), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(src, []byte("binary"), 0755); err != nil {
		t.Fatal(err)
	}

	moved, err := placeBinary(src, dst)
	if err != nil || !moved {
		t.Fatalf("placeBinary = %v, %v", moved, err)
	}
	if _, err = os.Stat(src); !os.IsNotExist(err) {
		t.Errorf("source still present: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil || string(data) != "binary" {
		t.Fatalf("installed binary = %q, %v", data, err)
	}

	// Already in place
	moved, err = placeBinary(dst, dst)
	if err != nil || moved {
		t.Fatalf("second placeBinary = %v, %v", moved, err)
	}
}

func TestCopyBinary(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	if err := os.WriteFile(src, []byte("payload"), 0700); err != nil {
		t.Fatal(err)
	}

	if err := copyBinary(src, dst); err != nil {
		t.Fatalf("copyBinary: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil || string(data) != "payload" {
		t.Fatalf("copy = %q, %v", data, err)
	}
	if _, err = os.Stat(dst + ".new"); !os.IsNotExist(err) {
		t.Errorf("staging file left behind: %v", err)
	}
}
