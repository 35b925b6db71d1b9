package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/Faultbox/stlkit/pkg/stl"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
	if cfg.Read.Detection != "size" {
		t.Errorf("expected size detection, got %s", cfg.Read.Detection)
	}
	if cfg.Write.Format != "binary" {
		t.Errorf("expected binary output, got %s", cfg.Write.Format)
	}
	if cfg.Write.Precision != 0 {
		t.Errorf("expected shortest precision, got %d", cfg.Write.Precision)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), FileName)

	yamlContent := `
logging:
  level: "debug"
  log_file: "stltool.log"

read:
  detection: token

write:
  format: ascii
  precision: 7
  solid_name: "bracket"
  header: "exported by stltool"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "stltool.log" {
		t.Errorf("expected log file 'stltool.log', got %s", cfg.Logging.LogFile)
	}
	if cfg.Read.Detection != "token" {
		t.Errorf("expected token detection, got %s", cfg.Read.Detection)
	}
	if cfg.Write.Format != "ascii" || cfg.Write.Precision != 7 {
		t.Errorf("unexpected write section %+v", cfg.Write)
	}
	if cfg.Write.SolidName != "bracket" || cfg.Write.Header != "exported by stltool" {
		t.Errorf("unexpected names %+v", cfg.Write)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")

	invalidYAML := `
write:
  precision: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/stltool.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"detection", func(c *Config) { c.Read.Detection = "magic" }, "read.detection"},
		{"format", func(c *Config) { c.Write.Format = "obj" }, "write.format"},
		{"precision", func(c *Config) { c.Write.Precision = 12 }, "write.precision"},
		{"header", func(c *Config) { c.Write.Header = strings.Repeat("h", 81) }, "write.header"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if err == nil || !strings.HasPrefix(err.Error(), tt.field) {
				t.Errorf("expected %s error, got %v", tt.field, err)
			}
		})
	}
}

func TestValidateHeaderLength(t *testing.T) {
	tests := []struct {
		name   string
		header string
		ok     bool
	}{
		{"80 ascii", strings.Repeat("h", 80), true},
		{"60 accented", strings.Repeat("é", 60), true},
		{"80 accented", strings.Repeat("ü", 80), true},
		{"81 accented", strings.Repeat("ü", 81), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Write.Header = tt.header
			if err := cfg.Validate(); (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestOutputFormat(t *testing.T) {
	tests := []struct {
		in   string
		want stl.Format
	}{
		{"", stl.FormatBinary},
		{"BINARY", stl.FormatBinary},
		{"ascii", stl.FormatASCII},
		{"text", stl.FormatASCII},
	}

	for _, tt := range tests {
		cfg := Default()
		cfg.Write.Format = tt.in
		got, err := cfg.OutputFormat()
		if err != nil || got != tt.want {
			t.Errorf("OutputFormat(%q) = %s, %v; want %s", tt.in, got, err, tt.want)
		}
	}
}

func TestCodec(t *testing.T) {
	cfg := Default()
	cfg.Read.Detection = "token"
	cfg.Write.Precision = 6
	cfg.Write.SolidName = "part"

	codec, err := cfg.Codec(nil)
	if err != nil {
		t.Fatalf("Codec failed: %v", err)
	}
	if codec.Detection != stl.DetectToken || codec.Precision != 6 || codec.SolidName != "part" {
		t.Errorf("unexpected codec %+v", codec)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	tmpDir := t.TempDir()
	testChdir(t, tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, FileName), []byte("write:\n  format: ascii\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Errorf("expected to find %s in current directory", FileName)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		verify func(*testing.T, *Config)
	}{
		{
			name: "debug flag",
			args: []string{"--debug"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
		},
		{
			name: "log file flag",
			args: []string{"--log-file", "/tmp/stl.log"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.LogFile != "/tmp/stl.log" {
					t.Errorf("expected log file override, got %s", cfg.Logging.LogFile)
				}
			},
		},
		{
			name: "detect flag",
			args: []string{"--detect=token"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Read.Detection != "token" {
					t.Errorf("expected token detection, got %s", cfg.Read.Detection)
				}
			},
		},
		{
			name: "explicit zero precision",
			args: []string{"--precision", "0"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Write.Precision != 0 {
					t.Errorf("expected precision 0, got %d", cfg.Write.Precision)
				}
			},
		},
		{
			name: "unset precision keeps config",
			args: nil,
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Write.Precision != 5 {
					t.Errorf("expected precision 5, got %d", cfg.Write.Precision)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
			flags := BindFlags(fs)
			if err := fs.Parse(tt.args); err != nil {
				t.Fatalf("parse failed: %v", err)
			}

			cfg := Default()
			cfg.Write.Precision = 5
			flags.apply(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), FileName)

	yamlContent := `
read:
  detection: token
write:
  precision: 4
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags := BindFlags(fs)
	if err := fs.Parse([]string{"--config", configPath, "--precision", "8"}); err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	cfg, err := Load(flags)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Write.Precision != 8 {
		t.Errorf("expected precision 8 from flag, got %d", cfg.Write.Precision)
	}
	if cfg.Read.Detection != "token" {
		t.Errorf("expected token detection from file, got %s", cfg.Read.Detection)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level, got %s", cfg.Logging.Level)
	}
}

func TestLoadRejectsInvalidFlag(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	testChdir(t, t.TempDir())

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags := BindFlags(fs)
	if err := fs.Parse([]string{"--detect", "guess"}); err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if _, err := Load(flags); err == nil {
		t.Error("expected validation error for unknown detection strategy")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	cfg := Default()
	cfg.Write.Format = "ascii"
	cfg.Write.SolidName = "saved"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if loaded.Write != cfg.Write {
		t.Errorf("write section = %+v, want %+v", loaded.Write, cfg.Write)
	}
}

func TestSave(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("APPDATA", t.TempDir())

	if err := Default().Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(ConfigDir(), FileName)); err != nil {
		t.Errorf("expected saved config: %v", err)
	}
}

// testChdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir, which needs Go 1.24).
func testChdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
