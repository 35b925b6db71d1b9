package config

import "github.com/spf13/pflag"

// Flags holds command-line overrides registered on a flag set.
type Flags struct {
	fs *pflag.FlagSet

	ConfigPath string
	Debug      bool
	LogFile    string
	Detect     string
	Precision  int
}

// BindFlags registers the configuration flags on fs.
func BindFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVar(&f.ConfigPath, "config", "", "path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "enable debug logging")
	fs.StringVar(&f.LogFile, "log-file", "", "also log to a rotating file")
	fs.StringVar(&f.Detect, "detect", "", "format detection: size or token")
	fs.IntVar(&f.Precision, "precision", 0, "significant digits for ASCII output (0 = shortest exact)")
	return f
}

// apply copies explicitly set flags over cfg.
func (f *Flags) apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
	if f.Detect != "" {
		cfg.Read.Detection = f.Detect
	}
	if f.fs != nil && f.fs.Changed("precision") {
		cfg.Write.Precision = f.Precision
	}
}
