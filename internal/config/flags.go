package config

import "flag"

var (
	flagConfig = flag.String("config", "", "Path to config file")
	flagDebug  = flag.Bool("debug", false, "Enable debug logging")
	flagScene  = flag.String("scene", "", "Path to scene file")
	flagRadius = flag.Float64("radius", 0, "Placement radius")
	flagCount  = flag.Int("count", 0, "Number of samples")
	flagSeed   = flag.Int64("seed", -1, "Random seed")
	flagOut    = flag.String("out", "", "Journal output path")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag arguments.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagScene != "" {
		cfg.Scene.Path = *flagScene
	}
	if *flagRadius > 0 {
		cfg.Placement.Radius = float32(*flagRadius)
	}
	if *flagCount > 0 {
		cfg.Placement.SampleCount = *flagCount
	}
	if *flagSeed >= 0 {
		cfg.Placement.Seed = uint64(*flagSeed)
	}
	if *flagOut != "" {
		cfg.Output.Journal = *flagOut
	}
}
