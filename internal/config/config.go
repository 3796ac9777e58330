// Package config loads the environment-tunable knobs of the evaluator and
// the CLI shell: GC threshold, call-depth guard, and REPL prompt text.
// Wired the way the teacher's mainer.Parser drives CLI flags from the
// environment (EnvPrefix: binName + "_"), but for the values that make
// sense to carry across both one-shot script runs and a long-lived REPL
// process, using github.com/caarlos0/env/v6 directly rather than through
// mainer's flag layer.
package config

import "github.com/caarlos0/env/v6"

// DefaultGCThreshold mirrors machine.DefaultGCThreshold (spec.md §4.4);
// duplicated here as a literal so this package does not need to import
// lang/machine just to read one constant.
const DefaultGCThreshold = 50_000

// DefaultMaxCallDepth bounds recursive user-function calls (spec.md §5's
// resource-model note); 0 would mean "unbounded", which the evaluator
// treats as "disabled", so the default here is a concrete, generous cap.
const DefaultMaxCallDepth = 10_000

// DefaultPrompt is printed at the start of each REPL line when no
// BLUEBAT_PROMPT override is set.
const DefaultPrompt = "> "

// Config holds the environment-overridable settings threaded into the
// evaluator (lang/machine.Machine) and the CLI/REPL (internal/maincmd).
type Config struct {
	GCThreshold  int    `env:"BLUEBAT_GC_THRESHOLD" envDefault:"50000"`
	MaxCallDepth int    `env:"BLUEBAT_MAX_CALL_DEPTH" envDefault:"10000"`
	Prompt       string `env:"BLUEBAT_PROMPT" envDefault:"> "`
}

// Load reads BLUEBAT_* environment variables into a Config, applying the
// documented defaults for anything unset.
func Load() (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
