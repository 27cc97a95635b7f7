// Package rtconfig supplies environment-driven defaults for the tunables
// exposed by crawler.Config and query.Engine (worker counts, default
// attribute set). It is intentionally narrow: it does not parse a
// user-facing configuration file or CLI flags, leaving that to an
// external collaborator. It only mirrors the "read defaults, let
// environment variables override them" shape of vvfs/config.LoadConfig.
package rtconfig

import (
	"strings"

	"github.com/spf13/viper"
)

// Defaults holds the environment-resolved tunables consumed when a caller
// constructs a crawler.Config or query.Engine without overriding them
// explicitly.
type Defaults struct {
	Threads      int      `mapstructure:"threads"`
	IgnoreHidden bool     `mapstructure:"ignoreHidden"`
	Attributes   []string `mapstructure:"attributes"`
	MaxHits      int      `mapstructure:"maxHits"`
}

// Load resolves Defaults from environment variables prefixed INDEXA_, e.g.
// INDEXA_THREADS, INDEXA_IGNOREHIDDEN, INDEXA_ATTRIBUTES, INDEXA_MAXHITS.
// It never reads a config file; there is no user-facing config surface
// here, only ambient environment overrides for library defaults.
func Load() (Defaults, error) {
	v := viper.New()
	v.SetEnvPrefix("INDEXA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("threads", 0) // 0 means "host logical CPUs", resolved by the caller
	v.SetDefault("ignoreHidden", true)
	v.SetDefault("attributes", []string{"size", "mtime"})
	v.SetDefault("maxHits", -1) // query.Unbounded; 0 would mean "cancel without matching"

	var d Defaults
	if err := v.Unmarshal(&d); err != nil {
		return Defaults{}, err
	}
	return d, nil
}
