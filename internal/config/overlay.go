package config

import (
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. GRAVLACE_SUBSTEPS.
const EnvPrefix = "GRAVLACE"

// Override keys understood by Overlay. Flags bound under the same names and
// GRAVLACE_* environment variables both resolve through them.
const (
	KeyG           = "g"
	KeySubsteps    = "substeps"
	KeyWorkers     = "workers"
	KeyMassEpsilon = "mass_epsilon"
	KeyHostDt      = "host_dt"
	KeyTicks       = "ticks"
	KeyRecordEvery = "record_every"
	KeyLogLevel    = "log_level"
)

func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetConfigType("yaml")
	return v
}

// Overlay copies every key set in v onto cfg; keys v has no value for leave
// the loaded file or preset untouched.
func Overlay(cfg *Config, v *viper.Viper) {
	if v.IsSet(KeyG) {
		cfg.Physics.G = v.GetFloat64(KeyG)
	}
	if v.IsSet(KeySubsteps) {
		cfg.Physics.Substeps = v.GetInt(KeySubsteps)
	}
	if v.IsSet(KeyWorkers) {
		cfg.Physics.Workers = v.GetInt(KeyWorkers)
	}
	if v.IsSet(KeyMassEpsilon) {
		cfg.Physics.MassEpsilon = v.GetFloat64(KeyMassEpsilon)
	}
	if v.IsSet(KeyHostDt) {
		cfg.Run.HostDt = v.GetFloat64(KeyHostDt)
	}
	if v.IsSet(KeyTicks) {
		cfg.Run.Ticks = v.GetInt(KeyTicks)
	}
	if v.IsSet(KeyRecordEvery) {
		cfg.Run.RecordEvery = v.GetInt(KeyRecordEvery)
	}
	if v.IsSet(KeyLogLevel) {
		cfg.LogLevel = v.GetString(KeyLogLevel)
	}
}
