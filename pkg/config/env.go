// pkg/config/env.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variables read by ApplyEnvironmentOverrides
const (
	EnvSamplePeriod = "PARTICLESIM_SAMPLE_PERIOD"
	EnvFrameRate    = "PARTICLESIM_FRAME_RATE"
	EnvMaxTicks     = "PARTICLESIM_MAX_TICKS"
	EnvGravity      = "PARTICLESIM_GRAVITY"
	EnvSpin         = "PARTICLESIM_SPIN"
	EnvPlanar       = "PARTICLESIM_PLANAR"
	EnvOrdering     = "PARTICLESIM_ORDERING"
	EnvTracePath    = "PARTICLESIM_TRACE_PATH"
	EnvTraceFormat  = "PARTICLESIM_TRACE_FORMAT"
)

// ApplyEnvironmentOverrides replaces configuration values with those set in
// the environment. Unset or empty variables leave the value untouched.
func ApplyEnvironmentOverrides(config *SimulationConfig) error {
	if err := overrideFloat(EnvSamplePeriod, &config.SamplePeriod); err != nil {
		return err
	}
	if err := overrideInt(EnvFrameRate, &config.FrameRate); err != nil {
		return err
	}
	if err := overrideUint(EnvMaxTicks, &config.MaxTicks); err != nil {
		return err
	}
	if err := overrideBool(EnvGravity, &config.Physics.Gravity); err != nil {
		return err
	}
	if err := overrideBool(EnvSpin, &config.Physics.Spin); err != nil {
		return err
	}
	if err := overrideBool(EnvPlanar, &config.Physics.Planar); err != nil {
		return err
	}
	overrideString(EnvOrdering, &config.Physics.Ordering)
	overrideString(EnvTracePath, &config.Trace.Path)
	overrideString(EnvTraceFormat, &config.Trace.Format)

	return nil
}

func lookupEnv(key string) (string, bool) {
	value := strings.TrimSpace(os.Getenv(key))
	return value, value != ""
}

func overrideString(key string, target *string) {
	if value, ok := lookupEnv(key); ok {
		*target = value
	}
}

func overrideFloat(key string, target *float64) error {
	value, ok := lookupEnv(key)
	if !ok {
		return nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	*target = parsed
	return nil
}

func overrideInt(key string, target *int) error {
	value, ok := lookupEnv(key)
	if !ok {
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	*target = parsed
	return nil
}

func overrideUint(key string, target *uint64) error {
	value, ok := lookupEnv(key)
	if !ok {
		return nil
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	*target = parsed
	return nil
}

func overrideBool(key string, target *bool) error {
	value, ok := lookupEnv(key)
	if !ok {
		return nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	*target = parsed
	return nil
}
