// Package emitconfig is the driver's configuration surface: the output
// dialect, the binary-compatibility "Semantics" seam and the module
// initializer checked-behavior mode (spec.md §7, §9). It follows the
// teacher's lib/config convention of a plain struct with dual json/yaml
// tags and a New()-style constructor supplying defaults, decoded with
// gopkg.in/yaml.v3.
package emitconfig

import (
	"fmt"

	"github.com/scalajs/jsemitter/internal/outmode"
)

// CheckedBehavior selects how a module accessor detects re-entrant
// initialization (spec.md §7).
type CheckedBehavior string

// All checked-behavior modes.
const (
	Unchecked CheckedBehavior = "unchecked"
	Compliant CheckedBehavior = "compliant"
	Fatal     CheckedBehavior = "fatal"
)

// Valid reports whether b is one of the three defined checked-behavior
// modes.
func (b CheckedBehavior) Valid() bool {
	switch b {
	case Unchecked, Compliant, Fatal:
		return true
	}
	return false
}

// Semantics carries the binary-compatibility seam spec.md §9 requires:
// public operations accepting Semantics must keep accepting it even as new
// fields are added here.
type Semantics struct {
	// ModuleInit selects the module-accessor checked-behavior mode.
	ModuleInit CheckedBehavior `json:"module_init" yaml:"module_init"`
}

// NewSemantics returns the default Semantics: Unchecked module-init
// behavior, matching the historical default of the original linker.
func NewSemantics() Semantics {
	return Semantics{ModuleInit: Unchecked}
}

// Config is the full set of emitter-driver options.
type Config struct {
	// OutputMode selects the target JS dialect. Constructors that omit this
	// field must default to ES5-Global (spec.md §9).
	OutputMode outmode.Mode `json:"output_mode" yaml:"output_mode"`

	Semantics Semantics `json:"semantics" yaml:"semantics"`
}

// NewConfig returns a Config with the spec-mandated defaults: ES5-Global
// output and Unchecked module-init semantics.
func NewConfig() Config {
	return Config{
		OutputMode: outmode.DefaultMode,
		Semantics:  NewSemantics(),
	}
}

// Validate checks that the configured values are members of their closed
// enumerations, surfacing a malformed YAML/JSON decode (e.g. an
// out-of-range OutputMode) before a run begins.
func (c Config) Validate() error {
	if _, ok := outmode.Registry[c.OutputMode]; !ok {
		return fmt.Errorf("emitconfig: unknown output mode %v", c.OutputMode)
	}
	if !c.Semantics.ModuleInit.Valid() {
		return fmt.Errorf("emitconfig: unknown module-init checked behavior %q", c.Semantics.ModuleInit)
	}
	return nil
}
