package emitconfig

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v3"

	"github.com/scalajs/jsemitter/internal/outmode"
)

// checkTagsOfType walks conf's fields, asserting every exported field
// carries a lower-case yaml tag matching its json tag, mirroring
// lib/config/config_test.go's CheckTagsOfType in the teacher corpus.
func checkTagsOfType(t *testing.T, v reflect.Type, seen map[string]struct{}) {
	t.Helper()
	if v.Kind() != reflect.Struct {
		return
	}
	path := v.PkgPath() + "." + v.Name()
	if _, ok := seen[path]; len(v.PkgPath()) > 0 && ok {
		return
	}
	seen[path] = struct{}{}

	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		if len(f.PkgPath) > 0 {
			continue
		}
		jTag := f.Tag.Get("json")
		yTag := f.Tag.Get("yaml")
		assert.NotEmpty(t, yTag, "field %v of %v has no yaml tag", f.Name, path)
		assert.Equal(t, strings.ToLower(yTag), yTag, "field %v of %v has non-lowercase yaml tag", f.Name, path)
		assert.Equal(t, jTag, yTag, "field %v of %v: json(%v) != yaml(%v)", f.Name, path, jTag, yTag)
		checkTagsOfType(t, f.Type, seen)
	}
}

func TestConfigTags(t *testing.T) {
	checkTagsOfType(t, reflect.TypeOf(NewConfig()), map[string]struct{}{})
}

func TestNewConfigDefaults(t *testing.T) {
	c := NewConfig()
	assert.Equal(t, outmode.DefaultMode, c.OutputMode)
	assert.Equal(t, Unchecked, c.Semantics.ModuleInit)
	assert.NoError(t, c.Validate())
}

func TestConfigYAMLRoundTrip(t *testing.T) {
	in := `
output_mode: 3
semantics:
  module_init: fatal
`
	var c Config
	dec := yaml.NewDecoder(strings.NewReader(in))
	require.NoError(t, dec.Decode(&c))
	assert.Equal(t, outmode.ES6Strong, c.OutputMode)
	assert.Equal(t, Fatal, c.Semantics.ModuleInit)
	assert.NoError(t, c.Validate())
}

func TestValidateRejectsUnknownValues(t *testing.T) {
	c := NewConfig()
	c.Semantics.ModuleInit = "bogus"
	assert.Error(t, c.Validate())

	c2 := NewConfig()
	c2.OutputMode = outmode.Mode(99)
	assert.Error(t, c2.Validate())
}
