package desugar

import (
	"fmt"

	"github.com/scalajs/jsemitter/internal/ir"
)

// ParamSpec validates an IR method's declared parameter list before
// desugaring its body, so a malformed call site (wrong arity) fails with a
// clear error instead of an out-of-range slice access deep inside a
// desugaring rule. Mirrors public/bloblang/arguments.go's ArgSpec: build up
// a validator by chaining Named calls, then Extract against the real
// argument list.
type ParamSpec struct {
	names []string
}

// NewParamSpec creates an empty parameter validator.
func NewParamSpec() *ParamSpec {
	return &ParamSpec{}
}

// Named declares the next expected parameter name, returning the spec for
// chaining.
func (p *ParamSpec) Named(name string) *ParamSpec {
	p.names = append(p.names, name)
	return p
}

// Extract validates params against the declared arity and returns the
// parameter names in order, ready to populate a jstree.Function's Params.
func (p *ParamSpec) Extract(params []ir.Param) ([]string, error) {
	if len(params) != len(p.names) {
		return nil, fmt.Errorf("desugar: expected %d parameters, got %d", len(p.names), len(params))
	}
	out := make([]string, len(params))
	for i, pr := range params {
		out[i] = pr.Name
	}
	return out, nil
}

// PrependReceiver returns a new parameter-name slice with receiverIdent
// inserted at the front, used for default (interface) method emission where
// the receiver becomes an explicit first parameter (spec.md §4.2).
func PrependReceiver(receiverIdent string, params []string) []string {
	out := make([]string, 0, len(params)+1)
	out = append(out, receiverIdent)
	out = append(out, params...)
	return out
}
