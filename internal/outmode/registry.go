// Package outmode is the output-mode registry (spec.md §4's component C2):
// the four target dialects and the feature predicates the rest of the
// emitter switches on. The registry shape (a Mode -> Spec map populated at
// init time) mirrors lib/cache/constructor.go's Constructors map of TypeSpec
// values in the teacher corpus, adapted from "pluggable cache backends" to
// "closed set of output dialects".
package outmode

import "fmt"

// Mode is one of the four target JS dialects spec.md §1 names.
type Mode int

// All output modes.
const (
	ES5Global Mode = iota
	ES5Isolated
	ES6
	ES6Strong
)

// String returns the mode's canonical name.
func (m Mode) String() string {
	if s, ok := Registry[m]; ok {
		return s.Name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Spec bundles a mode's name, feature predicates and exact prelude/postlude
// text (spec.md §6). Predicates are plain fields rather than methods so the
// closed set in Registry stays the single source of truth (spec.md §9,
// "output-mode match tables ... are complete and mutually exclusive").
type Spec struct {
	Name string

	// UsesClasses is true for modes that emit ES6 `class` declarations
	// instead of ES5 constructor-function + prototype-chain shapes.
	UsesClasses bool

	// IsStrong is true only for ES6Strong, the mode that splices into the
	// pre-rendered core library by marker lines (spec.md §4.6).
	IsStrong bool

	// Wrapped is true for modes whose prelude/postlude bracket the output in
	// an IIFE (ES5Isolated, ES6, ES6Strong).
	Wrapped bool

	// Prelude and Postlude return the exact text spec.md §6 specifies. For
	// ES6Strong, Prelude returns only the function-header/'use strict'/'use
	// strong' lines; the core-library body itself is spliced in during
	// emit, not returned here (spec.md §4.6).
	Prelude  func() []string
	Postlude func() []string
}

// Registry is the closed, mode-keyed set of dialect specs. Populated by
// init() so every mode is available before any caller constructs a driver.
var Registry = map[Mode]Spec{}

func init() {
	Registry[ES5Global] = Spec{
		Name:        "ES5-Global",
		UsesClasses: false,
		IsStrong:    false,
		Wrapped:     false,
		Prelude: func() []string {
			return []string{"'use strict';"}
		},
		Postlude: func() []string { return nil },
	}

	Registry[ES5Isolated] = Spec{
		Name:        "ES5-Isolated",
		UsesClasses: false,
		IsStrong:    false,
		Wrapped:     true,
		Prelude: func() []string {
			return []string{"(function(){", "'use strict';"}
		},
		Postlude: func() []string {
			return []string{"}).call(this);"}
		},
	}

	Registry[ES6] = Spec{
		Name:        "ES6",
		UsesClasses: true,
		IsStrong:    false,
		Wrapped:     true,
		Prelude: func() []string {
			return []string{"(function(){", "'use strict';"}
		},
		Postlude: func() []string {
			return []string{"}).call(this);"}
		},
	}

	Registry[ES6Strong] = Spec{
		Name:        "ES6-Strong",
		UsesClasses: true,
		IsStrong:    true,
		Wrapped:     true,
		Prelude: func() []string {
			return []string{
				"(function(__this, __ScalaJSEnv, __global, $jsSelect, $jsAssign, $jsDelete, $propertiesOf, $weakFun) {",
				"'use strict';",
				"'use strong';",
			}
		},
		Postlude: func() []string {
			return []string{
				"})(this, (typeof __ScalaJSEnv !== 'undefined') ? __ScalaJSEnv : void 0, (typeof global !== 'undefined') ? global : void 0, function(x,p){'use strict'; return x[p];}, function(x,p,v){'use strict'; x[p]=v;}, function(x,p){'use strict'; delete x[p];}, function(x){'use strict'; const r=[]; for (const p in x) r['push'](p); return r;}, function(f){'use strict'; return function(...args){ return f['apply'](void 0, args); }});",
			}
		},
	}
}

// DefaultMode is ES5-Global, the historical default spec.md §9's
// binary-compatibility seam requires for constructors that omit OutputMode.
const DefaultMode = ES5Global
