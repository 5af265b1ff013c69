// Package ir holds the read-only intermediate representation consumed by the
// emitter: linked classes produced by an external linker/optimizer. Nothing in
// this package mutates its inputs; the emitter treats values of these types as
// immutable for the lifetime of a run.
package ir

// ClassKind describes the shape of a linked class, mirroring the closed set
// of kinds a Scala.js-style linker can hand to the backend.
type ClassKind int

// All class kinds.
const (
	KindClass ClassKind = iota
	KindModuleClass
	KindJSClass
	KindJSModuleClass
	KindInterface
	KindRawJSType
	KindHijackedClass
)

// String returns the kind's identifier, used in diagnostics and cache logs.
func (k ClassKind) String() string {
	switch k {
	case KindClass:
		return "Class"
	case KindModuleClass:
		return "ModuleClass"
	case KindJSClass:
		return "JSClass"
	case KindJSModuleClass:
		return "JSModuleClass"
	case KindInterface:
		return "Interface"
	case KindRawJSType:
		return "RawJSType"
	case KindHijackedClass:
		return "HijackedClass"
	}
	return "Unknown"
}

// IsInterface reports whether the kind is Interface.
func (k ClassKind) IsInterface() bool { return k == KindInterface }

// IsClass reports whether the kind is one of the two plain class kinds.
func (k ClassKind) IsClass() bool { return k == KindClass || k == KindModuleClass }

// IsJSType reports whether instances of the kind are backed by a native JS
// class declaration rather than a desugared ES5/ES6 constructor function.
func (k ClassKind) IsJSType() bool {
	return k == KindJSClass || k == KindJSModuleClass || k == KindRawJSType
}

// IsAnyScalaJSDefinedClass reports whether the kind is any kind whose
// instances are actually constructed (as opposed to interfaces, which never
// have instances of their own).
func (k ClassKind) IsAnyScalaJSDefinedClass() bool {
	switch k {
	case KindClass, KindModuleClass, KindJSClass, KindJSModuleClass:
		return true
	}
	return false
}

// HasModuleAccessor reports whether the kind requires a module singleton
// accessor function (spec.md §4.3, "module accessor").
func (k ClassKind) HasModuleAccessor() bool {
	return k == KindModuleClass || k == KindJSModuleClass
}

//------------------------------------------------------------------------------

// Param is a single parameter of a method or constructor.
type Param struct {
	Name string
}

// MethodDef is a single static or member method attached to a linked class.
type MethodDef struct {
	Name string

	// Static is true for methods emitted under the static-method table rather
	// than the instance prototype/class body.
	Static bool

	// IsConstructor marks a method whose encoded name matches the IR's
	// constructor-name predicate (spec.md §4.3, "Constructor-bearing
	// methods"); such methods must return `this` from their emitted body.
	IsConstructor bool

	// ThisIdent is carried with the method but not read by the generator:
	// default (interface) methods are always emitted with the receiver as
	// an explicit first parameter named `$thiz` (spec.md §4.2; see
	// genDefaultMethod in internal/classgen).
	ThisIdent string

	Params []Param
	Body   Expr
}

// ExportedMemberKind distinguishes the shape of an exported class member.
type ExportedMemberKind int

// All exported-member kinds.
const (
	ExportedMethod ExportedMemberKind = iota
	ExportedGetter
	ExportedSetter
	ExportedConstructor
)

// ExportedMember is a member of a class exposed under a literal export name,
// used both for ordinary `@JSExport` members and for the literal
// `"constructor"` member of a JS class (spec.md §4.3, "JS classes").
type ExportedMember struct {
	// NameLiteral is the literal property name under which the member is
	// exported, e.g. "constructor" for a JS class's constructor body.
	NameLiteral string
	Kind        ExportedMemberKind
	Params      []Param
	Body        Expr
}

// ClassExportDirective describes one export of a class or module under a
// dotted namespace path (spec.md §4.3, "class/module exports").
type ClassExportDirective struct {
	// Path is the dotted namespace path, e.g. []string{"my", "pkg", "Foo"}.
	Path []string
}

// Field is an instance field of a linked class.
type Field struct {
	Name    string
	Mutable bool
}

// LinkedClass is the read-only input unit for a single class: everything the
// emitter needs to desugar and generate its JS representation. Values of this
// type are produced by an external linker and never mutated by the emitter.
type LinkedClass struct {
	EncodedName  string
	OriginalName string // optional display name; empty if absent

	Kind       ClassKind
	SuperClass string // optional; empty string means "no super" (root/orphan)

	// Ancestors is the transitive closure of the inheritance relation
	// including the class itself, in a stable order; it is cache-key
	// material and must never be reordered between runs that represent the
	// same logical class (spec.md §3, §9 "Order-significant maps").
	Ancestors []string

	Fields          []Field
	StaticMethods   []MethodDef
	MemberMethods   []MethodDef
	ExportedMembers []ExportedMember
	ClassExports    []ClassExportDirective

	HasInstances       bool
	HasInstanceTests   bool
	HasRuntimeTypeInfo bool

	// Version is an opaque content-identity token; equality between runs
	// signals the class tree did not change. An empty Version must be
	// treated as "absent" and always forces invalidation (spec.md §3).
	Version string

	// JSName is populated only for raw JS types.
	JSName string
}

// HasVersion reports whether Version carries content-identity information.
func (c *LinkedClass) HasVersion() bool { return c.Version != "" }

// DisplayName returns OriginalName if present, otherwise EncodedName; used
// for diagnostics and the module-initializer re-entrancy message (spec.md
// §7).
func (c *LinkedClass) DisplayName() string {
	if c.OriginalName != "" {
		return c.OriginalName
	}
	return c.EncodedName
}

// ConstructorExportedMember returns the exported member whose name literal is
// "constructor", if any. JS classes rely on this member for their
// constructor body (spec.md §4.3).
func (c *LinkedClass) ConstructorExportedMember() (ExportedMember, bool) {
	for _, m := range c.ExportedMembers {
		if m.NameLiteral == "constructor" {
			return m, true
		}
	}
	return ExportedMember{}, false
}

// ConstructorMethod returns the member method matching the IR's
// constructor-name predicate, if the class declares one (spec.md §4.3,
// "Constructor-bearing methods").
func (c *LinkedClass) ConstructorMethod() (MethodDef, bool) {
	for _, m := range c.MemberMethods {
		if m.IsConstructor {
			return m, true
		}
	}
	return MethodDef{}, false
}

//------------------------------------------------------------------------------

// LinkingUnit is the full set of linked classes handed to the emitter for a
// single run.
type LinkingUnit struct {
	Classes []*LinkedClass
}

// ByEncodedName returns a lookup map of this unit's classes by encoded name.
// Callers that need ordered iteration should prefer the radix-backed index
// built by internal/classgen instead of ranging over this map.
func (u *LinkingUnit) ByEncodedName() map[string]*LinkedClass {
	out := make(map[string]*LinkedClass, len(u.Classes))
	for _, c := range u.Classes {
		out[c.EncodedName] = c
	}
	return out
}
