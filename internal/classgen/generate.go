package classgen

import (
	"github.com/scalajs/jsemitter/internal/desugar"
	"github.com/scalajs/jsemitter/internal/emitcache"
	"github.com/scalajs/jsemitter/internal/emitconfig"
	"github.com/scalajs/jsemitter/internal/ir"
	"github.com/scalajs/jsemitter/internal/jstree"
	"github.com/scalajs/jsemitter/internal/outmode"
	"github.com/scalajs/jsemitter/internal/tagengine"
)

// Lookup resolves class's ClassCache and current-version DesugaredClassCache
// from cache, recording the class-level reuse/invalidation stats exactly
// once (spec.md §4.4's lookup protocol). Strong-mode splicing (C8) calls
// this once per class up front and threads the returned handles through the
// per-phase functions below instead of re-resolving per marker, so a class
// split across markers is still counted as a single class-cache lookup.
func Lookup(class *ir.LinkedClass, cache *emitcache.Engine) (*emitcache.ClassCache, *emitcache.DesugaredClassCache) {
	cc := cache.ClassCache(class.Ancestors)
	dcc, reused := cc.Desugared(class.Version)
	cache.RecordClassLookup(class.EncodedName, reused)
	cache.NoteGenerated(class.EncodedName)
	return cc, dcc
}

// Generate produces every emittable piece for one linked class, in the
// order spec.md §4.3's table lists them, for non-strong output modes. It is
// a thin composition of the per-phase functions below, each of which also
// backs the strong-mode marker splicing the driver performs directly
// (spec.md §4.6).
func Generate(
	class *ir.LinkedClass,
	tags *tagengine.Table,
	mode outmode.Mode,
	semantics emitconfig.Semantics,
	q desugar.Queries,
	cache *emitcache.Engine,
) ([]jstree.Node, error) {
	cc, dcc := Lookup(class, cache)

	var out []jstree.Node

	body, err := ClassBody(class, mode, q, cc, dcc, cache)
	if err != nil {
		return nil, err
	}
	out = append(out, body...)

	instTests, err := InstanceTests(class, tags, dcc)
	if err != nil {
		return nil, err
	}
	out = append(out, instTests...)

	arrayTests, err := ArrayInstanceTests(class, tags)
	if err != nil {
		return nil, err
	}
	out = append(out, arrayTests...)

	typeData, err := TypeData(class, tags, mode, dcc)
	if err != nil {
		return nil, err
	}
	out = append(out, typeData...)

	accessor, has, err := ModuleAccessor(class, semantics.ModuleInit, dcc)
	if err != nil {
		return nil, err
	}
	if has {
		out = append(out, accessor)
	}

	exports, err := Exports(class, mode, dcc)
	if err != nil {
		return nil, err
	}
	out = append(out, exports...)

	return out, nil
}

// ClassBody builds the static methods, constructor, default/member methods
// and exported members/properties pieces (spec.md §4.3's first five rows),
// routing per-method caching through cc and the constructor/exported-member
// OneTimeCache slots through dcc.
func ClassBody(
	class *ir.LinkedClass,
	mode outmode.Mode,
	q desugar.Queries,
	cc *emitcache.ClassCache,
	dcc *emitcache.DesugaredClassCache,
	cache *emitcache.Engine,
) ([]jstree.Node, error) {
	// Class-based dialects (ES6, ES6Strong) own one ClassNode per class;
	// its constructor/static/member pieces are MethodDefs that must live
	// inside Members, not as loose top-level statements. Interfaces never
	// get a ClassNode (they have no constructor and their instance methods
	// are default methods dispatched through a `$thiz`-style free function,
	// spec.md §4.3's "default (interface) methods" row), so their pieces
	// stay loose in every dialect.
	wrapsInClass := outmode.Registry[mode].UsesClasses && class.Kind != ir.KindInterface

	var loose []jstree.Node
	var members []jstree.Node

	if needsConstructor(class) {
		tree, err := dcc.Constructor.GetOrElseUpdate(func() (jstree.Node, error) {
			nodes, err := genConstructor(class, mode, q)
			if err != nil {
				return nil, err
			}
			return jstree.Block{Stmts: nodes}, nil
		})
		if err != nil {
			return nil, err
		}
		pieces := flattenBlock(tree)
		if wrapsInClass {
			members = append(members, pieces...)
		} else {
			loose = append(loose, pieces...)
		}
	}

	for _, m := range class.StaticMethods {
		mc := cc.StaticMethod(m.Name)
		tree, reused, err := mc.GetOrElseUpdate(class.Version, func() (jstree.Node, error) {
			return genStaticMethod(class, m, mode, q)
		})
		if err != nil {
			return nil, err
		}
		cache.RecordMethodLookup(reused)
		if wrapsInClass {
			members = append(members, tree)
		} else {
			loose = append(loose, tree)
		}
	}

	if class.Kind == ir.KindInterface {
		for _, m := range class.MemberMethods {
			mc := cc.Method(m.Name)
			tree, reused, err := mc.GetOrElseUpdate(class.Version, func() (jstree.Node, error) {
				return genDefaultMethod(class, m, mode, q)
			})
			if err != nil {
				return nil, err
			}
			cache.RecordMethodLookup(reused)
			loose = append(loose, tree)
		}
	} else {
		for _, m := range class.MemberMethods {
			if excludedByCtorOpt(class, m, q) {
				continue
			}
			mc := cc.Method(m.Name)
			tree, reused, err := mc.GetOrElseUpdate(class.Version, func() (jstree.Node, error) {
				return genMemberMethod(class, m, mode, q)
			})
			if err != nil {
				return nil, err
			}
			cache.RecordMethodLookup(reused)
			if wrapsInClass {
				members = append(members, tree)
			} else {
				loose = append(loose, tree)
			}
		}
	}

	exportedTree, err := dcc.ExportedMembers.GetOrElseUpdate(func() (jstree.Node, error) {
		nodes, err := genExportedMembers(class, mode, q)
		if err != nil {
			return nil, err
		}
		return jstree.Block{Stmts: nodes}, nil
	})
	if err != nil {
		return nil, err
	}
	exportedPieces := flattenBlock(exportedTree)
	if wrapsInClass {
		members = append(members, exportedPieces...)
	} else {
		loose = append(loose, exportedPieces...)
	}

	var out []jstree.Node
	if wrapsInClass {
		var super jstree.Node
		if class.SuperClass != "" {
			super = jstree.Ident{Name: "c_" + class.SuperClass}
		}
		out = append(out, jstree.ClassNode{Name: "c_" + class.EncodedName, Super: super, Members: members})
	}
	out = append(out, loose...)

	return out, nil
}

// InstanceTests builds the is_C/as_C pair, cached under dcc.InstanceTests
// (spec.md §4.3's "instance tests" row).
func InstanceTests(class *ir.LinkedClass, tags *tagengine.Table, dcc *emitcache.DesugaredClassCache) ([]jstree.Node, error) {
	if !needInstanceTests(class) {
		return nil, nil
	}
	tree, err := dcc.InstanceTests.GetOrElseUpdate(func() (jstree.Node, error) {
		nodes, err := genInstanceTest(class, tags)
		if err != nil {
			return nil, err
		}
		return jstree.Block{Stmts: nodes}, nil
	})
	if err != nil {
		return nil, err
	}
	return flattenBlock(tree), nil
}

// ArrayInstanceTests builds the isArrayOf_C/asArrayOf_C pair. Every class
// gets one (spec.md §4.3's "array instance tests" row: "always per class"),
// so unlike the other pieces it is not OneTimeCache-gated; the underlying
// generator is cheap and purely a function of (class, tags).
func ArrayInstanceTests(class *ir.LinkedClass, tags *tagengine.Table) ([]jstree.Node, error) {
	return genArrayInstanceTest(class, tags)
}

// TypeData builds the type-data initializer and, where applicable, the
// set-type-data piece (spec.md §4.3's "type data"/"set-type-data" rows),
// cached under dcc.TypeData/dcc.SetTypeData.
func TypeData(class *ir.LinkedClass, tags *tagengine.Table, mode outmode.Mode, dcc *emitcache.DesugaredClassCache) ([]jstree.Node, error) {
	if !class.HasRuntimeTypeInfo {
		return nil, nil
	}

	var out []jstree.Node
	tree, err := dcc.TypeData.GetOrElseUpdate(func() (jstree.Node, error) {
		return genTypeData(class, tags, mode)
	})
	if err != nil {
		return nil, err
	}
	out = append(out, tree)

	if needsSetTypeData(class, mode) {
		setTree, err := dcc.SetTypeData.GetOrElseUpdate(func() (jstree.Node, error) {
			return genSetTypeData(class, tags)
		})
		if err != nil {
			return nil, err
		}
		out = append(out, setTree)
	}

	return out, nil
}

// ModuleAccessor builds the module singleton accessor, cached under
// dcc.ModuleAccessor (spec.md §4.3's "module accessor" row). has is false
// when class.Kind has no module accessor at all.
func ModuleAccessor(class *ir.LinkedClass, behavior emitconfig.CheckedBehavior, dcc *emitcache.DesugaredClassCache) (node jstree.Node, has bool, err error) {
	if !class.Kind.HasModuleAccessor() {
		return nil, false, nil
	}
	tree, err := dcc.ModuleAccessor.GetOrElseUpdate(func() (jstree.Node, error) {
		return genModuleAccessor(class, behavior), nil
	})
	if err != nil {
		return nil, false, err
	}
	return tree, true, nil
}

// Exports builds the class/module export assignments, cached under
// dcc.ClassExports (spec.md §4.3's "class/module exports" row).
func Exports(class *ir.LinkedClass, mode outmode.Mode, dcc *emitcache.DesugaredClassCache) ([]jstree.Node, error) {
	if len(class.ClassExports) == 0 {
		return nil, nil
	}
	tree, err := dcc.ClassExports.GetOrElseUpdate(func() (jstree.Node, error) {
		nodes, err := genClassExports(class, mode)
		if err != nil {
			return nil, err
		}
		return jstree.Block{Stmts: nodes}, nil
	})
	if err != nil {
		return nil, err
	}
	return flattenBlock(tree), nil
}

// DeclareTypeData builds the forward `var d_ClassName;` declaration strong
// mode emits ahead of every class body, so pieces that reference a not-yet-
// defined sibling's type data still resolve (spec.md §4.6's first marker).
func DeclareTypeData(class *ir.LinkedClass) jstree.Node {
	return jstree.VarDecl{Kind: jstree.VarVar, Name: "d_" + class.EncodedName}
}

// DeclareModule builds the forward `var n_ClassName;` declaration strong
// mode emits ahead of every class body (spec.md §4.6's second marker).
func DeclareModule(class *ir.LinkedClass) jstree.Node {
	return jstree.VarDecl{Kind: jstree.VarVar, Name: "n_" + class.EncodedName}
}

func flattenBlock(n jstree.Node) []jstree.Node {
	if blk, ok := n.(jstree.Block); ok {
		return blk.Stmts
	}
	return []jstree.Node{n}
}
