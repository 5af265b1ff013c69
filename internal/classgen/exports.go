package classgen

import (
	"fmt"
	"strings"

	"github.com/Jeffail/gabs/v2"

	"github.com/scalajs/jsemitter/internal/ir"
	"github.com/scalajs/jsemitter/internal/jstree"
	"github.com/scalajs/jsemitter/internal/outmode"
)

// genClassExports builds the dotted `ScalaJS.e` namespace assignments (ES5
// family) or `$exportCtor` delegate calls (strong mode) for every export
// directive of class (spec.md §4.3's "class/module exports" row).
func genClassExports(class *ir.LinkedClass, mode outmode.Mode) ([]jstree.Node, error) {
	var out []jstree.Node
	for _, exp := range class.ClassExports {
		nodes, err := genOneExport(class, exp, mode)
		if err != nil {
			return nil, err
		}
		out = append(out, nodes...)
	}
	return out, nil
}

func genOneExport(class *ir.LinkedClass, exp ir.ClassExportDirective, mode outmode.Mode) ([]jstree.Node, error) {
	if len(exp.Path) == 0 {
		return nil, fmt.Errorf("classgen: export directive for %s has an empty path", class.EncodedName)
	}

	if outmode.Registry[mode].IsStrong {
		return []jstree.Node{jstree.ExprStmt{Expr: jstree.Call{
			Callee: jstree.Ident{Name: "$exportCtor"},
			Args: []jstree.Node{
				jstree.Lit{Value: strings.Join(exp.Path, ".")},
				jstree.Ident{Name: "c_" + class.EncodedName},
			},
		}}}, nil
	}

	// gabs builds the dotted path as a nested single-child object tree, the
	// same way it builds any other nested JSON path tree in this corpus;
	// walking that tree back out (rather than exp.Path directly) is what
	// makes the MemberAccess chain below a function of gabs's own data
	// rather than a second, independent reading of exp.Path.
	container := gabs.New()
	if _, err := container.Set(true, exp.Path...); err != nil {
		return nil, fmt.Errorf("classgen: invalid export path for %s: %w", class.EncodedName, err)
	}
	segments, err := walkExportPath(container)
	if err != nil {
		return nil, fmt.Errorf("classgen: invalid export path for %s: %w", class.EncodedName, err)
	}

	var out []jstree.Node
	accumulated := []string{"ScalaJS", "e"}
	for i, seg := range segments {
		accumulated = append(accumulated, seg)
		target := identChain(accumulated)
		if i < len(segments)-1 {
			out = append(out, jstree.Assign{
				Op:     "=",
				Target: target,
				Value:  jstree.BinOp{Op: "||", Left: target, Right: jstree.ObjectCons{}},
			})
		} else {
			out = append(out, jstree.Assign{
				Op:     "=",
				Target: target,
				Value:  jstree.Ident{Name: "c_" + class.EncodedName},
			})
		}
	}
	return out, nil
}

// identChain builds a left-associative MemberAccess chain from dotted path
// segments, e.g. ["ScalaJS", "e", "my", "pkg"] -> ScalaJS.e.my.pkg.
func identChain(parts []string) jstree.Node {
	var node jstree.Node = jstree.Ident{Name: parts[0]}
	for _, p := range parts[1:] {
		node = jstree.MemberAccess{Target: node, Property: jstree.Ident{Name: p}}
	}
	return node
}

// walkExportPath recovers the ordered path segments from the single-child
// object chain Set built. ChildrenMap fails once it reaches the boolean
// leaf Set wrote; that's the walk's normal termination, not an error, as
// long as at least one segment was already collected. A level with more
// than one key would mean the path branched, which Set (called with one
// straight-line segment list) never produces, but is still rejected rather
// than silently resolved by picking a key.
func walkExportPath(container *gabs.Container) ([]string, error) {
	var segments []string
	cur := container
	for {
		children, err := cur.ChildrenMap()
		if err != nil {
			if len(segments) > 0 {
				break
			}
			return nil, fmt.Errorf("export path produced no segments: %w", err)
		}
		if len(children) != 1 {
			return nil, fmt.Errorf("export path has a branching segment")
		}
		for key, child := range children {
			segments = append(segments, key)
			cur = child
		}
	}
	return segments, nil
}
