package tagengine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scalajs/jsemitter/internal/ir"
	"github.com/scalajs/jsemitter/internal/jstree"
)

// chain builds A<B<C<D with sibling E<B, matching spec.md §8 scenario S3.
func chainUnit() *ir.LinkingUnit {
	mk := func(name, super string, ancestors ...string) *ir.LinkedClass {
		return &ir.LinkedClass{EncodedName: name, SuperClass: super, Ancestors: ancestors}
	}
	return &ir.LinkingUnit{Classes: []*ir.LinkedClass{
		mk("A", "", "A"),
		mk("B", "A", "A", "B"),
		mk("C", "B", "A", "B", "C"),
		mk("D", "C", "A", "B", "C", "D"),
		mk("E", "B", "A", "B", "E"),
	}}
}

func TestBuildTagTotalityAndS3Numbers(t *testing.T) {
	unit := chainUnit()
	reserved := map[string]int32{"Object": 1}

	table, err := Build(unit, reserved, 1000)
	require.NoError(t, err)

	want := map[string]int32{"A": 1000, "B": 1001, "C": 1002, "D": 1003, "E": 1004}
	for name, tag := range want {
		got, ok := table.Tag(name)
		require.True(t, ok, name)
		assert.Equal(t, tag, got, name)
	}
}

func TestSubtypeIntervalsForB(t *testing.T) {
	unit := chainUnit()
	table, err := Build(unit, map[string]int32{"Object": 1}, 1000)
	require.NoError(t, err)

	ivs := table.SubtypeIntervals("B")
	require.Len(t, ivs, 1)
	assert.Equal(t, Interval{Lo: 1001, Hi: 1004}, ivs[0])
	assert.False(t, table.NeedsSubtypeArray("B"))
}

func TestIntervalMinimalityAndCoverage(t *testing.T) {
	unit := chainUnit()
	table, err := Build(unit, map[string]int32{"Object": 1}, 1000)
	require.NoError(t, err)

	for _, c := range unit.Classes {
		ivs := table.SubtypeIntervals(c.EncodedName)
		for i := 1; i < len(ivs); i++ {
			assert.NotEqual(t, ivs[i-1].Hi+1, ivs[i].Lo, "adjacent intervals should have been merged")
		}
	}
}

func TestNeedsSubtypeArrayThreshold(t *testing.T) {
	// Six unrelated root classes whose Ancestors happen to each name "R"
	// (simulating a partial/incremental unit where most of R's real
	// descendant tags are absent) produce six disjoint singleton tags, i.e.
	// six comparisons, which exceeds the threshold of 5.
	var classes []*ir.LinkedClass
	for i, name := range []string{"C1", "C2", "C3", "C4", "C5", "C6"} {
		classes = append(classes, &ir.LinkedClass{
			EncodedName: name,
			Ancestors:   []string{"R", name},
		})
		if i < 5 {
			interloper := fmt.Sprintf("X%d", i)
			classes = append(classes, &ir.LinkedClass{
				EncodedName: interloper,
				Ancestors:   []string{interloper},
			})
		}
	}
	unit := &ir.LinkingUnit{Classes: classes}

	table, err := Build(unit, nil, 0)
	require.NoError(t, err)
	assert.True(t, table.NeedsSubtypeArray("R"))
}

func TestDefaultNextTag(t *testing.T) {
	assert.Equal(t, int32(0), DefaultNextTag(nil))
	assert.Equal(t, int32(6), DefaultNextTag(map[string]int32{"Object": 1, "String": 5}))
}

func TestIntervalsTestDisjunction(t *testing.T) {
	unit := chainUnit()
	table, err := Build(unit, map[string]int32{"Object": 1}, 1000)
	require.NoError(t, err)

	expr, err := table.IntervalsTest("B", jstree.Ident{Name: "tag"})
	require.NoError(t, err)

	b := jstree.NewStringBuilder()
	require.NoError(t, b.Append(expr))
	assert.Equal(t, "((tag >= 1001) && (tag <= 1004))\n", b.String())
}

func TestIntervalsTestArrayForm(t *testing.T) {
	var classes []*ir.LinkedClass
	for i, name := range []string{"C1", "C2", "C3", "C4", "C5", "C6"} {
		classes = append(classes, &ir.LinkedClass{
			EncodedName: name,
			Ancestors:   []string{"R", name},
		})
		if i < 5 {
			interloper := fmt.Sprintf("X%d", i)
			classes = append(classes, &ir.LinkedClass{
				EncodedName: interloper,
				Ancestors:   []string{interloper},
			})
		}
	}
	unit := &ir.LinkingUnit{Classes: classes}
	table, err := Build(unit, nil, 0)
	require.NoError(t, err)

	expr, err := table.IntervalsTest("R", jstree.Ident{Name: "tag"})
	require.NoError(t, err)
	b := jstree.NewStringBuilder()
	require.NoError(t, b.Append(expr))
	assert.Equal(t, "ScalaJS.Is.R[tag]\n", b.String())
}

func TestCycleIsRejected(t *testing.T) {
	unit := &ir.LinkingUnit{Classes: []*ir.LinkedClass{
		{EncodedName: "A", SuperClass: "B"},
		{EncodedName: "B", SuperClass: "A"},
	}}
	_, err := Build(unit, nil, 0)
	assert.Error(t, err)
}

func TestTopologicalOrderRespectsInheritance(t *testing.T) {
	unit := chainUnit()
	order, err := TopologicalOrder(unit)
	require.NoError(t, err)

	pos := map[string]int{}
	for i, name := range order {
		pos[name] = i
	}
	assert.Less(t, pos["A"], pos["B"])
	assert.Less(t, pos["B"], pos["C"])
	assert.Less(t, pos["C"], pos["D"])
	assert.Less(t, pos["B"], pos["E"])
}
