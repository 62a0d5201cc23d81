package wfc

import (
	"errors"
	"reflect"
	"testing"

	"terraingen/internal/tiles"
)

// checkerboard alternates tiles 1 and 2.
func checkerboard(t *testing.T) *tiles.Registry {
	return adjacency(t, map[tiles.TileID][]tiles.TileID{
		1: {2},
		2: {1},
	})
}

func TestPropagatorsAgree(t *testing.T) {
	reg := checkerboard(t)
	run := func(p Propagator) snapshot {
		s := newTestSolver(t, reg, 3, 3, testOptions())
		st := s.State()
		centre := st.index(1, 1)
		st.collapse(centre, 1, nil)
		if err := p.Propagate(st, []int{centre}, nil); err != nil {
			t.Fatalf("propagate: %v", err)
		}
		return take(st)
	}

	direct := run(DirectPropagator{Registry: reg})
	ac3 := run(AC3Propagator{Table: tiles.BuildRuleTable(reg)})
	if !reflect.DeepEqual(direct, ac3) {
		t.Fatalf("propagators disagree:\ndirect %v\nac3    %v", direct.output, ac3.output)
	}
	want := []tiles.TileID{
		1, 2, 1,
		2, 1, 2,
		1, 2, 1,
	}
	if !reflect.DeepEqual(direct.output, want) {
		t.Fatalf("expected checkerboard, got %v", direct.output)
	}
}

func TestPropagationNeverGrowsDomains(t *testing.T) {
	reg := adjacency(t, map[tiles.TileID][]tiles.TileID{
		1: {1, 2},
		2: {1, 2, 3},
		3: {2, 3, 4},
		4: {3, 4},
	})
	for _, p := range []Propagator{
		DirectPropagator{Registry: reg},
		AC3Propagator{Table: tiles.BuildRuleTable(reg)},
	} {
		s := newTestSolver(t, reg, 5, 5, testOptions())
		st := s.State()
		steps := [][3]int{{0, 0, 1}, {4, 4, 4}, {2, 2, 2}}
		for _, step := range steps {
			i := st.index(step[0], step[1])
			if st.decided(i) {
				continue
			}
			before := make([]tiles.Set, len(st.domains))
			for k := range before {
				before[k] = st.Domain(k)
			}
			st.collapse(i, tiles.TileID(step[2]), nil)
			if err := p.Propagate(st, []int{i}, nil); err != nil {
				t.Fatalf("%T propagate: %v", p, err)
			}
			for k := range before {
				if after := st.Domain(k); after&^before[k] != 0 {
					t.Fatalf("%T: domain of cell %d grew from %v to %v", p, k, before[k], after)
				}
			}
		}
	}
}

func TestPropagationReportsContradiction(t *testing.T) {
	reg := adjacency(t, map[tiles.TileID][]tiles.TileID{
		1: {1},
		2: {2},
	})
	for _, p := range []Propagator{
		DirectPropagator{Registry: reg},
		AC3Propagator{Table: tiles.BuildRuleTable(reg)},
	} {
		s := newTestSolver(t, reg, 2, 1, testOptions())
		st := s.State()
		restrict(t, s, 1, 0, 2)
		st.collapse(0, 1, nil)
		err := p.Propagate(st, []int{0}, nil)
		var ce *ContradictionError
		if !errors.As(err, &ce) || ce.X != 1 || ce.Y != 0 {
			t.Fatalf("%T: expected contradiction at (1,0), got %v", p, err)
		}
	}
}
