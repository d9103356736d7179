package bubblerob

import "testing"

// fixedSource replays a scripted sequence of IntN results.
type fixedSource struct {
	vals []int
	i    int
}

func (f *fixedSource) IntN(n int) int {
	v := f.vals[f.i%len(f.vals)] % n
	f.i++
	return v
}

func TestJitterGenerator_ValueSets(t *testing.T) {
	g := NewJitterGenerator(NewSeededSource(42))

	lefts := map[float64]bool{}
	rights := map[float64]bool{}
	for i := 0; i < 5000; i++ {
		p := g.Next()
		lefts[p.LeftFactor] = true
		rights[p.RightFactor] = true
	}

	for i := 1; i <= 10; i++ {
		v := float64(i) / 10
		if !lefts[v] {
			t.Errorf("left factor %v never drawn", v)
		}
	}
	if len(lefts) != 10 {
		t.Errorf("left factors: got %d distinct values, want 10", len(lefts))
	}

	for v := 8; v <= 60; v += 4 {
		if !rights[float64(v)] {
			t.Errorf("right factor %d never drawn", v)
		}
	}
	if len(rights) != 14 {
		t.Errorf("right factors: got %d distinct values, want 14", len(rights))
	}
}

func TestJitterGenerator_Scripted(t *testing.T) {
	g := NewJitterGenerator(&fixedSource{vals: []int{0, 0, 9, 13, 4, 3}})

	want := []JitterPair{
		{LeftFactor: 0.1, RightFactor: 8},
		{LeftFactor: 1.0, RightFactor: 60},
		{LeftFactor: 0.5, RightFactor: 20},
	}
	for i, w := range want {
		got := g.Next()
		if !floatEquals(got.LeftFactor, w.LeftFactor) || got.RightFactor != w.RightFactor {
			t.Errorf("draw %d: got %+v, want %+v", i, got, w)
		}
	}
}

func TestJitterGenerator_SeedIsDeterministic(t *testing.T) {
	a := NewJitterGenerator(NewSeededSource(7))
	b := NewJitterGenerator(NewSeededSource(7))
	for i := 0; i < 100; i++ {
		if pa, pb := a.Next(), b.Next(); pa != pb {
			t.Fatalf("draw %d differs: %+v vs %+v", i, pa, pb)
		}
	}
}

func TestJitterGenerator_NilSourceUsesGlobal(t *testing.T) {
	g := NewJitterGenerator(nil)
	p := g.Next()
	if p.LeftFactor < 0.1 || p.LeftFactor > 1.0 {
		t.Errorf("left factor %v out of range", p.LeftFactor)
	}
	if p.RightFactor < 8 || p.RightFactor > 60 {
		t.Errorf("right factor %v out of range", p.RightFactor)
	}
}
