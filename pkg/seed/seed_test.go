package seed

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/matzehuels/linkdrift/pkg/cache"
	"github.com/matzehuels/linkdrift/pkg/page"
)

func TestSeedValid(t *testing.T) {
	tests := []struct {
		name string
		seed Seed
		want bool
	}{
		{"left middle", Seed{Left, 0.5, 0.5}, true},
		{"right edges", Seed{Right, 0, MinY}, true},
		{"max y inclusive", Seed{Right, 0.999, MaxY}, true},
		{"x one", Seed{Left, 1, 0.5}, false},
		{"x negative", Seed{Left, -0.1, 0.5}, false},
		{"y low", Seed{Left, 0.5, 0.05}, false},
		{"y high", Seed{Left, 0.5, 0.95}, false},
		{"nan", Seed{Left, math.NaN(), 0.5}, false},
		{"bad side", Seed{"up", 0.5, 0.5}, false},
		{"zero", Seed{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.seed.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadWriteRoundTrip(t *testing.T) {
	e := page.NewLink("Home", "/", false)
	s := Seed{Side: Right, X: 0.123456789012345, Y: 0.7777777777}
	Write(e, s)

	got, ok := Read(e)
	if !ok {
		t.Fatal("Read() should succeed after Write()")
	}
	if got != s {
		t.Errorf("Read() = %+v, want %+v", got, s)
	}

	Clear(e)
	if _, ok := Read(e); ok {
		t.Error("Read() should fail after Clear()")
	}
}

func TestReadCorrupt(t *testing.T) {
	tests := []struct {
		name  string
		attrs map[string]string
	}{
		{"missing", nil},
		{"missing y", map[string]string{AttrSide: "left", AttrX: "0.5"}},
		{"garbage x", map[string]string{AttrSide: "left", AttrX: "abc", AttrY: "0.5"}},
		{"out of range", map[string]string{AttrSide: "left", AttrX: "0.5", AttrY: "3"}},
		{"bad side", map[string]string{AttrSide: "top", AttrX: "0.5", AttrY: "0.5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := page.NewLink("Home", "/", false)
			for k, v := range tt.attrs {
				e.SetAttr(k, v)
			}
			if _, ok := Read(e); ok {
				t.Error("Read() should reject corrupt seed")
			}
		})
	}
}

func TestDeterministicPolicy(t *testing.T) {
	p := Deterministic{}
	a := p.Generate("Home\x00/")
	b := p.Generate("Home\x00/")
	if a != b {
		t.Errorf("same key should give same seed: %+v vs %+v", a, b)
	}
	if !a.Valid() {
		t.Errorf("generated seed invalid: %+v", a)
	}
	if a == p.Generate("Blog\x00/blog") {
		t.Error("different keys should give different seeds")
	}
	if a == (Deterministic{Salt: 7}).Generate("Home\x00/") {
		t.Error("salt should change the seed")
	}
}

func TestRandomPolicyRange(t *testing.T) {
	p := NewRandom(1)
	sides := map[Side]int{}
	for range 2000 {
		s := p.Generate("")
		if !s.Valid() {
			t.Fatalf("generated seed invalid: %+v", s)
		}
		sides[s.Side]++
	}
	if sides[Left] < 800 || sides[Right] < 800 {
		t.Errorf("side distribution skewed: %v", sides)
	}
}

func TestParsePolicy(t *testing.T) {
	if p, err := ParsePolicy("", 0); err != nil {
		t.Errorf("empty name: %v", err)
	} else if _, ok := p.(Deterministic); !ok {
		t.Errorf("empty name should default to deterministic, got %T", p)
	}
	if p, err := ParsePolicy(PolicyRandom, 3); err != nil {
		t.Errorf("random: %v", err)
	} else if _, ok := p.(*Random); !ok {
		t.Errorf("random: got %T", p)
	}
	if _, err := ParsePolicy("chaotic", 0); err == nil {
		t.Error("unknown policy should fail")
	}
}

func TestEnsureKeepsValidSeed(t *testing.T) {
	a := NewAssigner(NewRandom(9), nil, nil)
	e := page.NewLink("Home", "/", false)
	want := Seed{Left, 0.5, 0.2}
	Write(e, want)

	for range 5 {
		if got := a.Ensure(context.Background(), e); got != want {
			t.Fatalf("Ensure() = %+v, want %+v", got, want)
		}
	}
}

func TestEnsureAssignsOnce(t *testing.T) {
	a := NewAssigner(NewRandom(9), nil, nil)
	e := page.NewLink("Home", "/", false)

	first := a.Ensure(context.Background(), e)
	if !first.Valid() {
		t.Fatalf("assigned seed invalid: %+v", first)
	}
	if got := a.Ensure(context.Background(), e); got != first {
		t.Errorf("second Ensure() = %+v, want %+v", got, first)
	}
}

func TestEnsureRegeneratesCorrupt(t *testing.T) {
	a := NewAssigner(Deterministic{}, nil, nil)
	e := page.NewLink("Home", "/", false)
	e.SetAttr(AttrSide, "left")
	e.SetAttr(AttrX, "NaN")
	e.SetAttr(AttrY, "0.5")

	got := a.Ensure(context.Background(), e)
	if !got.Valid() {
		t.Fatalf("Ensure() = %+v, want valid", got)
	}
	if got != (Deterministic{}).Generate(page.LinkKey(e)) {
		t.Error("corrupt seed should be replaced by the policy seed")
	}
	if back, ok := Read(e); !ok || back != got {
		t.Error("regenerated seed should be written back")
	}
}

func TestEnsureUsesStoreAcrossReconstruction(t *testing.T) {
	ctx := context.Background()
	store := NewCacheStore(cache.NewMemoryCache(), nil, time.Hour)
	a := NewAssigner(NewRandom(0), store, nil)

	first := page.NewLink("Blog", "/blog", false)
	s1 := a.Ensure(ctx, first)

	// A fresh element with the same identity, as after a page rebuild.
	second := page.NewLink("Blog", "/blog", false)
	if s2 := a.Ensure(ctx, second); s2 != s1 {
		t.Errorf("store should return the session seed: %+v vs %+v", s2, s1)
	}
}

type failingStore struct{ puts int }

func (f *failingStore) Get(context.Context, string) (Seed, bool, error) {
	return Seed{}, false, errors.New("down")
}

func (f *failingStore) Put(context.Context, string, Seed) error {
	f.puts++
	return errors.New("down")
}

func TestEnsureSurvivesStoreFailure(t *testing.T) {
	store := &failingStore{}
	a := NewAssigner(Deterministic{}, store, nil)
	e := page.NewLink("Home", "/", false)

	got := a.Ensure(context.Background(), e)
	if !got.Valid() {
		t.Fatalf("Ensure() should fall back to policy, got %+v", got)
	}
	if store.puts != 1 {
		t.Errorf("store Put calls = %d, want 1", store.puts)
	}
}

func TestCacheStoreIgnoresGarbage(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryCache()
	store := NewCacheStore(c, nil, 0)

	_ = c.Set(ctx, store.Keyer.SeedKey("k"), []byte(`{"side":"up","x":2}`), 0)
	if _, hit, err := store.Get(ctx, "k"); hit || err != nil {
		t.Errorf("invalid stored seed should miss, got hit=%v err=%v", hit, err)
	}
	if store.TTL != cache.TTLSeed {
		t.Errorf("zero ttl should default to TTLSeed, got %v", store.TTL)
	}
}
