package strategy

import (
	"testing"

	"quantbt/internal/domain"
)

// stubStrategy is a minimal Strategy implementation used in registry tests.
type stubStrategy struct {
	name string
}

func (s *stubStrategy) Name() string              { return s.name }
func (s *stubStrategy) OnStart()                  {}
func (s *stubStrategy) OnBar(_ domain.Bar) Signal { return SignalNone }
func (s *stubStrategy) OnFinish()                 {}

func TestRegistryRegisterAndNew(t *testing.T) {
	r := NewRegistry()
	r.Register("test-strategy", func() Strategy { return &stubStrategy{name: "test-strategy"} })

	got, ok := r.New("test-strategy")
	if !ok {
		t.Fatal("New returned false for registered strategy")
	}
	if got.Name() != "test-strategy" {
		t.Errorf("New returned strategy with Name() = %q, want %q", got.Name(), "test-strategy")
	}

	// Each call hands out a fresh instance.
	other, _ := r.New("test-strategy")
	if got == other {
		t.Error("New returned the same instance twice; want fresh instances per run")
	}
}

func TestRegistryNew_NotFound(t *testing.T) {
	r := NewRegistry()
	_, ok := r.New("nonexistent")
	if ok {
		t.Error("New returned true for unregistered strategy")
	}
}

func TestRegistryList(t *testing.T) {
	r := NewRegistry()
	r.Register("beta", func() Strategy { return &stubStrategy{name: "beta"} })
	r.Register("alpha", func() Strategy { return &stubStrategy{name: "alpha"} })

	names := r.List()
	if len(names) != 2 {
		t.Fatalf("List returned %d names, want 2", len(names))
	}
	// List returns sorted names.
	if names[0] != "alpha" || names[1] != "beta" {
		t.Errorf("List returned %v, want [alpha beta]", names)
	}
}

func TestSignalString(t *testing.T) {
	cases := []struct {
		sig  Signal
		want string
	}{
		{SignalNone, "none"},
		{SignalBuy, "buy"},
		{SignalSell, "sell"},
	}
	for _, tc := range cases {
		if got := tc.sig.String(); got != tc.want {
			t.Errorf("Signal(%d).String() = %q, want %q", tc.sig, got, tc.want)
		}
	}
}
