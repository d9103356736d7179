package config

import "testing"

func TestListenPort(t *testing.T) {
	t.Setenv("LISTEN_PORT", "")
	if got := ListenPort(); got != DefaultListenPort {
		t.Errorf("default: got %q", got)
	}
	t.Setenv("LISTEN_PORT", "9999")
	if got := ListenPort(); got != "9999" {
		t.Errorf("env: got %q", got)
	}
}

func TestSimURL(t *testing.T) {
	t.Setenv("SIM_URL", "")
	if got := SimURL(); got != DefaultSimURL {
		t.Errorf("default: got %q", got)
	}
}

func TestSeed(t *testing.T) {
	t.Setenv("BUBBLEROB_SEED", "")
	if _, ok, err := Seed(); ok || err != nil {
		t.Errorf("unset: ok=%v err=%v", ok, err)
	}

	t.Setenv("BUBBLEROB_SEED", "1234")
	seed, ok, err := Seed()
	if err != nil || !ok || seed != 1234 {
		t.Errorf("set: seed=%d ok=%v err=%v", seed, ok, err)
	}

	t.Setenv("BUBBLEROB_SEED", "abc")
	if _, _, err := Seed(); err == nil {
		t.Error("invalid seed should return an error")
	}
}
