package engine

import "testing"

func TestFlagSetDefaultsEnabled(t *testing.T) {
	f := NewFlagSet()
	if !f.Enabled("dead_cat_bounce") {
		t.Fatal("unknown flags must default to enabled")
	}
}

func TestFlagSetToggle(t *testing.T) {
	f := NewFlagSet()
	f.Set("short_squeeze", false)
	if f.Enabled("short_squeeze") {
		t.Fatal("flag must report disabled after Set(false)")
	}
	f.Set("short_squeeze", true)
	if !f.Enabled("short_squeeze") {
		t.Fatal("flag must report enabled after Set(true)")
	}
}

func TestFlagSetStates(t *testing.T) {
	f := NewFlagSet()
	f.Set("fomo_rally", false)
	states := f.States([]string{"fomo_rally", "stock_split"})
	if states["fomo_rally"] {
		t.Fatal("disabled flag must show false")
	}
	if !states["stock_split"] {
		t.Fatal("untouched flag must show true")
	}
}
