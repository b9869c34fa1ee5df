package hid

import "testing"

func TestKeyAny(t *testing.T) {
	tests := []struct {
		name string
		keys Key
		mask Key
		want bool
	}{
		{"dpad left in AnyLeft", KeyLeft, AnyLeft, true},
		{"left stick left in AnyLeft", KeyStickLLeft, AnyLeft, true},
		{"right stick left in AnyLeft", KeyStickRLeft, AnyLeft, true},
		{"right not in AnyLeft", KeyRight, AnyLeft, false},
		{"no keys", 0, AnyLeft, false},
		{"mixed set matches", KeyA | KeyStickLUp, AnyUp, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.keys.Any(tt.mask); got != tt.want {
				t.Errorf("Any() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDirectionMasksDisjoint(t *testing.T) {
	masks := []Key{AnyLeft, AnyRight, AnyUp, AnyDown}
	for i, a := range masks {
		for j, b := range masks {
			if i != j && a&b != 0 {
				t.Errorf("direction masks %d and %d overlap", i, j)
			}
		}
	}
}

func TestKeyBitsUnique(t *testing.T) {
	all := []Key{
		KeyA, KeyB, KeyX, KeyY, KeyStickL, KeyStickR, KeyL, KeyR,
		KeyZL, KeyZR, KeyPlus, KeyMinus, KeyLeft, KeyUp, KeyRight, KeyDown,
		KeyStickLLeft, KeyStickLUp, KeyStickLRight, KeyStickLDown,
		KeyStickRLeft, KeyStickRUp, KeyStickRRight, KeyStickRDown,
	}
	var seen Key
	for _, k := range all {
		if k&seen != 0 {
			t.Errorf("key %#x reuses an assigned bit", uint64(k))
		}
		seen |= k
	}
}

func TestLookup(t *testing.T) {
	if info := Lookup(KeyA); info == nil || info.Name != "A" {
		t.Errorf("Lookup(KeyA) = %+v, want the A entry", info)
	}
	if info := Lookup(KeyZL); info == nil || info.Glyph != 'l' {
		t.Errorf("Lookup(KeyZL) = %+v, want the ZL entry", info)
	}
	if Lookup(0) != nil {
		t.Error("Lookup(0) found an entry")
	}
	if Lookup(KeyStickLLeft) != nil {
		t.Error("Lookup found an entry for an unlisted stick bit")
	}
}
