package ids

import "testing"

func TestDeriveIDUniqueAcrossClients(t *testing.T) {
	// Same numeric handle, two different clients: spec.md §3's uniqueness
	// invariant requires the derived ids to differ.
	const handle = uintptr(0xdeadbeef)
	a := DeriveID(ClientId(1), handle)
	b := DeriveID(ClientId(2), handle)
	if a == b {
		t.Fatalf("DeriveID collided across clients: client1=%d client2=%d both=%d", 1, 2, a)
	}
}

func TestDeriveIDStable(t *testing.T) {
	a := DeriveID(ClientId(7), 42)
	b := DeriveID(ClientId(7), 42)
	if a != b {
		t.Fatalf("DeriveID not stable: %d != %d", a, b)
	}
}

func TestDeriveIDDistinctHandles(t *testing.T) {
	a := DeriveID(ClientId(1), 1)
	b := DeriveID(ClientId(1), 2)
	if a == b {
		t.Fatalf("different handles under the same client collided: %d", a)
	}
}

func TestObjectIdConstructors(t *testing.T) {
	tests := []struct {
		obj  ObjectId
		kind Kind
	}{
		{FromClient(ClientId(1)), KindClient},
		{FromWlSurface(WlSurfaceId(2)), KindWlSurface},
		{FromXdgSurface(XdgSurfaceId(3)), KindXdgSurface},
		{FromXdgToplevel(XdgToplevelId(4)), KindXdgToplevel},
		{FromXdgPopup(XdgPopupId(5)), KindXdgPopup},
	}
	for _, tt := range tests {
		if tt.obj.Kind != tt.kind {
			t.Errorf("got kind %v, want %v", tt.obj.Kind, tt.kind)
		}
	}
}
