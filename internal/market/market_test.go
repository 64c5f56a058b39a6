package market

import "testing"

func TestDefaultStateCatalog(t *testing.T) {
	s := DefaultState()
	if len(s.Items) < 8 {
		t.Fatalf("default catalog has %d items, want at least 8", len(s.Items))
	}

	cats := make(map[Category]bool)
	for _, it := range s.Items {
		cats[it.Category] = true
		if it.BasePrice <= 0 {
			t.Errorf("%s: base price %f not positive", it.ID, it.BasePrice)
		}
		if it.Supply <= 0 || it.Demand <= 0 {
			t.Errorf("%s: supply/demand not positive", it.ID)
		}
		if it.CurrentPrice != it.BasePrice {
			t.Errorf("%s: current price %f, want base %f", it.ID, it.CurrentPrice, it.BasePrice)
		}
	}
	if len(cats) < 3 {
		t.Errorf("catalog spans %d categories, want several", len(cats))
	}

	iron := s.Item("iron_ore")
	if iron == nil {
		t.Fatal("catalog missing iron_ore")
	}
	shard := s.Item("crystal_shard")
	if shard == nil {
		t.Fatal("catalog missing crystal_shard")
	}
	if shard.Demand <= shard.Supply {
		t.Errorf("crystal_shard demand (%f) should exceed supply (%f) by design", shard.Demand, shard.Supply)
	}
}

func TestSnapshotIndependence(t *testing.T) {
	src := DefaultState()
	snap := Snapshot(src)

	snap.Items[0].CurrentPrice = 12345
	snap.Items[0].Supply = 1
	if src.Items[0].CurrentPrice == 12345 {
		t.Fatal("mutating the snapshot affected the source")
	}

	src.Items[1].Demand = 99999
	if snap.Items[1].Demand == 99999 {
		t.Fatal("mutating the source affected the snapshot")
	}
}

func TestSnapshotPreservesOrder(t *testing.T) {
	src := DefaultState()
	snap := Snapshot(src)
	if len(snap.Items) != len(src.Items) {
		t.Fatalf("snapshot has %d items, want %d", len(snap.Items), len(src.Items))
	}
	for i := range src.Items {
		if snap.Items[i].ID != src.Items[i].ID {
			t.Fatalf("item %d: snapshot order %s, want %s", i, snap.Items[i].ID, src.Items[i].ID)
		}
	}
}

func TestSnapshotNil(t *testing.T) {
	snap := Snapshot(nil)
	if snap == nil || len(snap.Items) == 0 {
		t.Fatal("Snapshot(nil) should return the default catalog")
	}
	if snap.Item("iron_ore") == nil {
		t.Fatal("Snapshot(nil) missing iron_ore")
	}
}

func TestItemLookup(t *testing.T) {
	s := DefaultState()
	if it := s.Item("bread"); it == nil || it.Name != "Fresh Bread" {
		t.Fatalf("Item(bread) = %+v", it)
	}
	if it := s.Item("no_such_item"); it != nil {
		t.Fatalf("Item(no_such_item) = %+v, want nil", it)
	}
	var nilState *State
	if it := nilState.Item("bread"); it != nil {
		t.Fatal("nil state lookup should return nil")
	}
}
