package domain

import "testing"

func TestSortNewestFirst(t *testing.T) {
	list := DraftList{
		{Content: "a", CreatedAt: 5},
		{Content: "b", CreatedAt: 3},
		{Content: "c", CreatedAt: 9},
	}

	list.SortNewestFirst()

	want := []int64{9, 5, 3}
	for i, ts := range want {
		if list[i].CreatedAt != ts {
			t.Errorf("position %d: CreatedAt = %d, want %d", i, list[i].CreatedAt, ts)
		}
	}
}

func TestSortedDoesNotMutate(t *testing.T) {
	list := DraftList{
		{Content: "old", CreatedAt: 1},
		{Content: "new", CreatedAt: 2},
	}

	sorted := list.Sorted()

	if sorted[0].CreatedAt != 2 {
		t.Errorf("Sorted() first CreatedAt = %d, want 2", sorted[0].CreatedAt)
	}
	if list[0].CreatedAt != 1 {
		t.Errorf("Sorted() mutated the receiver, first CreatedAt = %d, want 1", list[0].CreatedAt)
	}
}

func TestSortStableOnEqualTimestamps(t *testing.T) {
	// Same-millisecond drafts keep their relative order.
	list := DraftList{
		{Content: "first", CreatedAt: 7},
		{Content: "second", CreatedAt: 7},
	}

	list.SortNewestFirst()

	if list[0].Content != "first" || list[1].Content != "second" {
		t.Errorf("sort not stable for equal timestamps: got [%s, %s]", list[0].Content, list[1].Content)
	}
}

func TestDraftFingerprintStable(t *testing.T) {
	list := DraftList{
		{Content: "hello", CreatedAt: 100},
		{Content: "world", CreatedAt: 200},
	}

	a := DraftFingerprint(list)
	b := DraftFingerprint(list)
	if a != b {
		t.Error("fingerprint of unchanged list differs between calls")
	}

	// Order before sort must not matter.
	reversed := DraftList{list[1], list[0]}
	if DraftFingerprint(reversed) != a {
		t.Error("fingerprint depends on input order")
	}
}

func TestDraftFingerprintChangesOnAppend(t *testing.T) {
	list := DraftList{{Content: "hello", CreatedAt: 100}}
	before := DraftFingerprint(list)

	list = append(list, Draft{Content: "more", CreatedAt: 300})
	after := DraftFingerprint(list)

	if before == after {
		t.Error("fingerprint unchanged after appending a draft")
	}
}

func TestDraftFingerprintNoDelimiterCollision(t *testing.T) {
	// Content containing the delimiter must not collide with a split entry.
	a := DraftList{{Content: "x\n2:y", CreatedAt: 1}}
	b := DraftList{{Content: "x", CreatedAt: 1}, {Content: "y", CreatedAt: 2}}

	if DraftFingerprint(a) == DraftFingerprint(b) {
		t.Error("fingerprint collision between different lists")
	}
}

func TestPositionFingerprint(t *testing.T) {
	set := &UIPositionSet{
		Panel: &EdgeAnchoredPosition{AnchorH: AnchorRight, AnchorV: AnchorTop, Right: 50, Top: 50, Unit: UnitEdge},
	}

	if PositionFingerprint(set) != PositionFingerprint(set) {
		t.Error("fingerprint of unchanged set differs between calls")
	}
	if PositionFingerprint(nil) != "" {
		t.Error("fingerprint of nil set should be empty")
	}

	moved := &UIPositionSet{
		Panel: &EdgeAnchoredPosition{AnchorH: AnchorRight, AnchorV: AnchorTop, Right: 60, Top: 50, Unit: UnitEdge},
	}
	if PositionFingerprint(set) == PositionFingerprint(moved) {
		t.Error("fingerprint unchanged after moving the panel")
	}
}
