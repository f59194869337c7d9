package redis

import "testing"

func TestDraftKey(t *testing.T) {
	if got := DraftKey("conv1"); got != "draftsync:draft:conv1" {
		t.Errorf("DraftKey() = %q", got)
	}
}

func TestPositionKey(t *testing.T) {
	if got := PositionKey("web.whatsapp.com"); got != "draftsync:pos:web.whatsapp.com" {
		t.Errorf("PositionKey() = %q", got)
	}
}

func TestKeysAreDisjoint(t *testing.T) {
	// A conversation id can never collide with a site mirror or the
	// config key.
	if DraftKey("x") == PositionKey("x") {
		t.Error("draft and position keys collide")
	}
	if DraftKey("syncconfig") == KeySyncConfig {
		t.Error("draft key collides with sync config key")
	}
}
