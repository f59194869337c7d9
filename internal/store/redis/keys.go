package redis

const (
	// KeyPrefixDraft is the prefix for per-conversation draft mirrors
	KeyPrefixDraft = "draftsync:draft:"
	// KeyPrefixPosition is the prefix for per-site position mirrors
	KeyPrefixPosition = "draftsync:pos:"
	// KeySyncConfig is the key for the mirrored remote-store config
	KeySyncConfig = "draftsync:syncconfig"
)

// DraftKey returns the cache key for a conversation's draft mirror
func DraftKey(conversationID string) string {
	return KeyPrefixDraft + conversationID
}

// PositionKey returns the cache key for a site's position mirror
func PositionKey(site string) string {
	return KeyPrefixPosition + site
}
