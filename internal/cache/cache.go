// Package cache holds the short-lived rendering of the global feed's first
// page. There is a single entry; any write that changes the global feed
// must invalidate it. Until then repeated reads return the identical bytes
// even if the underlying data moved on — the staleness window is bounded
// by the TTL.
package cache

// FeedCache is the contract both backends implement. All operations are
// non-blocking and safe for concurrent use.
type FeedCache interface {
	// Get returns the cached rendering and whether it is still live.
	Get() ([]byte, bool)
	// Put stores a rendering until Invalidate or TTL expiry.
	Put(body []byte)
	// Invalidate drops the entry immediately.
	Invalidate()
}
