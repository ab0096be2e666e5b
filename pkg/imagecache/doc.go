// Package imagecache loads overlay images asynchronously and caches them by
// URL for the immediate-mode renderer.
//
// # Lifecycle
//
// The first [Cache.Request] for a URL creates an entry in [StatusLoading] and
// starts exactly one load in the background; the call itself never blocks.
// The load ends in one of two terminal states:
//
//   - [StatusOK]: the decoded image is stored and the ready callback
//     registered with [WithOnReady] runs once, so the host can repaint.
//   - [StatusError]: the failure is logged and stored. No repaint is
//     requested and the URL is not retried for the lifetime of the entry.
//
// # Reference Counting
//
// Hosts that know which nodes use which URLs call [Cache.Acquire] and
// [Cache.Release]. Releasing the last reference while a load is still in
// flight cancels the load and drops the entry; a later request starts over.
//
// # Eviction
//
// Entries live until the [Policy] evicts them. The default policy never
// evicts; [NewLRU] bounds the number of entries.
//
// # Loaders
//
// [HTTPLoader] fetches http(s) URLs and keeps the raw bytes in a
// [cache.Cache]; [FileLoader] reads local files; [MuxLoader] dispatches on
// the URL scheme. PNG, JPEG, GIF and WebP are decoded.
package imagecache
