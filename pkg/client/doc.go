// Package client synchronizes session state between server-rendered and
// client-navigated pages.
//
// The Snapshot is a tri-state value (uninitialized, anonymous,
// authenticated); the Synchronizer resolves it exactly once per navigation
// lifecycle, copying server-resolved state when available and otherwise
// performing a single fetch against the session endpoint. Fetch failures
// resolve to anonymous instead of failing the page.
package client
