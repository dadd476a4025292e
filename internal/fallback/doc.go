// Package fallback resolves representative images for pages whose own
// preview image is missing or unreliable.
//
// Static categories map to one fixed asset each. The rotating category walks a
// sorted directory listing with a shared cursor, so consecutive requests show
// different placeholders.
package fallback
