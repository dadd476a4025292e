// Package summarizer turns prepared page text into a tweet-length summary
// using remote models tried in a fixed priority order.
//
// Every generated answer is post-processed before it is returned: known
// hallucinated stock phrases are removed, words absent from the submitted
// prompt are dropped, whitespace is collapsed, and the text is capped to
// the display limit. Outputs that end up too short, or that are nothing but
// a platform name, are rejected with a *entity.ModelError so the caller can
// retry or fall through.
package summarizer
