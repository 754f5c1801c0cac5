// Package deepseek wraps the DeepSeek chat completion API as a batch file
// classification oracle.
//
// The client sends one request per batch carrying the filenames and the
// category labels already in use, retries transient failures within a bounded
// attempt budget (rate limiting waits longer, transport errors back off by
// attempt), and parses a best-effort name-to-category mapping out of possibly
// malformed responses. It never returns an error to callers: when nothing
// usable can be obtained the mapping is simply empty.
package deepseek
