// Package cache maps hub artifacts onto the local cache tree rooted at the
// configured cache dir. Resolve translates (repo folder, revision, filename)
// into the final/lock/incomplete paths of one entry without touching the
// filesystem; the store helpers walk, list and remove published entries.
// Higher layers rely on this package so that path math and traversal checks
// are never duplicated.
package cache
