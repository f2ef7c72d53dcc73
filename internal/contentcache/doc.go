// Package contentcache persists identity resolutions and update-check
// verdicts for installed content, keyed by instance scope, content
// type, and file name. Identity and update sections share one record
// but expire on independent TTLs.
package contentcache
