// Package gitrepo contains helpers for interpreting git remote locations.
//
// It exposes ParseRemoteLocation, which accepts the remote spellings git
// itself understands (scheme URLs, scp-like shorthand, and local paths) and
// reduces them to a host and repository path that callers use to derive
// stable remote names.
package gitrepo
