// Package hub compiles a component manifest into a git synchronization plan.
//
// Components are normalized (incomplete entries dropped, remotes and remote
// branches deduplicated in first-seen order), partitioned into subtree-split
// and direct-merge groups, and emitted as shell lines: remotes, fetches, the
// worktree split section, then squashed subtree merges wrapped in a stash
// save/pop pair. The plan is a pure function of the manifest.
package hub
