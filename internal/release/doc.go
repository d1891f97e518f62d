// Package release implements release discovery: deciding which commits
// of a repository constitute releases and feeding them to the ledger.
//
// A branch participates when its name is valid for release tracking and
// the repository configuration names a tracking mode for it:
//
//	[release-branch "master"]
//	track = tip
//
// Two modes exist. In tip mode every movement of the branch tip is a
// release, with a version synthesized from the committer timestamp and
// the short commit hash (YYMM.DDHH.MMSS-gitXXXXXXXX). In tag mode the
// branch history is walked and commits carrying a tag that parses as a
// version number become releases under that version.
//
// Discovery is deliberately sequential and retry-free: the ledger's
// reconciliation makes re-running over unchanged history a no-op, so a
// post-receive hook can invoke it after every push.
//
// The engine talks to the repository and the ledger through interfaces;
// both sides have trivial fakes in tests.
package release
