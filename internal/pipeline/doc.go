// Package pipeline runs the project scaffolding stages in order:
//
//	Idle → Validating → Scaffolding → InstallingTests → InstallingQuality
//	     → GeneratingDocs → InitializingRepo → Done
//
// Any stage error moves the run to Failed and stops it. There are no
// retries and, unless CleanupOnFailure is set, no rollback: a partially
// generated directory stays on disk. Every run produces a Report.
//
// External side effects go through small interfaces (Generator,
// PackageManager, Repository) so the whole pipeline can be exercised
// against a fake toolchain.
package pipeline
