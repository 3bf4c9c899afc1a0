// Package healthcheck verifies the scaffolding pipeline end to end: it
// creates a throwaway project, then runs its tests, linter and production
// build. The project is removed after a passing check unless asked to keep
// it, and is always kept after a failure for inspection.
package healthcheck
