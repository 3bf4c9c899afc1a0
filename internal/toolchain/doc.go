// Package toolchain runs the external executables the scaffolding pipeline
// depends on (node, npm, npx, git) and checks that they are installed at
// supported versions. Every child process goes through the Runner interface
// so callers can substitute a fake in tests.
package toolchain
