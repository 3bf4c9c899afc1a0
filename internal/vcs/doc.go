// Package vcs initializes the git repository of a scaffolded project: it
// runs git init when needed, appends the standard ignore block, stages the
// tree and records the initial commit.
package vcs
