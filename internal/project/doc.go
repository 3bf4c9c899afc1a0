// Package project validates scaffolding requests. It owns the template
// allow-list (embedded templates.yaml) and the naming rules for new
// projects, and turns raw command-line input into an immutable Request.
package project
