// Package scaffold writes the fixed configuration, example test and
// documentation files into a generated project. Content is embedded in the
// binary under scaffolds/<set>/; files ending in .tmpl are rendered with
// text/template, everything else is copied verbatim. Existing files at the
// same paths are overwritten, so writing a set twice yields identical bytes.
package scaffold
