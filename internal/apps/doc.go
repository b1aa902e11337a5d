// Package apps resolves spoken application names to launch targets and
// starts or closes them.
//
// A name is normalized, then offered to every Source concurrently: Start
// Menu shortcuts, the uninstall registry trees, the catalog alias table and
// the executable search path. Candidates are ranked by score and source
// priority; the winner must reach its source's threshold.
package apps
