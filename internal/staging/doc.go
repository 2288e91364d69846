// Package staging manages the scratch area where archive members are
// extracted before an external tool reads them.
//
// Each operation acquires its own Workspace, a uuid-named directory under
// the area root, while holding a shared lock on <root>/.lock. Release removes
// the directory. CleanStale takes the same lock exclusively so it never
// deletes a workspace that is still in use.
package staging
