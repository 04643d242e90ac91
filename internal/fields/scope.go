package fields

// Context identifies the location an extraction run targets: a specific
// folder or the project root.
type Context struct {
	folderID string
}

// RootContext targets documents that live at the project root.
func RootContext() Context {
	return Context{}
}

// FolderContext targets documents inside the given folder.
func FolderContext(folderID string) Context {
	return Context{folderID: folderID}
}

// IsRoot reports whether the context is the project root.
func (c Context) IsRoot() bool {
	return c.folderID == ""
}

// FolderID returns the folder the context targets, or "" at the root.
func (c Context) FolderID() string {
	return c.folderID
}

// Applicable reports whether a field with the given scope applies in ctx.
// Global fields apply everywhere. Folder-scoped fields apply only when the
// context is that folder; at the root only global fields apply.
func Applicable(scope Scope, ctx Context) bool {
	if scope.IsGlobal() {
		return true
	}
	if ctx.IsRoot() {
		return false
	}
	return scope.Contains(ctx.folderID)
}

// ResolveApplicable filters fields down to those applicable in ctx,
// preserving the input order.
func ResolveApplicable(all []Field, ctx Context) []Field {
	out := make([]Field, 0, len(all))
	for _, f := range all {
		if Applicable(f.Scope, ctx) {
			out = append(out, f)
		}
	}
	return out
}
