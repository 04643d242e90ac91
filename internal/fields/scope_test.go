package fields

import "testing"

func namedField(name string, scope Scope) Field {
	return Field{ID: "id-" + name, Name: name, Scope: scope}
}

func TestApplicableGlobalField(t *testing.T) {
	scope := GlobalScope()
	if !Applicable(scope, FolderContext("folder-1")) {
		t.Fatal("global field should apply in any folder")
	}
	if !Applicable(scope, RootContext()) {
		t.Fatal("global field should apply at the project root")
	}
}

func TestApplicableScopedField(t *testing.T) {
	scope := ScopedTo([]string{"folder-1", "folder-2"})

	if !Applicable(scope, FolderContext("folder-1")) {
		t.Fatal("scoped field should apply in a listed folder")
	}
	if Applicable(scope, FolderContext("folder-3")) {
		t.Fatal("scoped field should not apply in an unlisted folder")
	}
	if Applicable(scope, RootContext()) {
		t.Fatal("scoped field should not apply at the project root")
	}
}

func TestScopedToEmptyCollapsesToGlobal(t *testing.T) {
	for _, ids := range [][]string{nil, {}, {"", "  "}} {
		scope := ScopedTo(ids)
		if !scope.IsGlobal() {
			t.Fatalf("ScopedTo(%v) should be global", ids)
		}
		if !Applicable(scope, FolderContext("anywhere")) {
			t.Fatalf("ScopedTo(%v) should apply everywhere", ids)
		}
	}
}

func TestResolveApplicablePreservesOrder(t *testing.T) {
	all := []Field{
		namedField("a", GlobalScope()),
		namedField("b", ScopedTo([]string{"folder-1"})),
		namedField("c", ScopedTo([]string{"folder-2"})),
		namedField("d", GlobalScope()),
		namedField("e", ScopedTo([]string{"folder-1", "folder-2"})),
	}

	got := ResolveApplicable(all, FolderContext("folder-1"))
	want := []string{"a", "b", "d", "e"}
	if len(got) != len(want) {
		t.Fatalf("expected %d fields, got %d", len(want), len(got))
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Fatalf("position %d: expected %q, got %q", i, name, got[i].Name)
		}
	}
}

func TestResolveApplicableAtRootOnlyGlobal(t *testing.T) {
	all := []Field{
		namedField("a", GlobalScope()),
		namedField("b", ScopedTo([]string{"folder-1"})),
	}

	got := ResolveApplicable(all, RootContext())
	if len(got) != 1 || got[0].Name != "a" {
		t.Fatalf("root context should match only global fields, got %v", got)
	}
}

func TestResolveApplicableEmptyInput(t *testing.T) {
	got := ResolveApplicable(nil, FolderContext("folder-1"))
	if len(got) != 0 {
		t.Fatalf("expected no fields, got %d", len(got))
	}
}

func TestScopeFolderIDsSorted(t *testing.T) {
	scope := ScopedTo([]string{"zeta", "alpha", "mid"})
	got := scope.FolderIDs()
	want := []string{"alpha", "mid", "zeta"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
