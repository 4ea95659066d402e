package cli

import "fmt"

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

// unresolvedError reports an edit the engine refused (the tree is unchanged).
type unresolvedError struct {
	op   string
	id   string
	dest string
}

func (e unresolvedError) Error() string {
	if e.dest == "" {
		return fmt.Sprintf("%s %s: nothing to do", e.op, e.id)
	}
	return fmt.Sprintf("%s %s: destination does not resolve: %s", e.op, e.id, e.dest)
}

func errUnresolved(op, id, dest string) error {
	return unresolvedError{op: op, id: id, dest: dest}
}
