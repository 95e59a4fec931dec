package report

// Builder tracks the stack of currently open suites and collects the
// forest of root suites as they close. Both the in-place reporter and the
// full-screen view drive one of these.
type Builder struct {
	stack   []*Suite
	roots   []*Suite
	orphans *Suite
}

// Open pushes a new suite; it becomes the current one.
func (b *Builder) Open(title string) {
	b.stack = append(b.stack, &Suite{Title: title})
}

// Close pops the current suite. A suite closing at the top level becomes
// a root; otherwise it attaches as the last child of the new stack top.
// No-op on an empty stack.
func (b *Builder) Close() {
	n := len(b.stack) - 1
	if n < 0 {
		return
	}
	node := b.stack[n]
	b.stack = b.stack[:n]
	if n == 0 {
		b.roots = append(b.roots, node)
	} else {
		parent := b.stack[n-1]
		parent.Children = append(parent.Children, node)
	}
}

// Fail appends a failure record to the innermost open suite. A failure
// arriving outside any suite lands in a lazily created untitled root, so
// translator output with top-level tests still reports cleanly.
func (b *Builder) Fail(title, message string) {
	f := Failure{Title: title, Message: message}
	if len(b.stack) == 0 {
		if b.orphans == nil {
			b.orphans = &Suite{}
			b.roots = append(b.roots, b.orphans)
		}
		b.orphans.Failures = append(b.orphans.Failures, f)
		return
	}
	cur := b.stack[len(b.stack)-1]
	cur.Failures = append(cur.Failures, f)
}

// Depth returns the number of currently open suites.
func (b *Builder) Depth() int { return len(b.stack) }

// Roots returns the forest of closed top-level suites in closing order.
func (b *Builder) Roots() []*Suite { return b.roots }
