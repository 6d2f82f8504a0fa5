package route

import (
	"github.com/vipinkashyap/go-guardian/internal/guard"
	"github.com/vipinkashyap/go-guardian/internal/model"
)

// Shell is a layout wrapper enclosing a subtree of routes. Its guards are
// prepended to every descendant protected route's own guards and its
// metadata is merged underneath theirs, all at construction time. The
// pre-propagation child list is retained so that wrapping a shell in
// another shell re-propagates from the originals and never double-prepends.
type Shell struct {
	guards    []guard.Guard
	meta      model.Meta
	children  []Node // propagated
	originals []Node // as declared
}

// ShellOption configures a shell at construction time.
type ShellOption func(*Shell)

// WithShellGuards sets the guards every descendant protected route inherits.
func WithShellGuards(guards ...guard.Guard) ShellOption {
	return func(s *Shell) { s.guards = guards }
}

// WithShellMeta sets the metadata merged underneath every descendant
// protected route's own metadata.
func WithShellMeta(meta model.Meta) ShellOption {
	return func(s *Shell) { s.meta = meta }
}

// WithShellChildren sets the subtree the shell encloses.
func WithShellChildren(children ...Node) ShellOption {
	return func(s *Shell) { s.children = children }
}

// NewShell creates a shell and immediately propagates its guards and
// metadata into the subtree.
func NewShell(opts ...ShellOption) *Shell {
	s := &Shell{meta: model.EmptyMeta}
	for _, o := range opts {
		o(s)
	}
	s.originals = s.children
	s.children = propagate(s.guards, s.meta, s.originals)
	return s
}

func (s *Shell) node() {}

// Guards returns the shell's own declared guards.
func (s *Shell) Guards() []guard.Guard { return s.guards }

// Meta returns the shell's own declared metadata.
func (s *Shell) Meta() model.Meta { return s.meta }

// Children returns the propagated subtree.
func (s *Shell) Children() []Node { return s.children }

// rebuiltWith returns a copy of the shell whose subtree is re-propagated
// from the pre-propagation originals under the combined guard list and
// metadata. Recursing over originals is what keeps repeated reconstruction
// idempotent.
func (s *Shell) rebuiltWith(combined []guard.Guard, combinedMeta model.Meta) *Shell {
	return &Shell{
		guards:    s.guards,
		meta:      s.meta,
		originals: s.originals,
		children:  propagate(combined, combinedMeta, s.originals),
	}
}

// propagate applies inherited guards and metadata to each node of a
// subtree: protected routes are rebuilt with the inheritance applied,
// nested shells combine and recurse over their own originals, and plain or
// discard routes pass through untouched. A shell with nothing to propagate
// rewrites nothing at all.
func propagate(inherited []guard.Guard, inheritedMeta model.Meta, nodes []Node) []Node {
	if len(inherited) == 0 && inheritedMeta.IsEmpty() {
		return nodes
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		switch child := n.(type) {
		case *Route:
			out[i] = child.rebuild(inherited, inheritedMeta)
		case *Shell:
			combined := make([]guard.Guard, 0, len(inherited)+len(child.guards))
			combined = append(combined, inherited...)
			combined = append(combined, child.guards...)
			out[i] = child.rebuiltWith(combined, inheritedMeta.Merge(child.meta))
		default:
			out[i] = n
		}
	}
	return out
}
