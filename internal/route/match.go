package route

import "strings"

// Matched is the result of locating a path in the navigation tree: the node
// that answers the attempt and any `:name` path parameters captured along
// the way.
type Matched struct {
	Node   Decider
	Params map[string]string
}

// Match locates the node for path. Shells are pathless and transparent;
// route paths match segment by segment, with `:name` segments capturing the
// attempted value. The first match in declaration order wins.
func Match(nodes []Node, path string) (Matched, bool) {
	segments := splitPath(path)
	return matchNodes(nodes, segments, map[string]string{})
}

func matchNodes(nodes []Node, segments []string, params map[string]string) (Matched, bool) {
	for _, n := range nodes {
		if shell, ok := n.(*Shell); ok {
			if m, found := matchNodes(shell.Children(), segments, params); found {
				return m, true
			}
			continue
		}
		if m, found := matchNode(n, segments, params); found {
			return m, true
		}
	}
	return Matched{}, false
}

func matchNode(n Node, segments []string, params map[string]string) (Matched, bool) {
	var pattern []string
	var children []Node
	decider, ok := n.(Decider)
	if !ok {
		return Matched{}, false
	}

	switch node := n.(type) {
	case *Route:
		pattern = splitPath(node.Path())
		children = node.Children()
	case *Plain:
		pattern = splitPath(node.Path())
		children = node.Children()
	case *Discard:
		pattern = splitPath(node.Path())
	default:
		return Matched{}, false
	}

	if len(pattern) > len(segments) {
		return Matched{}, false
	}

	captured := params
	copied := false
	for i, p := range pattern {
		if strings.HasPrefix(p, ":") {
			if !copied {
				captured = copyParams(captured)
				copied = true
			}
			captured[p[1:]] = segments[i]
			continue
		}
		if p != segments[i] {
			return Matched{}, false
		}
	}

	remainder := segments[len(pattern):]
	if len(remainder) == 0 {
		return Matched{Node: decider, Params: captured}, true
	}
	return matchNodes(children, remainder, captured)
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func copyParams(params map[string]string) map[string]string {
	copied := make(map[string]string, len(params)+1)
	for k, v := range params {
		copied[k] = v
	}
	return copied
}
