package callgraph

// Cycles returns every strongly-connected component of size ≥ 2, plus any
// single-node component with a self-edge (base spec §3: "strongly
// connected components of size ≥ 1 with a self-edge, or size ≥ 2").
// Tarjan's algorithm, implemented iteratively with an explicit stack
// rather than recursion.
func (g *Graph) Cycles() [][]string {
	t := &tarjan{
		graph:   g,
		index:   make(map[string]int),
		lowlink: make(map[string]int),
		onStack: make(map[string]bool),
	}
	for _, n := range g.order {
		if _, seen := t.index[n]; !seen {
			t.strongConnect(n)
		}
	}
	var cycles [][]string
	for _, comp := range t.components {
		if len(comp) >= 2 || hasSelfEdge(g, comp[0]) {
			cycles = append(cycles, comp)
		}
	}
	return cycles
}

func hasSelfEdge(g *Graph, n string) bool {
	for _, e := range g.edges[n] {
		if e.Callee == n {
			return true
		}
	}
	return false
}

type tarjan struct {
	graph      *Graph
	counter    int
	index      map[string]int
	lowlink    map[string]int
	onStack    map[string]bool
	stack      []string
	components [][]string
}

type frame struct {
	node     string
	edgeIdx  int
}

// strongConnect runs Tarjan's algorithm from root using an explicit frame
// stack in place of recursion.
func (t *tarjan) strongConnect(root string) {
	var call []*frame
	push := func(n string) {
		t.index[n] = t.counter
		t.lowlink[n] = t.counter
		t.counter++
		t.stack = append(t.stack, n)
		t.onStack[n] = true
		call = append(call, &frame{node: n})
	}
	push(root)

	for len(call) > 0 {
		f := call[len(call)-1]
		edges := t.graph.edges[f.node]
		if f.edgeIdx < len(edges) {
			w := edges[f.edgeIdx].Callee
			f.edgeIdx++
			if !t.graph.Has(w) {
				continue // unresolved callee: no node to recurse into
			}
			if _, seen := t.index[w]; !seen {
				push(w)
				continue
			}
			if t.onStack[w] {
				if t.index[w] < t.lowlink[f.node] {
					t.lowlink[f.node] = t.index[w]
				}
			}
			continue
		}

		// All edges of f.node explored; pop and propagate lowlink.
		call = call[:len(call)-1]
		if len(call) > 0 {
			parent := call[len(call)-1]
			if t.lowlink[f.node] < t.lowlink[parent.node] {
				t.lowlink[parent.node] = t.lowlink[f.node]
			}
		}
		if t.lowlink[f.node] == t.index[f.node] {
			var comp []string
			for {
				n := t.stack[len(t.stack)-1]
				t.stack = t.stack[:len(t.stack)-1]
				t.onStack[n] = false
				comp = append(comp, n)
				if n == f.node {
					break
				}
			}
			t.components = append(t.components, comp)
		}
	}
}
