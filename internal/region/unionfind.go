package region

// unionFind is an array-backed disjoint-set keyed by provisional label.
// The labeler records equivalences between touching provisional labels
// here and resolves every label to a canonical root in its second pass.
type unionFind struct {
	parent []int
}

// newUnionFind creates a disjoint-set with capacity for n elements, each
// initially its own root.
func newUnionFind(n int) *unionFind {
	if n < 1 {
		n = 1
	}
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return &unionFind{parent: p}
}

// ensure grows the parent array so that element x is addressable.
func (u *unionFind) ensure(x int) {
	for len(u.parent) <= x {
		u.parent = append(u.parent, len(u.parent))
	}
}

// find returns the canonical root of x, flattening the path behind it.
func (u *unionFind) find(x int) int {
	root := x
	for u.parent[root] != root {
		root = u.parent[root]
	}
	for u.parent[x] != root {
		u.parent[x], x = root, u.parent[x]
	}
	return root
}

// unite merges the classes of a and b. The smaller root becomes the
// canonical root of the merged class.
func (u *unionFind) unite(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if ra < rb {
		u.parent[rb] = ra
	} else {
		u.parent[ra] = rb
	}
}
