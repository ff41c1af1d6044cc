package geom

// DisjointSet is a union-find over integer ids 0..n-1. Negative entries are
// roots; any other entry is the index of its parent. Find compresses paths,
// which changes tree shape but not any observable connectivity answer.
type DisjointSet struct {
	parent []int
}

// NewDisjointSet returns a set in which every id is its own singleton root.
func NewDisjointSet(n int) *DisjointSet {
	p := make([]int, n)
	for i := range p {
		p[i] = -1
	}
	return &DisjointSet{parent: p}
}

// Find returns the root id of x's set.
func (d *DisjointSet) Find(x int) int {
	if d.parent[x] < 0 {
		return x
	}
	root := d.Find(d.parent[x])
	d.parent[x] = root
	return root
}

// Union merges the sets holding a and b. Merging a set with itself is a no-op.
func (d *DisjointSet) Union(a, b int) {
	ra, rb := d.Find(a), d.Find(b)
	if ra != rb {
		d.parent[rb] = ra
	}
}

// Same reports whether a and b currently share a set.
func (d *DisjointSet) Same(a, b int) bool {
	return d.Find(a) == d.Find(b)
}
