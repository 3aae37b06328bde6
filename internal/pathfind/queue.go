package pathfind

import "container/heap"

// openSet is a min-heap of search nodes ordered by f, then by insertion order.
type openSet []*node

func (p openSet) Len() int { return len(p) }

func (p openSet) Less(i, j int) bool {
	if p[i].f != p[j].f {
		return p[i].f < p[j].f
	}
	return p[i].seq < p[j].seq
}

func (p openSet) Swap(i, j int) { p[i], p[j] = p[j], p[i] }

func (p *openSet) Push(x any) { *p = append(*p, x.(*node)) }

func (p *openSet) Pop() any {
	old := *p
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*p = old[:n-1]
	return x
}

func newOpenSet() *openSet {
	o := &openSet{}
	heap.Init(o)
	return o
}
