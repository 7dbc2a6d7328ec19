package route

import (
	"container/heap"
	"math"

	"github.com/matzehuels/boxarrow/pkg/geom"
)

// axes per grid node: arrival along no axis (start), horizontal, vertical.
const numAxes = 3

type state struct {
	node int
	axis geom.Axis
}

func (g *grid) stateID(s state) int { return s.node*numAxes + int(s.axis) }

type queueItem struct {
	id   int
	cost float64
	seq  int
}

// queue is a min-heap ordered by cost, then by insertion order, so equal-cost
// paths resolve to the one discovered first.
type queue []queueItem

func (q queue) Len() int { return len(q) }
func (q queue) Less(i, j int) bool {
	if q[i].cost != q[j].cost {
		return q[i].cost < q[j].cost
	}
	return q[i].seq < q[j].seq
}
func (q queue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *queue) Push(x any)   { *q = append(*q, x.(queueItem)) }
func (q *queue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// turn is the bend penalty for continuing along next after travelling along
// prev. Either axis being AxisNone means there is nothing to turn from.
func turn(prev, next geom.Axis, weight float64) float64 {
	if prev == geom.AxisNone || next == geom.AxisNone || prev == next {
		return 0
	}
	return weight
}

// search runs Dijkstra over (node, arrival axis) states. Moving along a grid
// edge costs its length times LengthWeight plus BendWeight when the axis
// changes. The start state carries the start anchor's preferred axis, so
// leaving it sideways costs DirectionWeight; arriving at the goal against
// the end anchor's axis is charged the same way.
//
// It returns grid nodes from start to goal, or nil when the goal is
// unreachable.
func (g *grid) search(start exit, startDir geom.Axis, goal exit, endDir geom.Axis, opts Options) []int {
	lw, bw, dw := opts.LengthWeight, opts.BendWeight, opts.DirectionWeight

	// Axis in effect when the path leaves the start node. Without an exit
	// segment the first move is weighed against the anchor's own axis.
	startAxis := startDir
	startCost := 0.0
	if start.axis != geom.AxisNone {
		startCost = start.dist*lw + turn(startDir, start.axis, dw)
		startAxis = start.axis
	}

	// finish is the remaining cost of reaching the goal point after arriving
	// at the goal node along axis a.
	finish := func(a geom.Axis) float64 {
		if goal.axis == geom.AxisNone {
			return turn(a, endDir, dw)
		}
		return goal.dist*lw + turn(a, goal.axis, bw) + turn(goal.axis, endDir, dw)
	}

	n := len(g.xs) * len(g.ys) * numAxes
	dist := make([]float64, n)
	prev := make([]int, n)
	for i := range dist {
		dist[i] = math.Inf(1)
		prev[i] = -1
	}

	var (
		q    queue
		seq  int
		buf  []step
		best = math.Inf(1)
		end  = -1
	)
	push := func(id int, cost float64) {
		heap.Push(&q, queueItem{id: id, cost: cost, seq: seq})
		seq++
	}

	first := g.stateID(state{start.node, startAxis})
	dist[first] = startCost
	push(first, startCost)

	for q.Len() > 0 {
		item := heap.Pop(&q).(queueItem)
		if item.cost > dist[item.id] {
			continue
		}
		if item.cost >= best {
			break
		}
		node, axis := item.id/numAxes, geom.Axis(item.id%numAxes)

		if node == goal.node {
			if total := item.cost + finish(axis); total < best-geom.Eps {
				best, end = total, item.id
			}
		}

		w := bw
		if item.id == first && start.axis == geom.AxisNone {
			w = dw
		}
		buf = g.neighbors(node, buf)
		for _, s := range buf {
			cost := item.cost + s.dist*lw + turn(axis, s.axis, w)
			id := g.stateID(state{s.to, s.axis})
			if cost < dist[id]-geom.Eps {
				dist[id] = cost
				prev[id] = item.id
				push(id, cost)
			}
		}
	}

	if end < 0 {
		return nil
	}
	var nodes []int
	for id := end; id >= 0; id = prev[id] {
		nodes = append(nodes, id/numAxes)
	}
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
	return nodes
}
