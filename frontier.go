package main

import "container/heap"

// frontierItem is a cell waiting in the open set
type frontierItem struct {
	Index int     // Linear cell index (row*width + col)
	F     float64 // g + h, the priority
	H     float64 // Heuristic to goal, first tie-breaker
	Seq   uint64  // Insertion order, second tie-breaker
	Pos   int     // Position in the heap, -1 when not queued
}

// frontierQueue implements heap.Interface ordered by F, then H, then Seq
type frontierQueue []*frontierItem

func (fq frontierQueue) Len() int { return len(fq) }

func (fq frontierQueue) Less(i, j int) bool {
	if fq[i].F != fq[j].F {
		return fq[i].F < fq[j].F
	}
	if fq[i].H != fq[j].H {
		return fq[i].H < fq[j].H
	}
	return fq[i].Seq < fq[j].Seq
}

func (fq frontierQueue) Swap(i, j int) {
	fq[i], fq[j] = fq[j], fq[i]
	fq[i].Pos = i
	fq[j].Pos = j
}

func (fq *frontierQueue) Push(x interface{}) {
	item := x.(*frontierItem)
	item.Pos = len(*fq)
	*fq = append(*fq, item)
}

func (fq *frontierQueue) Pop() interface{} {
	old := *fq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.Pos = -1
	*fq = old[0 : n-1]
	return item
}

// frontier is the open set. Items are kept per cell so a cell can be
// re-prioritized in place (decrease-key) or re-queued after expansion.
type frontier struct {
	queue frontierQueue
	items []*frontierItem
	seq   uint64
}

func newFrontier(size int) *frontier {
	return &frontier{items: make([]*frontierItem, size)}
}

func (f *frontier) Len() int { return f.queue.Len() }

// upsert queues idx with the given scores, or updates its priority if queued
func (f *frontier) upsert(idx int, fScore, h float64) {
	if f.contains(idx) {
		item := f.items[idx]
		item.F, item.H = fScore, h
		heap.Fix(&f.queue, item.Pos)
		return
	}

	item := f.items[idx]
	if item == nil {
		item = &frontierItem{Index: idx}
		f.items[idx] = item
	}
	item.F, item.H = fScore, h
	f.seq++
	item.Seq = f.seq
	heap.Push(&f.queue, item)
}

// pop removes and returns the cell index with the lowest priority
func (f *frontier) pop() int {
	return heap.Pop(&f.queue).(*frontierItem).Index
}

// contains reports whether idx is currently queued
func (f *frontier) contains(idx int) bool {
	item := f.items[idx]
	return item != nil && item.Pos >= 0
}

func (f *frontier) reset() {
	for i := range f.queue {
		f.queue[i] = nil
	}
	f.queue = f.queue[:0]
	for i := range f.items {
		f.items[i] = nil
	}
	f.seq = 0
}
