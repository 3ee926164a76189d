package main

// ParentLookup resolves a cell's predecessor on the search tree
type ParentLookup interface {
	Parent(c Cell) (Cell, bool)
}

// ParentMap is a dense came-from table sized to the grid
type ParentMap struct {
	width   int
	parents []int32 // -1 when the cell has no parent
}

func newParentMap(height, width int) ParentMap {
	pm := ParentMap{width: width, parents: make([]int32, height*width)}
	pm.clear()
	return pm
}

func (pm ParentMap) clear() {
	for i := range pm.parents {
		pm.parents[i] = -1
	}
}

// Parent returns the recorded predecessor of c
func (pm ParentMap) Parent(c Cell) (Cell, bool) {
	p := pm.parents[c.Row*pm.width+c.Col]
	if p < 0 {
		return Cell{}, false
	}
	return Cell{Row: int(p) / pm.width, Col: int(p) % pm.width}, true
}

// Set records parent as the predecessor of c
func (pm ParentMap) Set(c, parent Cell) {
	pm.parents[c.Row*pm.width+c.Col] = int32(parent.Row*pm.width + parent.Col)
}

// ReconstructPath walks parent links back from terminal until it reaches a
// cell without a parent (the start) and returns the cells in start→terminal
// order.
func ReconstructPath(parents ParentLookup, terminal Cell) []Cell {
	path := []Cell{terminal}
	current := terminal
	for {
		prev, ok := parents.Parent(current)
		if !ok {
			break
		}
		path = append(path, prev)
		current = prev
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
