// seehuhn.de/go/slicer - a slicer for resin 3D printers
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package mesh

import (
	"cmp"
	"slices"
)

// intervalTree is a static centred interval tree over the z-extents of the
// triangles of a mesh. Nodes live in one slice and refer to their children
// by position, -1 meaning "no child".
//
// Every triangle is stored in exactly one node: the first node, walking
// down from the root, whose centre lies within [zMin, zMax].
type intervalTree struct {
	nodes []treeNode
	root  int32
}

type treeNode struct {
	center float64

	// byMin and byMax list the triangles overlapping center, sorted by
	// increasing zMin and decreasing zMax respectively.
	byMin []int32
	byMax []int32

	left, right int32
}

func buildIntervalTree(tris []Triangle) intervalTree {
	idx := make([]int32, len(tris))
	for i := range idx {
		idx[i] = int32(i)
	}
	var t intervalTree
	t.root = t.build(tris, idx)
	return t
}

// build adds a subtree for the triangles idx and returns its root.
func (t *intervalTree) build(tris []Triangle, idx []int32) int32 {
	if len(idx) == 0 {
		return -1
	}

	// The median of the interval midpoints is covered by at least one
	// interval and leaves at most half of the intervals on either side.
	mid := make([]float64, len(idx))
	for i, k := range idx {
		mid[i] = (tris[k].zMin + tris[k].zMax) / 2
	}
	slices.Sort(mid)
	center := mid[len(mid)/2]

	var left, here, right []int32
	for _, k := range idx {
		switch {
		case tris[k].zMax < center:
			left = append(left, k)
		case tris[k].zMin > center:
			right = append(right, k)
		default:
			here = append(here, k)
		}
	}

	byMin := here
	byMax := slices.Clone(here)
	slices.SortFunc(byMin, func(a, b int32) int {
		return cmp.Or(cmp.Compare(tris[a].zMin, tris[b].zMin), cmp.Compare(a, b))
	})
	slices.SortFunc(byMax, func(a, b int32) int {
		return cmp.Or(cmp.Compare(tris[b].zMax, tris[a].zMax), cmp.Compare(a, b))
	})

	pos := int32(len(t.nodes))
	t.nodes = append(t.nodes, treeNode{
		center: center,
		byMin:  byMin,
		byMax:  byMax,
	})
	l := t.build(tris, left)
	r := t.build(tris, right)
	t.nodes[pos].left = l
	t.nodes[pos].right = r
	return pos
}

// query appends the indices of all triangles with zMin <= z <= zMax.
func (t *intervalTree) query(tris []Triangle, z float64, dst []int32) []int32 {
	for n := t.root; n >= 0; {
		node := &t.nodes[n]
		if z < node.center {
			// all intervals in this node end above z
			for _, k := range node.byMin {
				if tris[k].zMin > z {
					break
				}
				dst = append(dst, k)
			}
			n = node.left
		} else {
			// all intervals in this node start at or below z
			for _, k := range node.byMax {
				if tris[k].zMax < z {
					break
				}
				dst = append(dst, k)
			}
			n = node.right
		}
	}
	return dst
}

// depth returns the height of the tree, for tests.
func (t *intervalTree) depth() int {
	var walk func(n int32) int
	walk = func(n int32) int {
		if n < 0 {
			return 0
		}
		return 1 + max(walk(t.nodes[n].left), walk(t.nodes[n].right))
	}
	return walk(t.root)
}
