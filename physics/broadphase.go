// Copyright © 2024 Galvanized Logic Inc.

package physics

// broadphase.go replaces the naive all-pairs distance scan broad.go used
// (every body checked against every other by bounding-sphere distance)
// with a dynamic AABB tree: O(log n) insert/remove/query instead of
// O(n^2) pair generation, and "fat" AABBs so a body can move a little
// each step without forcing a tree update.

import "github.com/gazed/kinetic/math/lin"

const nullNode = -1

type treeNode struct {
	aabb        AABB
	userData    int // proxy ID assigned by the caller (a fixture index)
	parent      int // also doubles as "next free node" when on the free list
	child1      int
	child2      int
	height      int // leaf = 0, free node = -1
}

func (n *treeNode) isLeaf() bool { return n.child1 == nullNode }

// DynamicTree is a bounding volume hierarchy over fattened AABBs, used
// by the World as its broad-phase structure: candidate overlapping
// pairs come from this tree, not from testing every fixture pair.
type DynamicTree struct {
	root       int
	nodes      []treeNode
	freeList   int
	nodeCount  int
	insertionCount int
}

// NewDynamicTree returns an empty tree with room for an initial batch of
// nodes preallocated.
func NewDynamicTree() *DynamicTree {
	t := &DynamicTree{root: nullNode}
	t.nodes = make([]treeNode, 0, 16)
	t.freeList = nullNode
	return t
}

func (t *DynamicTree) allocateNode() int {
	if t.freeList != nullNode {
		id := t.freeList
		t.freeList = t.nodes[id].parent
		t.nodes[id] = treeNode{child1: nullNode, child2: nullNode, height: 0}
		t.nodeCount++
		return id
	}
	t.nodes = append(t.nodes, treeNode{child1: nullNode, child2: nullNode, height: 0})
	t.nodeCount++
	return len(t.nodes) - 1
}

func (t *DynamicTree) freeNode(id int) {
	t.nodes[id].parent = t.freeList
	t.nodes[id].height = -1
	t.freeList = id
	t.nodeCount--
}

// CreateProxy fattens the given AABB by aabbExtension on every side,
// inserts it as a leaf and returns its
// proxy ID, which callers (Fixture) hold onto to later MoveProxy or
// DestroyProxy it.
func (t *DynamicTree) CreateProxy(aabb AABB, userData int) int {
	id := t.allocateNode()
	margin := lin.V2{X: aabbExtension(), Y: aabbExtension()}
	t.nodes[id].aabb = AABB{
		LowerBound: lin.V2{X: aabb.LowerBound.X - margin.X, Y: aabb.LowerBound.Y - margin.Y},
		UpperBound: lin.V2{X: aabb.UpperBound.X + margin.X, Y: aabb.UpperBound.Y + margin.Y},
	}
	t.nodes[id].userData = userData
	t.nodes[id].height = 0
	t.insertLeaf(id)
	return id
}

// DestroyProxy removes a previously created proxy.
func (t *DynamicTree) DestroyProxy(proxyID int) {
	t.removeLeaf(proxyID)
	t.freeNode(proxyID)
}

// MoveProxy re-inserts proxyID if its fat AABB no longer contains the
// tight AABB passed in (e.g. after the body moved); displacement
// predictively extends the fat AABB in the direction of travel so a
// steadily moving body does not retrigger a tree update every step.
// Returns true if the proxy was actually moved.
func (t *DynamicTree) MoveProxy(proxyID int, aabb AABB, displacement lin.V2) bool {
	if t.nodes[proxyID].aabb.Contains(aabb) {
		return false
	}
	t.removeLeaf(proxyID)

	margin := aabbExtension()
	fat := AABB{
		LowerBound: lin.V2{X: aabb.LowerBound.X - margin, Y: aabb.LowerBound.Y - margin},
		UpperBound: lin.V2{X: aabb.UpperBound.X + margin, Y: aabb.UpperBound.Y + margin},
	}
	if displacement.X < 0 {
		fat.LowerBound.X += displacement.X * aabbMultiplier
	} else {
		fat.UpperBound.X += displacement.X * aabbMultiplier
	}
	if displacement.Y < 0 {
		fat.LowerBound.Y += displacement.Y * aabbMultiplier
	} else {
		fat.UpperBound.Y += displacement.Y * aabbMultiplier
	}
	t.nodes[proxyID].aabb = fat
	t.insertLeaf(proxyID)
	return true
}

// GetFatAABB returns the stored (margin-expanded) AABB for a proxy.
func (t *DynamicTree) GetFatAABB(proxyID int) AABB { return t.nodes[proxyID].aabb }

// GetUserData returns the userData a proxy was created with.
func (t *DynamicTree) GetUserData(proxyID int) int { return t.nodes[proxyID].userData }

func (t *DynamicTree) insertLeaf(leaf int) {
	t.insertionCount++
	if t.root == nullNode {
		t.root = leaf
		t.nodes[leaf].parent = nullNode
		return
	}

	leafAABB := t.nodes[leaf].aabb
	index := t.root
	for !t.nodes[index].isLeaf() {
		child1, child2 := t.nodes[index].child1, t.nodes[index].child2

		area := t.nodes[index].aabb.Perimeter()
		combined := t.nodes[index].aabb.Combine(leafAABB)
		combinedArea := combined.Perimeter()

		cost := 2.0 * combinedArea
		inheritanceCost := 2.0 * (combinedArea - area)

		cost1 := t.childCost(child1, leafAABB, inheritanceCost)
		cost2 := t.childCost(child2, leafAABB, inheritanceCost)

		if cost < cost1 && cost < cost2 {
			break
		}
		if cost1 < cost2 {
			index = child1
		} else {
			index = child2
		}
	}

	sibling := index
	oldParent := t.nodes[sibling].parent
	newParent := t.allocateNode()
	t.nodes[newParent].parent = oldParent
	t.nodes[newParent].aabb = leafAABB.Combine(t.nodes[sibling].aabb)
	t.nodes[newParent].height = t.nodes[sibling].height + 1

	if oldParent != nullNode {
		if t.nodes[oldParent].child1 == sibling {
			t.nodes[oldParent].child1 = newParent
		} else {
			t.nodes[oldParent].child2 = newParent
		}
		t.nodes[newParent].child1 = sibling
		t.nodes[newParent].child2 = leaf
		t.nodes[sibling].parent = newParent
		t.nodes[leaf].parent = newParent
	} else {
		t.nodes[newParent].child1 = sibling
		t.nodes[newParent].child2 = leaf
		t.nodes[sibling].parent = newParent
		t.nodes[leaf].parent = newParent
		t.root = newParent
	}

	t.fixupAncestors(t.nodes[leaf].parent)
}

func (t *DynamicTree) childCost(child int, leafAABB AABB, inheritanceCost float64) float64 {
	if t.nodes[child].isLeaf() {
		combined := leafAABB.Combine(t.nodes[child].aabb)
		return combined.Perimeter() + inheritanceCost
	}
	combined := leafAABB.Combine(t.nodes[child].aabb)
	oldArea := t.nodes[child].aabb.Perimeter()
	newArea := combined.Perimeter()
	return (newArea - oldArea) + inheritanceCost
}

func (t *DynamicTree) fixupAncestors(index int) {
	for index != nullNode {
		index = t.balance(index)
		child1, child2 := t.nodes[index].child1, t.nodes[index].child2
		t.nodes[index].height = 1 + max(t.nodes[child1].height, t.nodes[child2].height)
		t.nodes[index].aabb = t.nodes[child1].aabb.Combine(t.nodes[child2].aabb)
		index = t.nodes[index].parent
	}
}

func (t *DynamicTree) removeLeaf(leaf int) {
	if leaf == t.root {
		t.root = nullNode
		return
	}

	parent := t.nodes[leaf].parent
	grandParent := t.nodes[parent].parent
	var sibling int
	if t.nodes[parent].child1 == leaf {
		sibling = t.nodes[parent].child2
	} else {
		sibling = t.nodes[parent].child1
	}

	if grandParent != nullNode {
		if t.nodes[grandParent].child1 == parent {
			t.nodes[grandParent].child1 = sibling
		} else {
			t.nodes[grandParent].child2 = sibling
		}
		t.nodes[sibling].parent = grandParent
		t.freeNode(parent)
		t.fixupAncestors(grandParent)
	} else {
		t.root = sibling
		t.nodes[sibling].parent = nullNode
		t.freeNode(parent)
	}
}

// balance performs one AVL-style rotation rooted at iA if its two
// subtrees differ in height by more than one, keeping query time
// logarithmic even after many insert/remove cycles.
func (t *DynamicTree) balance(iA int) int {
	a := &t.nodes[iA]
	if a.isLeaf() || a.height < 2 {
		return iA
	}

	iB, iC := a.child1, a.child2
	b, c := &t.nodes[iB], &t.nodes[iC]
	balance := c.height - b.height

	if balance > 1 {
		return t.rotate(iA, iC, iB)
	}
	if balance < -1 {
		return t.rotate(iA, iB, iC)
	}
	return iA
}

// rotate brings iHeavy (the taller child of iA, itself a non-leaf) up
// to iA's position, demoting iA to be iHeavy's child alongside the
// taller of iHeavy's own children; iA takes the shorter one in the slot
// iHeavy used to occupy.
func (t *DynamicTree) rotate(iA, iHeavy, iOther int) int {
	a := &t.nodes[iA]
	heavy := &t.nodes[iHeavy]
	f, g := heavy.child1, heavy.child2
	fNode, gNode := &t.nodes[f], &t.nodes[g]
	heavyWasChild1 := a.child1 == iHeavy

	heavy.child1 = iA
	heavy.parent = a.parent
	a.parent = iHeavy

	if heavy.parent != nullNode {
		if t.nodes[heavy.parent].child1 == iA {
			t.nodes[heavy.parent].child1 = iHeavy
		} else {
			t.nodes[heavy.parent].child2 = iHeavy
		}
	} else {
		t.root = iHeavy
	}

	if fNode.height > gNode.height {
		heavy.child2 = f
		if heavyWasChild1 {
			a.child1 = g
		} else {
			a.child2 = g
		}
		gNode.parent = iA
		a.aabb = t.nodes[iOther].aabb.Combine(gNode.aabb)
		heavy.aabb = a.aabb.Combine(fNode.aabb)
		a.height = 1 + max(t.nodes[iOther].height, gNode.height)
		heavy.height = 1 + max(a.height, fNode.height)
	} else {
		heavy.child2 = g
		if heavyWasChild1 {
			a.child1 = f
		} else {
			a.child2 = f
		}
		fNode.parent = iA
		a.aabb = t.nodes[iOther].aabb.Combine(fNode.aabb)
		heavy.aabb = a.aabb.Combine(gNode.aabb)
		a.height = 1 + max(t.nodes[iOther].height, fNode.height)
		heavy.height = 1 + max(a.height, gNode.height)
	}
	return iHeavy
}

// Query visits every leaf whose fat AABB overlaps aabb, calling cb with
// its userData. cb returns false to stop the query early.
func (t *DynamicTree) Query(aabb AABB, cb func(userData int) bool) {
	if t.root == nullNode {
		return
	}
	stack := []int{t.root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == nullNode {
			continue
		}
		node := &t.nodes[id]
		if !node.aabb.Overlap(aabb) {
			continue
		}
		if node.isLeaf() {
			if !cb(node.userData) {
				return
			}
		} else {
			stack = append(stack, node.child1, node.child2)
		}
	}
}
