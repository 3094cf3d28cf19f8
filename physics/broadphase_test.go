// Copyright © 2024 Galvanized Logic Inc.

package physics

import (
	"testing"

	"github.com/gazed/kinetic/math/lin"
)

func aabbAt(x, y, half float64) AABB {
	return AABB{
		LowerBound: lin.V2{X: x - half, Y: y - half},
		UpperBound: lin.V2{X: x + half, Y: y + half},
	}
}

func TestDynamicTreeQueryFindsOverlap(t *testing.T) {
	tree := NewDynamicTree()
	pA := tree.CreateProxy(aabbAt(0, 0, 0.5), 100)
	pB := tree.CreateProxy(aabbAt(10, 10, 0.5), 200)

	var found []int
	tree.Query(aabbAt(0, 0, 1), func(userData int) bool {
		found = append(found, userData)
		return true
	})
	if len(found) != 1 || found[0] != 100 {
		t.Errorf("expected only proxy A's data, got %v", found)
	}
	_ = pA
	_ = pB
}

func TestDynamicTreeMoveProxy(t *testing.T) {
	tree := NewDynamicTree()
	p := tree.CreateProxy(aabbAt(0, 0, 0.5), 1)

	moved := tree.MoveProxy(p, aabbAt(0, 0, 0.5), lin.V2{})
	if moved {
		t.Error("proxy should not move when the tight aabb is still contained")
	}

	moved = tree.MoveProxy(p, aabbAt(100, 100, 0.5), lin.V2{X: 1, Y: 1})
	if !moved {
		t.Error("proxy should move once its tight aabb leaves the fattened aabb")
	}

	var found []int
	tree.Query(aabbAt(100, 100, 1), func(userData int) bool {
		found = append(found, userData)
		return true
	})
	if len(found) != 1 {
		t.Errorf("expected to find the moved proxy, got %v", found)
	}
}

func TestDynamicTreeDestroyProxy(t *testing.T) {
	tree := NewDynamicTree()
	p := tree.CreateProxy(aabbAt(0, 0, 0.5), 7)
	tree.DestroyProxy(p)

	var found []int
	tree.Query(aabbAt(0, 0, 1), func(userData int) bool {
		found = append(found, userData)
		return true
	})
	if len(found) != 0 {
		t.Errorf("expected no proxies after destroy, got %v", found)
	}
}

func TestDynamicTreeManyProxiesStayBalanced(t *testing.T) {
	tree := NewDynamicTree()
	for i := 0; i < 200; i++ {
		x := float64(i)
		tree.CreateProxy(aabbAt(x, 0, 0.4), i)
	}
	count := 0
	tree.Query(aabbAt(100, 0, 0.5), func(userData int) bool {
		count++
		return true
	})
	if count == 0 {
		t.Error("expected to find at least the proxy at x=100")
	}
}
