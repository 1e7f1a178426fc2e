package library

import (
	"fmt"
	"math"
)

// CheckInvariants walks the whole index and reports the first structural
// fault found: broken parent links, keys out of order, a RED node with a
// RED parent, unequal black heights, a RED root or sentinel, or a size that
// disagrees with the node count. A non-nil result is an index bug.
func (t *OrderedIndex) CheckInvariants() error {
	if t.color(sentinel) != Black {
		return fmt.Errorf("sentinel is %s", t.color(sentinel))
	}
	if t.root == sentinel {
		if t.size != 0 {
			return fmt.Errorf("empty tree reports size %d", t.size)
		}
		return nil
	}
	if t.color(t.root) != Black {
		return fmt.Errorf("root %d is %s", t.key(t.root), t.color(t.root))
	}
	if t.parent(t.root) != sentinel {
		return fmt.Errorf("root %d has a parent", t.key(t.root))
	}

	count := 0
	if _, err := t.checkSubtree(t.root, sentinel, math.MinInt64, math.MaxInt64, &count); err != nil {
		return err
	}
	if count != t.size {
		return fmt.Errorf("counted %d nodes, size is %d", count, t.size)
	}
	return nil
}

// checkSubtree verifies n and its descendants and returns the subtree's
// black height. Keys must lie within [low, high].
func (t *OrderedIndex) checkSubtree(n, up nodeID, low, high int64, count *int) (int, error) {
	if n == sentinel {
		return 0, nil
	}
	*count++

	key := t.key(n)
	if t.parent(n) != up {
		return 0, fmt.Errorf("node %d: parent link does not match", key)
	}
	if key < low || key > high {
		return 0, fmt.Errorf("node %d: outside [%d, %d]", key, low, high)
	}
	if t.color(n) == Red && t.color(up) == Red {
		return 0, fmt.Errorf("node %d: red node with red parent %d", key, t.key(up))
	}

	var left, right int
	var err error
	if t.left(n) != sentinel {
		if key == math.MinInt64 {
			return 0, fmt.Errorf("node %d: left child below minimum key", key)
		}
		if left, err = t.checkSubtree(t.left(n), n, low, key-1, count); err != nil {
			return 0, err
		}
	}
	if t.right(n) != sentinel {
		if key == math.MaxInt64 {
			return 0, fmt.Errorf("node %d: right child above maximum key", key)
		}
		if right, err = t.checkSubtree(t.right(n), n, key+1, high, count); err != nil {
			return 0, err
		}
	}
	if left != right {
		return 0, fmt.Errorf("node %d: black height %d on the left, %d on the right", key, left, right)
	}
	if t.color(n) == Black {
		left++
	}
	return left, nil
}
