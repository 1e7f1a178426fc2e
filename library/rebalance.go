package library

// rotateLeft pivots x with its right child y; y takes x's place under x's
// parent and x becomes y's left child.
func (t *OrderedIndex) rotateLeft(x nodeID) {
	y := t.right(x)
	t.setRight(x, t.left(y))
	if t.left(y) != sentinel {
		t.setParent(t.left(y), x)
	}
	t.setParent(y, t.parent(x))
	switch p := t.parent(x); {
	case p == sentinel:
		t.root = y
	case x == t.left(p):
		t.setLeft(p, y)
	default:
		t.setRight(p, y)
	}
	t.setLeft(y, x)
	t.setParent(x, y)
}

// rotateRight is the mirror of rotateLeft.
func (t *OrderedIndex) rotateRight(y nodeID) {
	x := t.left(y)
	t.setLeft(y, t.right(x))
	if t.right(x) != sentinel {
		t.setParent(t.right(x), y)
	}
	t.setParent(x, t.parent(y))
	switch p := t.parent(y); {
	case p == sentinel:
		t.root = x
	case y == t.right(p):
		t.setRight(p, x)
	default:
		t.setLeft(p, x)
	}
	t.setRight(x, y)
	t.setParent(y, x)
}

// insertFixup restores the red-black properties after z was linked in as a
// RED leaf. A grandparent that is the root keeps its BLACK colour when the
// red uncle case pushes the violation upwards.
func (t *OrderedIndex) insertFixup(z nodeID) {
	for t.color(t.parent(z)) == Red {
		p := t.parent(z)
		g := t.parent(p)
		if p == t.left(g) {
			u := t.right(g)
			if t.color(u) == Red {
				t.setColor(p, Black)
				t.setColor(u, Black)
				if g != t.root {
					t.setColor(g, Red)
				}
				z = g
				continue
			}
			if z == t.right(p) {
				z = p
				t.rotateLeft(z)
			}
			t.setColor(t.parent(z), Black)
			t.setColor(t.parent(t.parent(z)), Red)
			t.rotateRight(t.parent(t.parent(z)))
		} else {
			u := t.left(g)
			if t.color(u) == Red {
				t.setColor(p, Black)
				t.setColor(u, Black)
				if g != t.root {
					t.setColor(g, Red)
				}
				z = g
				continue
			}
			if z == t.left(p) {
				z = p
				t.rotateRight(z)
			}
			t.setColor(t.parent(z), Black)
			t.setColor(t.parent(t.parent(z)), Red)
			t.rotateLeft(t.parent(t.parent(z)))
		}
	}
	t.setColor(t.root, Black)
}

// transplant replaces the subtree rooted at u with the one rooted at v.
// v's parent link is written even when v is the sentinel; deleteFixup
// relies on it.
func (t *OrderedIndex) transplant(u, v nodeID) {
	switch p := t.parent(u); {
	case p == sentinel:
		t.root = v
	case u == t.left(p):
		t.setLeft(p, v)
	default:
		t.setRight(p, v)
	}
	t.setParent(v, t.parent(u))
}

// deleteNode unlinks z. A node with two children is replaced by its in-order
// predecessor, which takes over z's colour.
func (t *OrderedIndex) deleteNode(z nodeID) {
	y := z
	yColor := t.color(y)
	var x nodeID

	switch {
	case t.left(z) == sentinel:
		x = t.right(z)
		t.transplant(z, x)
	case t.right(z) == sentinel:
		x = t.left(z)
		t.transplant(z, x)
	default:
		y = t.maxNode(t.left(z))
		yColor = t.color(y)
		x = t.left(y)
		if t.parent(y) == z {
			t.setParent(x, y)
		} else {
			t.transplant(y, x)
			t.setLeft(y, t.left(z))
			t.setParent(t.left(y), y)
		}
		t.transplant(z, y)
		t.setRight(y, t.right(z))
		t.setParent(t.right(y), y)
		t.setColor(y, t.color(z))
	}

	if yColor == Black {
		t.deleteFixup(x)
	}
}

// deleteFixup removes the extra black carried by x after a BLACK node was
// unlinked above it.
func (t *OrderedIndex) deleteFixup(x nodeID) {
	for x != t.root && t.color(x) == Black {
		p := t.parent(x)
		if x == t.left(p) {
			w := t.right(p)
			if t.color(w) == Red {
				t.setColor(w, Black)
				t.setColor(p, Red)
				t.rotateLeft(p)
				w = t.right(p)
			}
			if t.color(t.left(w)) == Black && t.color(t.right(w)) == Black {
				t.setColor(w, Red)
				x = p
				continue
			}
			if t.color(t.right(w)) == Black {
				t.setColor(t.left(w), Black)
				t.setColor(w, Red)
				t.rotateRight(w)
				w = t.right(p)
			}
			t.setColor(w, t.color(p))
			t.setColor(p, Black)
			t.setColor(t.right(w), Black)
			t.rotateLeft(p)
			x = t.root
		} else {
			w := t.left(p)
			if t.color(w) == Red {
				t.setColor(w, Black)
				t.setColor(p, Red)
				t.rotateRight(p)
				w = t.left(p)
			}
			if t.color(t.right(w)) == Black && t.color(t.left(w)) == Black {
				t.setColor(w, Red)
				x = p
				continue
			}
			if t.color(t.left(w)) == Black {
				t.setColor(t.right(w), Black)
				t.setColor(w, Red)
				t.rotateLeft(w)
				w = t.left(p)
			}
			t.setColor(w, t.color(p))
			t.setColor(p, Black)
			t.setColor(t.left(w), Black)
			t.rotateRight(p)
			x = t.root
		}
	}
	t.setColor(x, Black)
}
