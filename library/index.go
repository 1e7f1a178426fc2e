package library

// nodeID addresses a node in the index arena.
type nodeID int32

// sentinel is the shared BLACK leaf standing in for every missing child and
// for the root's parent. It always occupies slot 0 of the arena.
const sentinel nodeID = 0

type treeNode struct {
	book   *Book
	color  Color
	left   nodeID
	right  nodeID
	parent nodeID
}

// OrderedIndex is a red-black tree of books keyed by book id. Nodes live in
// an arena and refer to each other by slot, so parent back-links never
// alias outside the tree.
//
// An index is not safe for concurrent use.
type OrderedIndex struct {
	nodes    []treeNode
	free     []nodeID
	root     nodeID
	size     int
	capacity int
}

// NewOrderedIndex returns an empty index. Books created by Insert get a
// waitlist of the given capacity.
func NewOrderedIndex(waitlistCapacity int) *OrderedIndex {
	return &OrderedIndex{
		nodes:    []treeNode{{color: Black, left: sentinel, right: sentinel, parent: sentinel}},
		root:     sentinel,
		capacity: waitlistCapacity,
	}
}

// Len is the number of books in the index.
func (t *OrderedIndex) Len() int { return t.size }

// Insert places a new book at its ordered position and rebalances. If the
// id is already present nothing changes and the existing book is returned
// with inserted == false.
func (t *OrderedIndex) Insert(id int64, title, author string, available bool) (book *Book, inserted bool) {
	y := sentinel
	x := t.root
	for x != sentinel {
		y = x
		key := t.key(x)
		switch {
		case id < key:
			x = t.left(x)
		case id > key:
			x = t.right(x)
		default:
			return t.nodes[x].book, false
		}
	}

	book = &Book{
		ID:        id,
		Title:     title,
		Author:    author,
		Available: available,
		waitlist:  NewReservationQueue(t.capacity),
	}
	z := t.alloc(book)
	t.setParent(z, y)
	switch {
	case y == sentinel:
		t.root = z
		t.setColor(z, Black)
	case id < t.key(y):
		t.setLeft(y, z)
	default:
		t.setRight(y, z)
	}
	t.insertFixup(z)
	t.size++
	return book, true
}

// Find returns the book with the given id.
func (t *OrderedIndex) Find(id int64) (*Book, bool) {
	n := t.search(id)
	if n == sentinel {
		return nil, false
	}
	return t.nodes[n].book, true
}

// Delete unlinks the book with the given id and returns it, waitlist
// included.
func (t *OrderedIndex) Delete(id int64) (*Book, bool) {
	z := t.search(id)
	if z == sentinel {
		return nil, false
	}
	book := t.nodes[z].book
	t.deleteNode(z)
	t.release(z)
	t.size--
	return book, true
}

// Range returns the books with low <= id <= high in ascending id order.
func (t *OrderedIndex) Range(low, high int64) []*Book {
	books := []*Book{}
	if low > high {
		return books
	}
	t.collectRange(t.root, low, high, &books)
	return books
}

// All returns every book in ascending id order.
func (t *OrderedIndex) All() []*Book {
	books := make([]*Book, 0, t.size)
	t.ForEachAscending(func(b *Book) bool {
		books = append(books, b)
		return true
	})
	return books
}

// Nearest returns the books whose id is closest to target. When two books
// are equally close both are returned, lower id first.
func (t *OrderedIndex) Nearest(target int64) []*Book {
	lo := t.floor(target)
	hi := t.ceiling(target)
	switch {
	case lo == sentinel && hi == sentinel:
		return []*Book{}
	case lo == sentinel:
		return []*Book{t.nodes[hi].book}
	case hi == sentinel, lo == hi:
		return []*Book{t.nodes[lo].book}
	}

	below := distance(target, t.key(lo))
	above := distance(target, t.key(hi))
	switch {
	case below < above:
		return []*Book{t.nodes[lo].book}
	case above < below:
		return []*Book{t.nodes[hi].book}
	default:
		return []*Book{t.nodes[lo].book, t.nodes[hi].book}
	}
}

// ForEachAscending calls fn for each book in id order until fn returns
// false.
func (t *OrderedIndex) ForEachAscending(fn func(*Book) bool) {
	for n := t.minNode(t.root); n != sentinel; n = t.next(n) {
		if !fn(t.nodes[n].book) {
			return
		}
	}
}

// Colors records the colour of every node, keyed by book id, into dst.
// dst is cleared first.
func (t *OrderedIndex) Colors(dst map[int64]Color) {
	clear(dst)
	for n := t.minNode(t.root); n != sentinel; n = t.next(n) {
		dst[t.key(n)] = t.color(n)
	}
}

/******************** Arena ********************/

func (t *OrderedIndex) alloc(b *Book) nodeID {
	n := treeNode{book: b, color: Red, left: sentinel, right: sentinel, parent: sentinel}
	if k := len(t.free); k > 0 {
		id := t.free[k-1]
		t.free = t.free[:k-1]
		t.nodes[id] = n
		return id
	}
	t.nodes = append(t.nodes, n)
	return nodeID(len(t.nodes) - 1)
}

func (t *OrderedIndex) release(id nodeID) {
	t.nodes[id] = treeNode{}
	t.free = append(t.free, id)
}

func (t *OrderedIndex) key(n nodeID) int64     { return t.nodes[n].book.ID }
func (t *OrderedIndex) left(n nodeID) nodeID   { return t.nodes[n].left }
func (t *OrderedIndex) right(n nodeID) nodeID  { return t.nodes[n].right }
func (t *OrderedIndex) parent(n nodeID) nodeID { return t.nodes[n].parent }
func (t *OrderedIndex) color(n nodeID) Color   { return t.nodes[n].color }

func (t *OrderedIndex) setLeft(n, c nodeID)        { t.nodes[n].left = c }
func (t *OrderedIndex) setRight(n, c nodeID)       { t.nodes[n].right = c }
func (t *OrderedIndex) setParent(n, p nodeID)      { t.nodes[n].parent = p }
func (t *OrderedIndex) setColor(n nodeID, c Color) { t.nodes[n].color = c }

/******************** Internal helpers ********************/

func (t *OrderedIndex) search(id int64) nodeID {
	n := t.root
	for n != sentinel {
		key := t.key(n)
		switch {
		case id < key:
			n = t.left(n)
		case id > key:
			n = t.right(n)
		default:
			return n
		}
	}
	return sentinel
}

// floor is the node with the greatest id <= target.
func (t *OrderedIndex) floor(target int64) nodeID {
	best := sentinel
	n := t.root
	for n != sentinel {
		key := t.key(n)
		switch {
		case key == target:
			return n
		case key < target:
			best = n
			n = t.right(n)
		default:
			n = t.left(n)
		}
	}
	return best
}

// ceiling is the node with the smallest id >= target.
func (t *OrderedIndex) ceiling(target int64) nodeID {
	best := sentinel
	n := t.root
	for n != sentinel {
		key := t.key(n)
		switch {
		case key == target:
			return n
		case key > target:
			best = n
			n = t.left(n)
		default:
			n = t.right(n)
		}
	}
	return best
}

func (t *OrderedIndex) minNode(n nodeID) nodeID {
	if n == sentinel {
		return sentinel
	}
	for t.left(n) != sentinel {
		n = t.left(n)
	}
	return n
}

func (t *OrderedIndex) maxNode(n nodeID) nodeID {
	if n == sentinel {
		return sentinel
	}
	for t.right(n) != sentinel {
		n = t.right(n)
	}
	return n
}

func (t *OrderedIndex) next(n nodeID) nodeID {
	if t.right(n) != sentinel {
		return t.minNode(t.right(n))
	}
	p := t.parent(n)
	for p != sentinel && n == t.right(p) {
		n = p
		p = t.parent(p)
	}
	return p
}

func (t *OrderedIndex) collectRange(n nodeID, low, high int64, out *[]*Book) {
	if n == sentinel {
		return
	}
	key := t.key(n)
	if low < key {
		t.collectRange(t.left(n), low, high, out)
	}
	if low <= key && key <= high {
		*out = append(*out, t.nodes[n].book)
	}
	if key < high {
		t.collectRange(t.right(n), low, high, out)
	}
}

// distance is |a - b| without overflow.
func distance(a, b int64) uint64 {
	if a >= b {
		return uint64(a) - uint64(b)
	}
	return uint64(b) - uint64(a)
}
