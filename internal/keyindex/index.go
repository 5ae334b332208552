package keyindex

import "iter"

// NotFound is returned by queries that have no matching key.
const NotFound = -1

// nilNode marks an absent child or an empty tree.
const nilNode int32 = -1

type node struct {
	key    int
	height int32
	left   int32
	right  int32
}

// Index is an ordered set of non-negative integer keys.
// The zero value is not usable; create one with New.
type Index struct {
	nodes []node
	free  []int32
	root  int32
	size  int
}

// New creates an empty index.
func New() *Index {
	return &Index{
		nodes: make([]node, 0, 16),
		root:  nilNode,
	}
}

// Len returns the number of keys in the index.
func (ix *Index) Len() int {
	return ix.size
}

// Insert adds key to the index. Inserting an existing key is a no-op.
// Negative keys are ignored since they would collide with NotFound.
func (ix *Index) Insert(key int) {
	if key < 0 {
		return
	}
	ix.root = ix.insert(ix.root, key)
}

// Delete removes key from the index. Deleting an absent key is a no-op.
func (ix *Index) Delete(key int) {
	if key < 0 {
		return
	}
	ix.root = ix.delete(ix.root, key)
}

// Contains reports whether key is in the index.
func (ix *Index) Contains(key int) bool {
	n := ix.root
	for n != nilNode {
		cur := &ix.nodes[n]
		switch {
		case key < cur.key:
			n = cur.left
		case key > cur.key:
			n = cur.right
		default:
			return true
		}
	}
	return false
}

// Predecessor returns the largest key strictly less than x, or NotFound.
func (ix *Index) Predecessor(x int) int {
	result := NotFound
	n := ix.root
	for n != nilNode {
		cur := &ix.nodes[n]
		if cur.key < x {
			result = cur.key
			n = cur.right
		} else {
			n = cur.left
		}
	}
	return result
}

// Successor returns the smallest key strictly greater than x, or NotFound.
func (ix *Index) Successor(x int) int {
	result := NotFound
	n := ix.root
	for n != nilNode {
		cur := &ix.nodes[n]
		if cur.key > x {
			result = cur.key
			n = cur.left
		} else {
			n = cur.right
		}
	}
	return result
}

// Min returns the smallest key, or NotFound if the index is empty.
func (ix *Index) Min() int {
	if ix.root == nilNode {
		return NotFound
	}
	return ix.nodes[ix.minNode(ix.root)].key
}

// RangeFrom yields every key >= x in ascending order.
//
// The sequence walks the tree lazily with an explicit stack. The index must
// not be mutated while the sequence is being consumed.
func (ix *Index) RangeFrom(x int) iter.Seq[int] {
	return func(yield func(int) bool) {
		stack := make([]int32, 0, ix.height(ix.root))

		// Descend to the first key >= x, remembering every ancestor whose
		// key is still in range.
		n := ix.root
		for n != nilNode {
			cur := &ix.nodes[n]
			if cur.key >= x {
				stack = append(stack, n)
				n = cur.left
			} else {
				n = cur.right
			}
		}

		for len(stack) > 0 {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(ix.nodes[top].key) {
				return
			}
			for c := ix.nodes[top].right; c != nilNode; c = ix.nodes[c].left {
				stack = append(stack, c)
			}
		}
	}
}

// Keys returns all keys in ascending order.
func (ix *Index) Keys() []int {
	keys := make([]int, 0, ix.size)
	for k := range ix.RangeFrom(0) {
		keys = append(keys, k)
	}
	return keys
}

// Height returns the height of the tree (0 when empty).
func (ix *Index) Height() int {
	return int(ix.height(ix.root))
}

func (ix *Index) height(n int32) int32 {
	if n == nilNode {
		return 0
	}
	return ix.nodes[n].height
}

func (ix *Index) balance(n int32) int32 {
	if n == nilNode {
		return 0
	}
	return ix.height(ix.nodes[n].left) - ix.height(ix.nodes[n].right)
}

func (ix *Index) fixHeight(n int32) {
	l, r := ix.height(ix.nodes[n].left), ix.height(ix.nodes[n].right)
	ix.nodes[n].height = max(l, r) + 1
}

func (ix *Index) alloc(key int) int32 {
	nd := node{key: key, height: 1, left: nilNode, right: nilNode}
	if k := len(ix.free); k > 0 {
		slot := ix.free[k-1]
		ix.free = ix.free[:k-1]
		ix.nodes[slot] = nd
		return slot
	}
	ix.nodes = append(ix.nodes, nd)
	return int32(len(ix.nodes) - 1)
}

func (ix *Index) release(n int32) {
	ix.nodes[n] = node{left: nilNode, right: nilNode}
	ix.free = append(ix.free, n)
}

func (ix *Index) rotateRight(y int32) int32 {
	x := ix.nodes[y].left
	t2 := ix.nodes[x].right

	ix.nodes[x].right = y
	ix.nodes[y].left = t2

	ix.fixHeight(y)
	ix.fixHeight(x)
	return x
}

func (ix *Index) rotateLeft(x int32) int32 {
	y := ix.nodes[x].right
	t2 := ix.nodes[y].left

	ix.nodes[y].left = x
	ix.nodes[x].right = t2

	ix.fixHeight(x)
	ix.fixHeight(y)
	return y
}

// rebalance restores the AVL property at n and returns the subtree root.
func (ix *Index) rebalance(n int32) int32 {
	ix.fixHeight(n)
	b := ix.balance(n)

	if b > 1 {
		if ix.balance(ix.nodes[n].left) < 0 {
			ix.nodes[n].left = ix.rotateLeft(ix.nodes[n].left)
		}
		return ix.rotateRight(n)
	}
	if b < -1 {
		if ix.balance(ix.nodes[n].right) > 0 {
			ix.nodes[n].right = ix.rotateRight(ix.nodes[n].right)
		}
		return ix.rotateLeft(n)
	}
	return n
}

func (ix *Index) insert(n int32, key int) int32 {
	if n == nilNode {
		ix.size++
		return ix.alloc(key)
	}

	switch cur := ix.nodes[n].key; {
	case key < cur:
		child := ix.insert(ix.nodes[n].left, key)
		ix.nodes[n].left = child
	case key > cur:
		child := ix.insert(ix.nodes[n].right, key)
		ix.nodes[n].right = child
	default:
		return n
	}

	return ix.rebalance(n)
}

func (ix *Index) delete(n int32, key int) int32 {
	if n == nilNode {
		return nilNode
	}

	switch cur := ix.nodes[n].key; {
	case key < cur:
		child := ix.delete(ix.nodes[n].left, key)
		ix.nodes[n].left = child
	case key > cur:
		child := ix.delete(ix.nodes[n].right, key)
		ix.nodes[n].right = child
	default:
		left, right := ix.nodes[n].left, ix.nodes[n].right
		if left == nilNode || right == nilNode {
			ix.release(n)
			ix.size--
			if left != nilNode {
				return left
			}
			return right
		}
		// Two children: take the in-order successor's key and remove it
		// from the right subtree instead.
		succ := ix.nodes[ix.minNode(right)].key
		ix.nodes[n].key = succ
		child := ix.delete(right, succ)
		ix.nodes[n].right = child
	}

	return ix.rebalance(n)
}

func (ix *Index) minNode(n int32) int32 {
	for ix.nodes[n].left != nilNode {
		n = ix.nodes[n].left
	}
	return n
}
