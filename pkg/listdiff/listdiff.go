// Package listdiff computes and applies bounded minimal-edit updates to a
// live window of sibling nodes.
//
// Reconcile mutates the window in place so that, afterwards, the ordered
// run of children between the window's start and the anchor equals the
// target sequence exactly. Nodes are compared by identity. The edit
// script is minimal up to a size bound: beyond maxSize the algorithm
// degrades to a full replace instead of paying unbounded edit-distance
// cost.
package listdiff

import "github.com/relit-dev/relit/pkg/dom"

// DefaultMaxSize is the edit-distance bound used when callers pass a
// non-positive maxSize.
const DefaultMaxSize = 1024

// Reconcile updates parent's children so the live window matches target.
// All live nodes sit immediately before the anchor node (nil anchor means
// end of parent). The returned slice is the new live window.
func Reconcile(parent *dom.Node, live, target []*dom.Node, anchor *dom.Node, maxSize int) []*dom.Node {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	// Trim the common prefix and suffix; the interesting edits almost
	// always live in the middle.
	start := 0
	for start < len(live) && start < len(target) && live[start] == target[start] {
		start++
	}
	endLive, endTarget := len(live), len(target)
	for endLive > start && endTarget > start && live[endLive-1] == target[endTarget-1] {
		endLive--
		endTarget--
	}

	oldMid := live[start:endLive]
	newMid := target[start:endTarget]

	// ref is the node the middle must end before.
	ref := anchor
	if endLive < len(live) {
		ref = live[endLive]
	}

	switch {
	case len(oldMid) == 0:
		for _, n := range newMid {
			parent.InsertBefore(n, ref)
		}
	case len(newMid) == 0:
		for _, n := range oldMid {
			parent.RemoveChild(n)
		}
	case len(oldMid) > maxSize || len(newMid) > maxSize:
		// Complexity cap: full replace of the middle.
		for _, n := range oldMid {
			parent.RemoveChild(n)
		}
		for _, n := range newMid {
			parent.InsertBefore(n, ref)
		}
	default:
		applyEdits(parent, oldMid, newMid, ref)
	}

	out := make([]*dom.Node, 0, len(target))
	out = append(out, target...)
	return out
}

// applyEdits computes the longest common subsequence of the two middles
// and touches only the nodes outside it: dropped nodes are removed,
// inserted or moved nodes are (re)placed relative to the kept ones.
func applyEdits(parent *dom.Node, old, new []*dom.Node, ref *dom.Node) {
	keptOld, keptNew := lcs(old, new)

	inNew := make(map[*dom.Node]bool, len(new))
	for _, n := range new {
		inNew[n] = true
	}
	// Remove nodes that are gone entirely. Nodes that survive but moved
	// are relocated below by InsertBefore, which detaches first.
	for i, n := range old {
		if !keptOld[i] && !inNew[n] {
			parent.RemoveChild(n)
		}
	}
	// Walk the target from the end: kept nodes already sit in the right
	// relative order, everything else is inserted before the running
	// reference.
	for j := len(new) - 1; j >= 0; j-- {
		n := new[j]
		if !keptNew[j] {
			parent.InsertBefore(n, ref)
		}
		ref = n
	}
}

// lcs marks, for both sequences, the members of one longest common
// subsequence under pointer identity. Quadratic, which is why Reconcile
// bounds the middle size before calling it.
func lcs(a, b []*dom.Node) (keptA, keptB []bool) {
	n, m := len(a), len(b)
	table := make([][]int, n+1)
	for i := range table {
		table[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				table[i][j] = table[i+1][j+1] + 1
			} else if table[i+1][j] >= table[i][j+1] {
				table[i][j] = table[i+1][j]
			} else {
				table[i][j] = table[i][j+1]
			}
		}
	}
	keptA = make([]bool, n)
	keptB = make([]bool, m)
	for i, j := 0, 0; i < n && j < m; {
		switch {
		case a[i] == b[j]:
			keptA[i] = true
			keptB[j] = true
			i++
			j++
		case table[i+1][j] >= table[i][j+1]:
			i++
		default:
			j++
		}
	}
	return keptA, keptB
}
