package main

import (
	"iter"

	"github.com/danswartzendruber/avl"
)

//
// A set of wrapper routines to the AVL package.  We do this to
// hide the AVL interface from the interpreter code.  The program
// store is sparse: only line numbers that hold a statement have a
// node in the tree
//

func cmpLineKey(key any, node any) int {

	return cmpLineItems(key.(int), node.(*stmtNode).lineNo)
}

func cmpLineSnode(node1, node2 any) int {

	return cmpLineItems(node1.(*stmtNode).lineNo, node2.(*stmtNode).lineNo)
}

func cmpLineItems(item1, item2 int) int {

	if item1 < item2 {
		return -1
	} else if item1 > item2 {
		return 1
	} else {
		return 0
	}
}

func validLineNo(n int) bool {

	return n >= 0 && n < maxLineNo
}

func (ps *programStore) lookup(n int) *stmtNode {

	p := avl.AvlTreeLookup(ps.root, n, cmpLineKey)
	if p != nil {
		return p.(*stmtNode)
	} else {
		return nil
	}
}

func (ps *programStore) first() *stmtNode {

	p := avl.AvlTreeFirstInOrder(ps.root)
	if p != nil {
		return p.(*stmtNode)
	} else {
		return nil
	}
}

func (ps *programStore) next(stmt *stmtNode) *stmtNode {

	p := avl.AvlTreeNextInOrder(&stmt.avl)
	if p != nil {
		return p.(*stmtNode)
	} else {
		return nil
	}
}

//
// Insert or replace the statement at line n.  Replacing keeps the
// existing node in the tree and just swaps the text
//

func (ps *programStore) insert(n int, text string) {

	basicAssert(validLineNo(n), "line number out of range")
	basicAssert(text != "", "empty statement text")

	if stmt := ps.lookup(n); stmt != nil {
		stmt.text = text
		return
	}

	stmt := &stmtNode{lineNo: n, text: text}

	p := avl.AvlTreeInsert(&ps.root, &stmt.avl, stmt, cmpLineSnode)
	basicAssert(p == nil, "line already in tree???")

	ps.count++
}

func (ps *programStore) clear(n int) {

	stmt := ps.lookup(n)
	if stmt == nil {
		return
	}

	avl.AvlTreeRemove(&ps.root, &stmt.avl)

	ps.count--
}

func (ps *programStore) get(n int) (string, bool) {

	if stmt := ps.lookup(n); stmt != nil {
		return stmt.text, true
	}

	return "", false
}

//
// Dropping the root is enough; the nodes are garbage once nothing
// points at them
//

func (ps *programStore) clearAll() {

	ps.root = nil
	ps.count = 0
}

func (ps *programStore) len() int {

	return ps.count
}

//
// Walk the stored lines in ascending order.  Each call to the
// returned function starts a fresh walk from the lowest line
//

func (ps *programStore) all() iter.Seq2[int, string] {

	return func(yield func(int, string) bool) {
		for stmt := ps.first(); stmt != nil; stmt = ps.next(stmt) {
			if !yield(stmt.lineNo, stmt.text) {
				return
			}
		}
	}
}
