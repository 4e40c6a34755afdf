package ast

// Slot is a position inside a parent node that holds a child node:
// either a field value directly or an element of a list field.
type Slot struct {
	Parent *Node
	Key    string
	// Index is the list position, or -1 when the field holds the node directly.
	Index int
}

// Node returns the node currently held by the slot, or nil.
func (s Slot) Node() *Node {
	v, ok := s.Parent.Get(s.Key)
	if !ok {
		return nil
	}
	if s.Index < 0 {
		n, _ := v.(*Node)
		return n
	}
	list, _ := v.([]any)
	if s.Index >= len(list) {
		return nil
	}
	n, _ := list[s.Index].(*Node)
	return n
}

// Replace stores n in the slot.
func (s Slot) Replace(n *Node) {
	if s.Index < 0 {
		s.Parent.Set(s.Key, n)
		return
	}
	if list := s.Parent.List(s.Key); s.Index < len(list) {
		list[s.Index] = n
	}
}

// Children returns the slots of n's direct child nodes in natural field order.
// Scalars and nil list elements are skipped.
func (n *Node) Children() []Slot {
	var slots []Slot
	for _, f := range n.fields {
		switch v := f.Value.(type) {
		case *Node:
			if v != nil {
				slots = append(slots, Slot{Parent: n, Key: f.Key, Index: -1})
			}
		case []any:
			for i, e := range v {
				if c, ok := e.(*Node); ok && c != nil {
					slots = append(slots, Slot{Parent: n, Key: f.Key, Index: i})
				}
			}
		}
	}
	return slots
}
