package scene

import (
	"fmt"
	"strconv"
)

// Field is one key/value pair of a block.
type Field struct {
	Key   string
	Value string
}

// Node is a parsed or recorded block.
type Node struct {
	Name     string
	Fields   []Field
	Children []*Node
}

// Get returns the first value stored under key.
func (n *Node) Get(key string) (string, bool) {
	for _, f := range n.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Float returns the value under key parsed as a float.
func (n *Node) Float(key string) (float64, error) {
	s, ok := n.Get(key)
	if !ok {
		return 0, fmt.Errorf("scene: %s: missing %q", n.Name, key)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("scene: %s.%s: %w", n.Name, key, err)
	}
	return f, nil
}

// Int returns the value under key parsed as an int.
func (n *Node) Int(key string) (int, error) {
	s, ok := n.Get(key)
	if !ok {
		return 0, fmt.Errorf("scene: %s: missing %q", n.Name, key)
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("scene: %s.%s: %w", n.Name, key, err)
	}
	return i, nil
}

// Child returns the first child block called name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns every child block called name, in order.
func (n *Node) ChildrenNamed(name string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Replay replays the node's children and fields into w. The node itself is
// not emitted, so a root from Parse or TreeWriter round-trips.
func (n *Node) Replay(w Writer) {
	for _, f := range n.Fields {
		w.SetString(f.Key, f.Value)
	}
	for _, c := range n.Children {
		w.BeginBlock(c.Name)
		c.Replay(w)
		w.EndBlock()
	}
}

// TreeWriter records a scene as a Node tree.
type TreeWriter struct {
	Root  *Node
	stack []*Node
}

// NewTreeWriter returns a TreeWriter with an unnamed root.
func NewTreeWriter() *TreeWriter {
	root := &Node{}
	return &TreeWriter{Root: root, stack: []*Node{root}}
}

func (t *TreeWriter) top() *Node { return t.stack[len(t.stack)-1] }

// BeginBlock opens a child block of the current block.
func (t *TreeWriter) BeginBlock(name string) {
	n := &Node{Name: name}
	parent := t.top()
	parent.Children = append(parent.Children, n)
	t.stack = append(t.stack, n)
}

// SetString adds a field to the current block.
func (t *TreeWriter) SetString(key, value string) {
	n := t.top()
	n.Fields = append(n.Fields, Field{Key: key, Value: value})
}

// EndBlock closes the current block. Extra calls are ignored.
func (t *TreeWriter) EndBlock() {
	if len(t.stack) > 1 {
		t.stack = t.stack[:len(t.stack)-1]
	}
}
