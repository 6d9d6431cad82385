package models

// Kind is the shape class a value falls into. Kinds are checked in
// declaration order and are mutually exclusive.
type Kind int

const (
	SimpleValue Kind = iota // string, number, bool or null
	SimpleList              // list whose elements are all simple values
	SimpleDict              // mapping whose values are simple values or simple lists
	Complex                 // anything else
)

var kindNames = [...]string{
	SimpleValue: "simple_value",
	SimpleList:  "simple_list",
	SimpleDict:  "simple_dict",
	Complex:     "complex",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// ValueType is the concrete type of the value a node was built from.
type ValueType int

const (
	Null ValueType = iota
	Bool
	Int
	Float
	String
	List
	Dict
)

var valueTypeNames = [...]string{
	Null:   "null",
	Bool:   "bool",
	Int:    "int",
	Float:  "float",
	String: "string",
	List:   "list",
	Dict:   "dict",
}

func (t ValueType) String() string {
	if t < 0 || int(t) >= len(valueTypeNames) {
		return "unknown"
	}
	return valueTypeNames[t]
}

// IsScalar reports whether t is one of the simple value types
func (t ValueType) IsScalar() bool {
	return t <= String
}

// TreeNode is a node of the output tree. The root exclusively owns all of
// its descendants.
type TreeNode struct {
	Label     string
	Kind      Kind
	ValueType ValueType
	Children  []*TreeNode
}

// Len returns the number of direct children
func (n *TreeNode) Len() int {
	return len(n.Children)
}

// IsLeaf reports whether the node has no children
func (n *TreeNode) IsLeaf() bool {
	return len(n.Children) == 0
}

// Walk visits n and its descendants in pre-order. depth is 0 for n.
// Returning false from fn skips the children of the visited node.
func (n *TreeNode) Walk(fn func(node *TreeNode, depth int) bool) {
	n.walk(fn, 0)
}

func (n *TreeNode) walk(fn func(node *TreeNode, depth int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, child := range n.Children {
		child.walk(fn, depth+1)
	}
}

// Count returns the number of nodes in the subtree rooted at n
func (n *TreeNode) Count() int {
	count := 0
	n.Walk(func(*TreeNode, int) bool {
		count++
		return true
	})
	return count
}

// Depth returns the number of levels below n; a leaf has depth 0
func (n *TreeNode) Depth() int {
	max := 0
	n.Walk(func(_ *TreeNode, depth int) bool {
		if depth > max {
			max = depth
		}
		return true
	})
	return max
}
