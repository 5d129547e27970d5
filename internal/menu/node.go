package menu

// Node is an element of the layout tree: a leaf item, a static submenu, or a
// track-list submenu whose children are computed from the player at build time.
type Node struct {
	Label    string
	Item     *Item
	Children []Node
	Tracks   TrackType
}

// Leaf wraps an item as a layout node.
func Leaf(item Item) Node {
	return Node{Label: item.Label, Item: &item}
}

// Submenu groups children under label.
func Submenu(label string, children ...Node) Node {
	return Node{Label: label, Children: children}
}

// TrackList is a submenu listing the player's tracks of one type, one
// selectable leaf per track.
func TrackList(label string, t TrackType) Node {
	return Node{Label: label, Tracks: t}
}

// Sep is a separator node.
func Sep() Node {
	return Leaf(Separator())
}

// IsLeaf reports whether the node holds an item.
func (n Node) IsLeaf() bool {
	return n.Item != nil
}

// IsTrackList reports whether the node's children come from the track table.
func (n Node) IsTrackList() bool {
	return n.Item == nil && n.Tracks != ""
}

// Walk visits every node depth-first, passing the nesting depth.
func Walk(nodes []Node, fn func(n Node, depth int)) {
	walk(nodes, 0, fn)
}

func walk(nodes []Node, depth int, fn func(n Node, depth int)) {
	for _, n := range nodes {
		fn(n, depth)
		if !n.IsLeaf() {
			walk(n.Children, depth+1, fn)
		}
	}
}
