package types

import (
	"fmt"
	"strings"
)

// Family identifies the container family a node belongs to.
type Family uint8

const (
	FamilyUnknown Family = iota
	FamilyMP4            // ISO base media (MP4, MOV, 3GP, fMP4)
	FamilyEBML           // Matroska, WebM
)

func (f Family) String() string {
	switch f {
	case FamilyMP4:
		return "mp4"
	case FamilyEBML:
		return "ebml"
	default:
		return "unknown"
	}
}

// Kind is the semantic kind the type registry assigns to a tag.
type Kind uint8

const (
	KindUnknown    Kind = iota // not in the registry; opaque leaf
	KindContainer              // MP4 container box or EBML master element
	KindUint                   // unsigned big-endian integer, 0-8 bytes
	KindInt                    // signed big-endian integer, 0-8 bytes
	KindFloat                  // IEEE-754, 0/4/8 bytes
	KindString                 // printable ASCII
	KindUTF8                   // UTF-8 text
	KindDate                   // EBML date (ns since 2001-01-01)
	KindBinary                 // opaque bytes with a hex preview
	KindStructured             // decoded by a kind-specific record decoder
)

var kindNames = [...]string{
	KindUnknown:    "unknown",
	KindContainer:  "container",
	KindUint:       "uint",
	KindInt:        "int",
	KindFloat:      "float",
	KindString:     "string",
	KindUTF8:       "utf-8",
	KindDate:       "date",
	KindBinary:     "binary",
	KindStructured: "structured",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Node is one box (MP4) or element (EBML).
//
// Offset is the absolute position of the header. DeclaredSize is the
// payload length announced by the header, or one of SizeUnknown/SizeToEOF.
// Consumed is the number of payload bytes the node actually accounts for;
// it equals DeclaredSize for intact bounded nodes and is smaller when
// recovery closed the node early (Truncated is then set).
type Node struct {
	Family       Family
	Tag          uint32 // fourcc for MP4, raw ID with marker bits for EBML
	Name         string
	Kind         Kind
	Offset       int64
	HeaderLen    int
	DeclaredSize int64
	Consumed     int64
	Level        int // registry level (EBML) or nesting depth (MP4)

	// Full-box header fields; only meaningful when FullBox is set.
	FullBox bool
	Version uint8
	Flags   uint32

	// ExtendedType holds the 16-byte user type of an MP4 'uuid' box.
	ExtendedType []byte

	Value Value

	// Truncated is set when recovery closed the node before its declared end.
	Truncated bool

	// Err records a node-local decode failure (value left empty).
	Err error

	parent   *Node
	children []*Node
}

// Parent returns the enclosing node, or nil at the top level.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the ordered child nodes. The slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// AddChild appends c and points its parent link back at n.
func (n *Node) AddChild(c *Node) {
	c.parent = n
	n.children = append(n.children, c)
}

// DecodedValue returns the node's decoded value.
func (n *Node) DecodedValue() Value { return n.Value }

// PayloadOffset is the absolute offset of the first payload byte.
func (n *Node) PayloadOffset() int64 { return n.Offset + int64(n.HeaderLen) }

// End is the absolute offset just past the bytes the node accounts for.
func (n *Node) End() int64 { return n.PayloadOffset() + n.Consumed }

// DeclaredEnd is the end implied by the header, or -1 for the unbounded
// sentinels.
func (n *Node) DeclaredEnd() int64 {
	if n.DeclaredSize < 0 {
		return -1
	}
	return n.PayloadOffset() + n.DeclaredSize
}

// ByteRange returns (offset, length) of the whole node including its header.
func (n *Node) ByteRange() (int64, int64) {
	return n.Offset, int64(n.HeaderLen) + n.Consumed
}

// Bounded reports whether the header carried an explicit size.
func (n *Node) Bounded() bool { return n.DeclaredSize >= 0 }

// IsContainer reports whether the node can carry children.
func (n *Node) IsContainer() bool { return n.Kind == KindContainer || len(n.children) > 0 }

// TypeString renders the tag: a fourcc for MP4 or a hex ID for EBML.
func (n *Node) TypeString() string {
	if n.Family == FamilyEBML {
		return fmt.Sprintf("0x%X", n.Tag)
	}
	return FourCC(n.Tag)
}

// Child returns the first direct child with the given tag.
func (n *Node) Child(tag uint32) *Node {
	for _, c := range n.children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// ChildrenOf returns every direct child with the given tag.
func (n *Node) ChildrenOf(tag uint32) []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// Descend follows a chain of tags through first-match children.
func (n *Node) Descend(tags ...uint32) *Node {
	cur := n
	for _, t := range tags {
		if cur = cur.Child(t); cur == nil {
			return nil
		}
	}
	return cur
}

// Path returns the slash-joined names from the top level down to n.
func (n *Node) Path() string {
	var parts []string
	for cur := n; cur != nil; cur = cur.parent {
		parts = append(parts, cur.Name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}

// Walk visits n and its descendants depth-first. Returning false from fn
// skips the children of that node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// FourCC renders a 32-bit box type. A leading 0xA9 byte is shown as the
// copyright sign, as QuickTime metadata keys use it.
func FourCC(tag uint32) string {
	b := []byte{byte(tag >> 24), byte(tag >> 16), byte(tag >> 8), byte(tag)}
	var sb strings.Builder
	for i, c := range b {
		switch {
		case i == 0 && c == 0xA9:
			sb.WriteRune('©')
		case c >= 0x20 && c < 0x7F:
			sb.WriteByte(c)
		default:
			fmt.Fprintf(&sb, "\\x%02x", c)
		}
	}
	return sb.String()
}

// Tag4 packs a four-character code into its numeric tag.
func Tag4(s string) uint32 {
	var b [4]byte
	copy(b[:], s)
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
