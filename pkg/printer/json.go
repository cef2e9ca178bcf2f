package printer

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"github.com/joshuapare/boxkit/pkg/types"
)

// jsonNode represents a node in JSON format.
type jsonNode struct {
	Type         string       `json:"type"`
	Name         string       `json:"name"`
	Offset       int64        `json:"offset"`
	Size         int64        `json:"size"`
	HeaderLen    int          `json:"header_len"`
	DeclaredSize *int64       `json:"declared_size,omitempty"`
	Level        *int         `json:"level,omitempty"`
	Version      *uint8       `json:"version,omitempty"`
	Flags        *uint32      `json:"flags,omitempty"`
	Truncated    bool         `json:"truncated,omitempty"`
	Error        string       `json:"error,omitempty"`
	Value        *types.Value `json:"value,omitempty"`
	Children     []jsonNode   `json:"children,omitempty"`
}

// jsonDump is one node with its leading bytes.
type jsonDump struct {
	jsonNode
	Path   string `json:"path"`
	Hex    string `json:"hex"`
	Shown  int    `json:"bytes_shown"`
	Capped bool   `json:"capped"`
	Groups int    `json:"sample_groups,omitempty"`
}

func (p *Printer) toJSON(n *types.Node, depth int, recurse bool) jsonNode {
	off, size := n.ByteRange()
	out := jsonNode{
		Type:      n.TypeString(),
		Name:      n.Name,
		Offset:    off,
		Size:      size,
		HeaderLen: n.HeaderLen,
		Truncated: n.Truncated,
	}
	if n.Bounded() && n.DeclaredSize != n.Consumed {
		d := n.DeclaredSize
		out.DeclaredSize = &d
	}
	if n.Family == types.FamilyEBML {
		l := n.Level
		out.Level = &l
	}
	if n.FullBox {
		v, f := n.Version, n.Flags
		out.Version, out.Flags = &v, &f
	}
	if n.Err != nil {
		out.Error = n.Err.Error()
	}
	if p.opts.ShowValues && !n.Value.IsEmpty() {
		v := n.Value
		out.Value = &v
	}
	if !recurse || (p.opts.MaxDepth > 0 && depth+1 >= p.opts.MaxDepth) {
		return out
	}
	for _, c := range n.Children() {
		out.Children = append(out.Children, p.toJSON(c, depth+1, true))
	}
	return out
}

func (p *Printer) printTreeJSON(nodes []*types.Node) error {
	out := make([]jsonNode, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, p.toJSON(n, 0, true))
	}
	return writeJSON(p.writer, out)
}

func (p *Printer) printNodeJSON(n *types.Node, data []byte, capped bool) error {
	return writeJSON(p.writer, jsonDump{
		jsonNode: p.toJSON(n, 0, false),
		Path:     n.Path(),
		Hex:      hex.EncodeToString(data),
		Shown:    len(data),
		Capped:   capped,
		Groups:   len(p.file.SampleIndexFor(n)),
	})
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
