// Package content models the structured rich-text trees that test case steps
// carry and implements the recursive search/replace transform over them.
package content

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

var (
	// ErrMalformedContent is returned when content cannot be parsed as a node tree.
	ErrMalformedContent = errors.New("malformed content tree")
)

// TextType is the node type of a text leaf.
const TextType = "text"

// Node is a single node in a structured content tree. A node is either a text
// leaf (type "text" with a text payload) or a container (any other type with a
// list of child nodes). Fields other than type, text and content are preserved
// verbatim across parse/serialize cycles.
type Node struct {
	Type    string
	Text    string
	Content []Node

	// extra holds node fields this engine does not interpret (attrs, marks and
	// whatever else an editor attaches). They round-trip untouched.
	extra map[string]json.RawMessage

	hasText    bool
	hasContent bool
}

// NewText creates a text leaf node.
func NewText(text string) Node {
	return Node{Type: TextType, Text: text, hasText: true}
}

// NewContainer creates a container node with the given children.
func NewContainer(nodeType string, children ...Node) Node {
	return Node{Type: nodeType, Content: children, hasContent: true}
}

// IsText reports whether the node is a text leaf.
func (n Node) IsText() bool {
	return n.Type == TextType
}

// UnmarshalJSON decodes a node, keeping unknown fields aside so they can be
// written back unchanged.
func (n *Node) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return ErrMalformedContent
	}

	*n = Node{}
	for key, raw := range fields {
		switch key {
		case "type":
			if err := json.Unmarshal(raw, &n.Type); err != nil {
				return ErrMalformedContent
			}
		case "text":
			if err := json.Unmarshal(raw, &n.Text); err != nil {
				return ErrMalformedContent
			}
			n.hasText = true
		case "content":
			if err := json.Unmarshal(raw, &n.Content); err != nil {
				return ErrMalformedContent
			}
			n.hasContent = true
		default:
			if n.extra == nil {
				n.extra = make(map[string]json.RawMessage)
			}
			n.extra[key] = raw
		}
	}
	return nil
}

// MarshalJSON encodes the node, restoring the preserved unknown fields.
func (n Node) MarshalJSON() ([]byte, error) {
	fields := make(map[string]json.RawMessage, len(n.extra)+3)
	for key, raw := range n.extra {
		fields[key] = raw
	}

	typeRaw, err := json.Marshal(n.Type)
	if err != nil {
		return nil, err
	}
	fields["type"] = typeRaw

	if n.hasText {
		textRaw, err := json.Marshal(n.Text)
		if err != nil {
			return nil, err
		}
		fields["text"] = textRaw
	}

	if n.hasContent {
		contentRaw, err := json.Marshal(n.Content)
		if err != nil {
			return nil, err
		}
		fields["content"] = contentRaw
	}

	return json.Marshal(fields)
}

// Body is a serialized content tree persisted as a JSON column. It stays raw
// until a transform needs the parsed tree, so a malformed body can be loaded,
// copied into version snapshots and written back without ever being rejected.
type Body []byte

// NewBody serializes a node tree into a Body.
func NewBody(root Node) (Body, error) {
	data, err := json.Marshal(root)
	if err != nil {
		return nil, err
	}
	return Body(data), nil
}

// Parse decodes the body into a node tree.
func (b Body) Parse() (Node, error) {
	var root Node
	if len(b) == 0 {
		return root, ErrMalformedContent
	}
	if err := json.Unmarshal(b, &root); err != nil {
		return Node{}, ErrMalformedContent
	}
	return root, nil
}

// Value implements the driver.Valuer interface for database storage.
func (b Body) Value() (driver.Value, error) {
	if b == nil {
		return nil, nil
	}
	return []byte(b), nil
}

// Scan implements the sql.Scanner interface for database retrieval.
func (b *Body) Scan(value interface{}) error {
	if value == nil {
		*b = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*b = append(Body(nil), v...)
	case string:
		*b = Body(v)
	default:
		return errors.New("failed to scan Body: unsupported source type")
	}
	return nil
}

// MarshalJSON writes the raw body verbatim, or null when empty.
func (b Body) MarshalJSON() ([]byte, error) {
	if len(b) == 0 {
		return []byte("null"), nil
	}
	return []byte(b), nil
}

// UnmarshalJSON stores the raw JSON verbatim.
func (b *Body) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*b = nil
		return nil
	}
	*b = append(Body(nil), data...)
	return nil
}
