package coyote

import (
	"io"

	"gopkg.in/yaml.v3"
)

// contentNode is one node of a YAML content document. Exactly one of the
// kind fields is set; injections belong to template.
//
//	template: "<form {}>{}</form>"
//	injections:
//	  - list:
//	      - attr_val: {name: action, value: /uwu}
//	      - attr: novalidate
//	  - text: hi
type contentNode struct {
	Text       *string         `yaml:"text"`
	Unescaped  *string         `yaml:"unescaped"`
	Attr       *string         `yaml:"attr"`
	AttrVal    *attrValNode    `yaml:"attr_val"`
	List       *[]*contentNode `yaml:"list"`
	Template   *string         `yaml:"template"`
	Injections []*contentNode  `yaml:"injections"`
}

type attrValNode struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// DecodeContent reads a YAML content document into a component tree.
// An empty document decodes to nil.
func DecodeContent(r io.Reader) (Component, error) {
	var root *contentNode
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, NewDecodeContentError(err)
	}
	return root.component()
}

func (n *contentNode) kinds() []string {
	var kinds []string
	if n.Text != nil {
		kinds = append(kinds, ContentKeyText)
	}
	if n.Unescaped != nil {
		kinds = append(kinds, ContentKeyUnescaped)
	}
	if n.Attr != nil {
		kinds = append(kinds, ContentKeyAttr)
	}
	if n.AttrVal != nil {
		kinds = append(kinds, ContentKeyAttrVal)
	}
	if n.List != nil {
		kinds = append(kinds, ContentKeyList)
	}
	if n.Template != nil {
		kinds = append(kinds, ContentKeyTemplate)
	}
	return kinds
}

func (n *contentNode) component() (Component, error) {
	if n == nil {
		return nil, nil
	}

	kinds := n.kinds()
	switch {
	case len(kinds) == 0 && len(n.Injections) > 0:
		return nil, NewContentNodeError(ErrMsgUnknownContentKind, ContentKeyInjections)
	case len(kinds) == 0:
		return nil, NewContentNodeError(ErrMsgEmptyContentNode, "")
	case len(kinds) > 1:
		return nil, NewContentNodeError(ErrMsgAmbiguousNode, kinds[0]+","+kinds[1])
	}

	switch {
	case n.Text != nil:
		return TextOf(*n.Text), nil
	case n.Unescaped != nil:
		return Unescaped(*n.Unescaped), nil
	case n.Attr != nil:
		return AttrOf(*n.Attr), nil
	case n.AttrVal != nil:
		return AttrValOf(n.AttrVal.Name, n.AttrVal.Value), nil
	case n.List != nil:
		children, err := components(*n.List)
		if err != nil {
			return nil, err
		}
		return ListOf(children...), nil
	default:
		injections, err := components(n.Injections)
		if err != nil {
			return nil, err
		}
		return Tmpl(*n.Template, injections...), nil
	}
}

func components(nodes []*contentNode) ([]Component, error) {
	var out []Component
	for _, node := range nodes {
		c, err := node.component()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
