package kad

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"

	"github.com/beetlebugorg/kirrakad/internal/format"
)

// zipReader adapts archive/zip.Reader to format.ZipContainer.
type zipReader struct {
	r *zip.Reader
}

func openZip(data []byte) (*zipReader, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	return &zipReader{r: r}, nil
}

func (z *zipReader) File(path string) (format.ZipEntry, bool) {
	for _, f := range z.r.File {
		if f.Name == path {
			return &zipFileEntry{f: f}, true
		}
	}
	return nil, false
}

func (z *zipReader) Names() []string {
	names := make([]string, len(z.r.File))
	for i, f := range z.r.File {
		names[i] = f.Name
	}
	return names
}

type zipFileEntry struct {
	f *zip.File
}

func (e *zipFileEntry) Name() string { return e.f.Name }

func (e *zipFileEntry) AsBytes() ([]byte, error) {
	rc, err := e.f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (e *zipFileEntry) AsString() (string, error) {
	b, err := e.AsBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// xmlNode is a generic, namespace-aware XML element tree, built once via a
// custom xml.Unmarshaler and adapted to format.XmlParser/format.XmlElement
// for the SPF parser.
type xmlNode struct {
	name     xml.Name
	attrs    []xml.Attr
	text     string
	children []*xmlNode
}

func (n *xmlNode) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	n.name = start.Name
	n.attrs = start.Attr
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child := &xmlNode{}
			if err := child.UnmarshalXML(d, t); err != nil {
				return err
			}
			n.children = append(n.children, child)
		case xml.CharData:
			n.text += string(t)
		case xml.EndElement:
			return nil
		}
	}
}

func (n *xmlNode) Text() string { return n.text }

func (n *xmlNode) Attr(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func (n *xmlNode) Children(name string) []format.XmlElement {
	var out []format.XmlElement
	for _, c := range n.children {
		if c.name.Local == name {
			out = append(out, c)
		}
	}
	return out
}

func (n *xmlNode) collect(namespace, name string, out *[]format.XmlElement) {
	if n.name.Local == name && (namespace == "" || n.name.Space == namespace) {
		*out = append(*out, n)
	}
	for _, c := range n.children {
		c.collect(namespace, name, out)
	}
}

// xmlDocument roots an xmlNode tree and implements format.XmlParser.
type xmlDocument struct {
	root *xmlNode
}

func parseXMLDocument(data []byte) (*xmlDocument, error) {
	root := &xmlNode{}
	if err := xml.Unmarshal(data, root); err != nil {
		return nil, err
	}
	return &xmlDocument{root: root}, nil
}

func (d *xmlDocument) GetElementsByNamespace(namespace, name string) []format.XmlElement {
	var out []format.XmlElement
	d.root.collect(namespace, name, &out)
	return out
}
