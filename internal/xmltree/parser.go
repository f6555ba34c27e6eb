// Package xmltree parses raw invoice bytes into a generic element tree.
// The parser is deliberately tolerant: namespace prefixes are stripped,
// CDATA is plain text, and the prolog-declared encoding is honored with
// UTF-8 as the default. Malformed input always comes back as a typed
// failure, never a panic, so a batch can continue past a broken file.
package xmltree

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/rezonia/nfse-processor/internal/model"
)

// Parse builds the element tree for one file. On failure the returned
// error is a *model.ExtractionError with kind malformed_xml, carrying the
// line number when the underlying decoder provides one.
func Parse(data []byte) (*Node, error) {
	data, err := normalizeEncoding(data)
	if err != nil {
		return nil, model.NewMalformedXMLError("invalid byte sequence", err)
	}

	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charsetReader
	doc.ReadSettings.Permissive = false

	if err := doc.ReadFromBytes(data); err != nil {
		var syn *xml.SyntaxError
		if errors.As(err, &syn) {
			return nil, model.NewMalformedXMLError(fmt.Sprintf("line %d: %s", syn.Line, syn.Msg), err)
		}
		return nil, model.NewMalformedXMLError("failed to parse XML", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, model.NewMalformedXMLError("document has no root element", nil)
	}

	return convert(root), nil
}

// convert maps an etree element onto a Node, keeping only local names and
// dropping whitespace-only character data. CDATA sections arrive as
// regular character data and are kept as text content.
func convert(el *etree.Element) *Node {
	n := &Node{Name: el.Tag}

	if len(el.Attr) > 0 {
		n.Attr = make(map[string]string, len(el.Attr))
		for _, a := range el.Attr {
			n.Attr[a.Key] = a.Value
		}
	}

	var text strings.Builder
	for _, tok := range el.Child {
		switch c := tok.(type) {
		case *etree.CharData:
			text.WriteString(c.Data)
		case *etree.Element:
			n.Children = append(n.Children, convert(c))
		}
	}
	n.Text = strings.TrimSpace(text.String())

	return n
}

// normalizeEncoding strips a leading byte-order mark and transcodes
// UTF-16 payloads so the prolog can be inspected as UTF-8.
func normalizeEncoding(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}):
		return data[3:], nil
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}), bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		return dec.Bytes(data)
	default:
		return data, nil
	}
}

// charsetReader decodes the encodings seen in municipal NFS-e files.
// Unknown labels pass through untouched as a best effort.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf-8", "utf8":
		return input, nil
	case "iso-8859-1", "iso8859-1", "latin1":
		return charmap.ISO8859_1.NewDecoder().Reader(input), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder().Reader(input), nil
	default:
		return input, nil
	}
}
