package xml

import (
	"errors"
	"fmt"
	"strings"

	"github.com/0xalexb/unicfg/adapter"
	"github.com/0xalexb/unicfg/storage/file"

	"github.com/beevik/etree"
)

const indentSpaces = 2

// ErrNoRoot is returned when the content has no root element.
var ErrNoRoot = errors.New("no root element")

// Document implements adapter.Adapter for XML files.
type Document struct {
	source string
	store  *file.Store
	doc    *etree.Document
}

var _ adapter.Adapter = (*Document)(nil)

// Load reads and parses the XML file at fpath.
func Load(fpath string, store *file.Store) (*Document, error) {
	data, err := store.Read(fpath)
	if err != nil {
		return nil, err
	}

	return Parse(fpath, data, store)
}

// Parse builds a Document from data. source is used as the default Save target.
func Parse(source string, data []byte, store *file.Store) (*Document, error) {
	doc := etree.NewDocument()

	err := doc.ReadFromBytes(data)
	if err != nil {
		return nil, adapter.ParseError(adapter.FormatXML, source, err)
	}

	if doc.Root() == nil {
		return nil, adapter.ParseError(adapter.FormatXML, source, ErrNoRoot)
	}

	return &Document{
		source: source,
		store:  store,
		doc:    doc,
	}, nil
}

// Format implements adapter.Adapter.
func (d *Document) Format() adapter.Format {
	return adapter.FormatXML
}

// Source implements adapter.Adapter.
func (d *Document) Source() string {
	return d.source
}

// Get implements adapter.Adapter.
func (d *Document) Get(query string) (string, bool) {
	q, err := parseQuery(query)
	if err != nil {
		return "", false
	}

	el := d.find(q.path(len(q.steps)))
	if el == nil {
		return "", false
	}

	if q.attr == "" {
		return el.Text(), true
	}

	attr := el.SelectAttr(q.attr)
	if attr == nil {
		return "", false
	}

	return attr.Value, true
}

// Set implements adapter.Adapter.
func (d *Document) Set(query, value string) bool {
	q, err := parseQuery(query)
	if err != nil {
		return false
	}

	el := d.ensure(q)
	if el == nil {
		return false
	}

	if q.attr != "" {
		el.CreateAttr(q.attr, value)
	} else {
		el.SetText(value)
	}

	return true
}

// GetValue implements adapter.Adapter.
func (d *Document) GetValue(keys ...string) (string, bool) {
	query, ok := keyQuery(keys)
	if !ok {
		return "", false
	}

	return d.Get(query)
}

// SetValue implements adapter.Adapter.
func (d *Document) SetValue(value string, keys ...string) bool {
	query, ok := keyQuery(keys)
	if !ok {
		return false
	}

	return d.Set(query, value)
}

// Encode implements adapter.Adapter. A re-indented copy is written; the
// document itself keeps its whitespace.
func (d *Document) Encode() ([]byte, error) {
	out := d.doc.Copy()
	out.Indent(indentSpaces)

	data, err := out.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("encoding xml: %w", err)
	}

	return data, nil
}

// Save implements adapter.Adapter.
func (d *Document) Save(path string) error {
	data, err := d.Encode()
	if err != nil {
		return err
	}

	return d.store.Write(adapter.Target(path, d.source), data)
}

func (d *Document) find(path string) *etree.Element {
	compiled, err := etree.CompilePath(path)
	if err != nil {
		return nil
	}

	return d.doc.FindElementPath(compiled)
}

// ensure returns the element q selects, creating the missing tail of q under
// the deepest existing prefix. Nothing is created unless the whole tail can be.
func (d *Document) ensure(q query) *etree.Element {
	for n := len(q.steps); n > 0; n-- {
		if q.steps[n-1] == "" {
			continue
		}

		el := d.find(q.path(n))
		if el != nil {
			return build(el, q.steps[n:])
		}
	}

	return nil
}

func build(parent *etree.Element, steps []string) *etree.Element {
	specs := make([]stepSpec, 0, len(steps))

	for _, raw := range steps {
		spec, ok := parseStep(raw)
		if !ok {
			return nil
		}

		specs = append(specs, spec)
	}

	el := parent

	for _, spec := range specs {
		el = el.CreateElement(spec.tag)
		if spec.attr != "" {
			el.CreateAttr(spec.attr, spec.value)
		}
	}

	return el
}

func keyQuery(keys []string) (string, bool) {
	if !adapter.ValidKeys(keys) {
		return "", false
	}

	last := len(keys) - 1

	for i, key := range keys {
		name := key
		if i == last {
			name = strings.TrimPrefix(key, "@")
		}

		if !nameRe.MatchString(name) {
			return "", false
		}
	}

	return "/" + strings.Join(keys, "/"), true
}
