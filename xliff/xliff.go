// Package xliff implements reading and writing of XLIFF 1.2 translation
// documents as produced by Xcode localization exports.
//
// A document contains one or more <file> elements (one per .strings table),
// each holding <trans-unit> elements with a source text, an optional target
// translation, and an optional translator note. Units with an empty source
// are parsed but excluded from translation accessors; they are still written
// back on Marshal.
package xliff

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
)

// ---------------------------------------------------------------------------
// Data model
// ---------------------------------------------------------------------------

// TransUnit is a single translatable entry.
type TransUnit struct {
	// ID is the unit identifier (attribute id="…"), unique within a document.
	ID string `xml:"id,attr"`
	// Source is the original text.
	Source string `xml:"source"`
	// Target is the translated text. Empty means untranslated.
	Target string `xml:"target,omitempty"`
	// Note is an optional translator comment.
	Note string `xml:"note,omitempty"`
}

// IsTranslated reports whether the unit already carries a translation.
func (u *TransUnit) IsTranslated() bool { return u.Target != "" }

// Body wraps the trans-unit list of one <file> element.
type Body struct {
	Units []*TransUnit `xml:"trans-unit"`
}

// Header carries the <header> element verbatim (tool metadata etc.).
type Header struct {
	Raw string `xml:",innerxml"`
}

// File is one <file> element of an XLIFF document.
type File struct {
	Original       string  `xml:"original,attr,omitempty"`
	SourceLanguage string  `xml:"source-language,attr"`
	TargetLanguage string  `xml:"target-language,attr,omitempty"`
	Datatype       string  `xml:"datatype,attr,omitempty"`
	Header         *Header `xml:"header,omitempty"`
	Body           Body    `xml:"body"`
}

// Document is a parsed XLIFF document.
type Document struct {
	XMLName xml.Name `xml:"xliff"`
	Version string   `xml:"version,attr,omitempty"`
	Xmlns   string   `xml:"xmlns,attr,omitempty"`
	Files   []*File  `xml:"file"`

	// byID maps unit id to the unit for fast lookup.
	byID map[string]*TransUnit
}

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// ParseFile reads and parses an XLIFF file.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

// Parse parses XLIFF data and validates the pieces translation depends on:
// at least one <file> element with a source-language attribute.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid XLIFF: %w", err)
	}
	if len(doc.Files) == 0 {
		return nil, fmt.Errorf("invalid XLIFF: no <file> element")
	}
	if doc.Files[0].SourceLanguage == "" {
		return nil, fmt.Errorf("invalid XLIFF: missing source-language attribute")
	}

	doc.byID = make(map[string]*TransUnit)
	for _, f := range doc.Files {
		for _, u := range f.Body.Units {
			doc.byID[u.ID] = u
		}
	}
	return &doc, nil
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

// SourceLanguage returns the document's source language code.
func (d *Document) SourceLanguage() string {
	return d.Files[0].SourceLanguage
}

// AllUnits returns every trans-unit with a non-empty source, in document
// order across all <file> elements.
func (d *Document) AllUnits() []*TransUnit {
	var units []*TransUnit
	for _, f := range d.Files {
		for _, u := range f.Body.Units {
			if u.Source == "" {
				continue
			}
			units = append(units, u)
		}
	}
	return units
}

// SetTarget sets the translation for the unit with the given id.
// It reports whether the unit exists.
func (d *Document) SetTarget(id, text string) bool {
	u, ok := d.byID[id]
	if !ok {
		return false
	}
	u.Target = text
	return true
}

// SetTargetLanguage sets the target-language attribute on every <file>.
func (d *Document) SetTargetLanguage(lang string) {
	for _, f := range d.Files {
		f.TargetLanguage = lang
	}
}

// ---------------------------------------------------------------------------
// Serialization
// ---------------------------------------------------------------------------

// Marshal serializes the document back to XML, preserving file and unit
// order. Only injected targets and the target-language attribute differ
// from the parsed input.
func (d *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("serializing XLIFF: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
