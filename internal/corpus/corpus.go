// Package corpus loads and validates the on-disk document corpus that
// staticdex builds an index from: a manifest naming document files, each
// carrying its raw text and field boundaries.
package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/staticdex/staticdex/internal/errors"
	"github.com/staticdex/staticdex/pkg/boundary"
)

// sectionIDPattern matches the §3 SectionId grammar: ASCII alphanumeric
// plus '-' and '_'.
var sectionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// maxDocumentTextBytes bounds a single document's text, guarding against
// pathological inputs inflating the container past usefulness.
const maxDocumentTextBytes = 64 << 20 // 64 MiB

// Manifest names the ordered list of document files making up a corpus.
type Manifest struct {
	Documents []string `json:"documents"`
}

// RawFieldBoundary is a FieldBoundary as it appears in a document JSON
// file, before section ids have been interned to indices.
type RawFieldBoundary struct {
	Start        int    `json:"start"`
	End          int    `json:"end"`
	FieldType    string `json:"fieldType"`
	SectionID    string `json:"sectionId,omitempty"`
	HeadingLevel int    `json:"headingLevel,omitempty"`
}

// RawDocument is a document file's on-disk JSON shape.
type RawDocument struct {
	Slug            string             `json:"slug"`
	Title           string             `json:"title"`
	Excerpt         string             `json:"excerpt"`
	Href            string             `json:"href"`
	Type            string             `json:"type"`
	Category        string             `json:"category"`
	Text            string             `json:"text"`
	FieldBoundaries []RawFieldBoundary `json:"fieldBoundaries"`
}

// Document is a loaded, validated corpus document with a dense doc_id.
type Document struct {
	DocID    int
	Slug     string
	Title    string
	Excerpt  string
	Href     string
	Type     string
	Category string
	Text     string
}

// Corpus is a fully loaded and validated set of documents plus the
// interned section table and field-boundary table spanning all of them.
type Corpus struct {
	Documents []Document
	Sections  []string // interned section ids, addressed by index
	Boundary  *boundary.Table
}

// Load reads manifest.json from dir and every document file it names,
// validating field boundaries across the whole corpus before returning.
func Load(dir string) (*Corpus, error) {
	manifestPath := filepath.Join(dir, "manifest.json")
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, errors.InputError(errors.ErrCodeBadManifest, fmt.Sprintf("cannot read manifest: %v", err), "", -1, err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, errors.InputError(errors.ErrCodeBadManifest, fmt.Sprintf("cannot parse manifest: %v", err), "", -1, err)
	}

	c := &Corpus{}
	sectionIdx := map[string]int{}
	var allBoundaries []boundary.FieldBoundary
	textLens := map[int]int{}

	for docID, name := range manifest.Documents {
		docPath := filepath.Join(dir, name)
		raw, err := loadDocument(docPath)
		if err != nil {
			return nil, err
		}

		if len(raw.Text) > maxDocumentTextBytes {
			return nil, errors.InputError(errors.ErrCodeDocumentTextTooLarge, "document text exceeds maximum size", name, len(raw.Text), nil)
		}

		c.Documents = append(c.Documents, Document{
			DocID:    docID,
			Slug:     raw.Slug,
			Title:    raw.Title,
			Excerpt:  raw.Excerpt,
			Href:     raw.Href,
			Type:     raw.Type,
			Category: raw.Category,
			Text:     raw.Text,
		})
		textLens[docID] = len(raw.Text)

		for _, rb := range raw.FieldBoundaries {
			sectionIdx2 := -1
			if rb.SectionID != "" {
				if !sectionIDPattern.MatchString(rb.SectionID) {
					return nil, errors.InputError(errors.ErrCodeInvalidSectionID, "section id contains invalid characters", name, rb.Start, nil)
				}
				idx, ok := sectionIdx[rb.SectionID]
				if !ok {
					idx = len(c.Sections)
					c.Sections = append(c.Sections, rb.SectionID)
					sectionIdx[rb.SectionID] = idx
				}
				sectionIdx2 = idx
			}

			allBoundaries = append(allBoundaries, boundary.FieldBoundary{
				DocID:        docID,
				Start:        rb.Start,
				End:          rb.End,
				FieldType:    fieldTypeFromString(rb.FieldType),
				HeadingLevel: rb.HeadingLevel,
				SectionIdx:   sectionIdx2,
			})
		}
	}

	if err := boundary.Validate(allBoundaries, textLens); err != nil {
		return nil, err
	}

	c.Boundary = boundary.NewTable(allBoundaries)
	return c, nil
}

func loadDocument(path string) (*RawDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.InputError(errors.ErrCodeBadManifest, fmt.Sprintf("cannot read document: %v", err), path, -1, err)
	}
	var raw RawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.InputError(errors.ErrCodeBadManifest, fmt.Sprintf("cannot parse document: %v", err), path, -1, err)
	}
	return &raw, nil
}

func fieldTypeFromString(s string) boundary.FieldType {
	switch s {
	case "title":
		return boundary.FieldTitle
	case "heading":
		return boundary.FieldHeading
	default:
		return boundary.FieldContent
	}
}
