// Package etree implements shape extraction from XML-based Visio stencil
// containers using the etree XML library.
package etree

import (
	"archive/zip"
	"context"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/vsx"
)

// Ensure Extractor implements vsx.Extractor.
var _ vsx.Extractor = (*Extractor)(nil)

// Container paths inside a stencil archive, per the OPC part layout.
const (
	mastersPart = "visio/masters/masters.xml"
	mastersRels = "visio/masters/_rels/masters.xml.rels"
	mastersDir  = "visio/masters"
)

var (
	legacyExts = map[string]bool{".vss": true, ".vst": true, ".vsd": true}
	modernExts = map[string]bool{".vssx": true, ".vssm": true, ".vstx": true, ".vsdx": true}
)

// Extractor reads master shape definitions out of a stencil file. Modern
// stencils are ZIP containers of XML parts; legacy binary formats are
// reported as EUNSUPPORTED.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns one shape per master found in the stencil at filePath.
// A master whose part cannot be parsed still yields a shape with geometry
// absent; only a container-level failure aborts extraction.
func (e *Extractor) Extract(ctx context.Context, filePath string) ([]*vsx.Shape, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	if legacyExts[ext] {
		return nil, vsx.Errorf(vsx.EUNSUPPORTED, "legacy binary stencil format %q is not parseable", ext)
	}
	if !modernExts[ext] {
		return nil, vsx.Errorf(vsx.EUNSUPPORTED, "unrecognized stencil extension %q", ext)
	}

	r, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, vsx.Errorf(vsx.ECORRUPT, "failed to open stencil container: %v", err)
	}
	defer r.Close()

	parts := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		parts[f.Name] = f
	}

	// A stencil without a master list has no shapes.
	listFile, ok := parts[mastersPart]
	if !ok {
		return []*vsx.Shape{}, nil
	}

	list, err := readPart(listFile)
	if err != nil {
		return nil, vsx.Errorf(vsx.ECORRUPT, "failed to parse master list: %v", err)
	}
	root := list.Root()
	if root == nil {
		return nil, vsx.Errorf(vsx.ECORRUPT, "master list has no document root")
	}

	rels := readRelationships(parts)

	var shapes []*vsx.Shape
	for _, master := range root.SelectElements("Master") {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := master.SelectAttrValue("Name", "")
		if name == "" {
			name = master.SelectAttrValue("NameU", "")
		}
		if name == "" {
			continue
		}

		shape := &vsx.Shape{StencilPath: filePath, Name: strings.TrimSpace(name)}
		if part := masterPartFile(master, rels, parts); part != nil {
			if doc, err := readPart(part); err == nil {
				fillFromMasterPart(shape, doc)
			}
		}
		shapes = append(shapes, shape)
	}

	return shapes, nil
}

// readPart parses one XML part out of the archive.
func readPart(f *zip.File) (*etree.Document, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(rc); err != nil {
		return nil, err
	}
	return doc, nil
}

// readRelationships maps relationship ids to part targets. A missing or
// unparseable rels part yields an empty map; masters still get name-only
// shapes in that case.
func readRelationships(parts map[string]*zip.File) map[string]string {
	rels := make(map[string]string)

	f, ok := parts[mastersRels]
	if !ok {
		return rels
	}
	doc, err := readPart(f)
	if err != nil {
		return rels
	}
	root := doc.Root()
	if root == nil {
		return rels
	}

	for _, rel := range root.SelectElements("Relationship") {
		id := rel.SelectAttrValue("Id", "")
		target := rel.SelectAttrValue("Target", "")
		if id != "" && target != "" {
			rels[id] = target
		}
	}
	return rels
}

// masterPartFile resolves a master's Rel reference to its XML part.
func masterPartFile(master *etree.Element, rels map[string]string, parts map[string]*zip.File) *zip.File {
	rel := master.SelectElement("Rel")
	if rel == nil {
		return nil
	}
	target, ok := rels[rel.SelectAttrValue("r:id", "")]
	if !ok {
		return nil
	}
	return parts[path.Join(mastersDir, target)]
}

// fillFromMasterPart extracts dimensions, geometry and properties from the
// first shape element of a master part.
func fillFromMasterPart(shape *vsx.Shape, doc *etree.Document) {
	root := doc.Root()
	if root == nil {
		return
	}
	shapesEl := root.SelectElement("Shapes")
	if shapesEl == nil {
		return
	}
	el := shapesEl.SelectElement("Shape")
	if el == nil {
		return
	}

	shape.Width = cellFloat(el, "Width")
	shape.Height = cellFloat(el, "Height")
	shape.Geometry = parseGeometry(el)
	shape.Properties = parseProperties(el)
}

// cellFloat returns the named cell's value, or nil when absent or
// non-numeric.
func cellFloat(el *etree.Element, name string) *float64 {
	for _, cell := range el.SelectElements("Cell") {
		if cell.SelectAttrValue("N", "") != name {
			continue
		}
		v, err := strconv.ParseFloat(cell.SelectAttrValue("V", ""), 64)
		if err != nil {
			return nil
		}
		return &v
	}
	return nil
}

// parseGeometry accumulates geometry rows in document order. Row types other
// than MoveTo, LineTo and ArcTo are skipped.
func parseGeometry(el *etree.Element) []vsx.Segment {
	var segments []vsx.Segment
	for _, section := range el.SelectElements("Section") {
		if section.SelectAttrValue("N", "") != "Geometry" {
			continue
		}
		for _, row := range section.SelectElements("Row") {
			var op string
			switch row.SelectAttrValue("T", "") {
			case "MoveTo":
				op = vsx.SegMoveTo
			case "LineTo":
				op = vsx.SegLineTo
			case "ArcTo":
				op = vsx.SegArcTo
			default:
				continue
			}

			seg := vsx.Segment{Op: op}
			for _, cell := range row.SelectElements("Cell") {
				v, err := strconv.ParseFloat(cell.SelectAttrValue("V", ""), 64)
				if err != nil {
					continue
				}
				switch cell.SelectAttrValue("N", "") {
				case "X":
					seg.X = v
				case "Y":
					seg.Y = v
				case "A":
					seg.Bow = v
				}
			}
			segments = append(segments, seg)
		}
	}
	return segments
}

// parseProperties reads custom property rows. The row's Type cell selects
// the value kind; a value that fails to parse for its declared kind falls
// back to a string.
func parseProperties(el *etree.Element) vsx.Properties {
	props := vsx.Properties{}
	for _, section := range el.SelectElements("Section") {
		if section.SelectAttrValue("N", "") != "Property" {
			continue
		}
		for _, row := range section.SelectElements("Row") {
			key := row.SelectAttrValue("N", "")
			if key == "" {
				continue
			}

			var value, kind string
			for _, cell := range row.SelectElements("Cell") {
				switch cell.SelectAttrValue("N", "") {
				case "Value":
					value = cell.SelectAttrValue("V", "")
				case "Type":
					kind = cell.SelectAttrValue("V", "")
				}
			}

			switch kind {
			case "2":
				if n, err := strconv.ParseFloat(value, 64); err == nil {
					props[key] = vsx.NumberPropertyValue(n)
					continue
				}
				props[key] = vsx.StringPropertyValue(value)
			case "3":
				props[key] = vsx.BoolPropertyValue(value == "1" || strings.EqualFold(value, "true"))
			default:
				props[key] = vsx.StringPropertyValue(value)
			}
		}
	}
	if len(props) == 0 {
		return nil
	}
	return props
}
