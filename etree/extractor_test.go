package etree_test

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/vsx"
	"github.com/fwojciec/vsx/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeStencil assembles a ZIP container with the given parts and writes it
// to a file named name inside a temporary directory.
func writeStencil(t *testing.T, name string, parts map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for partName, content := range parts {
		pw, err := w.Create(partName)
		require.NoError(t, err)
		_, err = pw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return path
}

const mastersXML = `<?xml version="1.0" encoding="utf-8"?>
<Masters xmlns="http://schemas.microsoft.com/office/visio/2012/main"
         xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <Master ID="1" Name="Router" NameU="Router.1">
    <Rel r:id="rId1"/>
  </Master>
  <Master ID="2" NameU="Switch">
    <Rel r:id="rId2"/>
  </Master>
  <Master ID="3" Name="Cloud">
    <Rel r:id="rId404"/>
  </Master>
</Masters>`

const mastersRelsXML = `<?xml version="1.0" encoding="utf-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.microsoft.com/visio/2010/relationships/master" Target="master1.xml"/>
  <Relationship Id="rId2" Type="http://schemas.microsoft.com/visio/2010/relationships/master" Target="master2.xml"/>
</Relationships>`

const master1XML = `<?xml version="1.0" encoding="utf-8"?>
<MasterContents xmlns="http://schemas.microsoft.com/office/visio/2012/main">
  <Shapes>
    <Shape ID="5" Type="Shape">
      <Cell N="Width" V="1.5"/>
      <Cell N="Height" V="0.75"/>
      <Section N="Geometry" IX="0">
        <Row T="MoveTo" IX="1">
          <Cell N="X" V="0"/>
          <Cell N="Y" V="0"/>
        </Row>
        <Row T="LineTo" IX="2">
          <Cell N="X" V="1.5"/>
          <Cell N="Y" V="0"/>
        </Row>
        <Row T="ArcTo" IX="3">
          <Cell N="X" V="1.5"/>
          <Cell N="Y" V="0.75"/>
          <Cell N="A" V="0.25"/>
        </Row>
        <Row T="RelQuadBezTo" IX="4">
          <Cell N="X" V="1"/>
          <Cell N="Y" V="1"/>
        </Row>
      </Section>
      <Section N="Property">
        <Row N="vendor">
          <Cell N="Value" V="acme"/>
          <Cell N="Type" V="0"/>
        </Row>
        <Row N="ports">
          <Cell N="Value" V="24"/>
          <Cell N="Type" V="2"/>
        </Row>
        <Row N="managed">
          <Cell N="Value" V="1"/>
          <Cell N="Type" V="3"/>
        </Row>
      </Section>
    </Shape>
  </Shapes>
</MasterContents>`

const master2XML = `<?xml version="1.0" encoding="utf-8"?>
<MasterContents xmlns="http://schemas.microsoft.com/office/visio/2012/main">
  <Shapes>
    <Shape ID="6" Type="Shape">
      <Cell N="Width" V="2"/>
      <Cell N="Height" V="1"/>
    </Shape>
  </Shapes>
</MasterContents>`

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts masters with geometry and properties", func(t *testing.T) {
		t.Parallel()

		path := writeStencil(t, "network.vssx", map[string]string{
			"visio/masters/masters.xml":            mastersXML,
			"visio/masters/_rels/masters.xml.rels": mastersRelsXML,
			"visio/masters/master1.xml":            master1XML,
			"visio/masters/master2.xml":            master2XML,
		})

		shapes, err := etree.NewExtractor().Extract(context.Background(), path)
		require.NoError(t, err)
		require.Len(t, shapes, 3)

		router := shapes[0]
		assert.Equal(t, "Router", router.Name)
		assert.Equal(t, path, router.StencilPath)
		require.NotNil(t, router.Width)
		assert.Equal(t, 1.5, *router.Width)
		require.NotNil(t, router.Height)
		assert.Equal(t, 0.75, *router.Height)

		// Unsupported row types are skipped, known ones keep document order.
		require.Len(t, router.Geometry, 3)
		assert.Equal(t, vsx.SegMoveTo, router.Geometry[0].Op)
		assert.Equal(t, vsx.SegLineTo, router.Geometry[1].Op)
		assert.Equal(t, vsx.SegArcTo, router.Geometry[2].Op)
		assert.Equal(t, 0.25, router.Geometry[2].Bow)

		require.Len(t, router.Properties, 3)
		assert.Equal(t, vsx.StringPropertyValue("acme"), router.Properties["vendor"])
		assert.Equal(t, vsx.NumberPropertyValue(24), router.Properties["ports"])
		assert.Equal(t, vsx.BoolPropertyValue(true), router.Properties["managed"])
	})

	t.Run("falls back to NameU", func(t *testing.T) {
		t.Parallel()

		path := writeStencil(t, "network.vssx", map[string]string{
			"visio/masters/masters.xml":            mastersXML,
			"visio/masters/_rels/masters.xml.rels": mastersRelsXML,
			"visio/masters/master2.xml":            master2XML,
		})

		shapes, err := etree.NewExtractor().Extract(context.Background(), path)
		require.NoError(t, err)
		require.Len(t, shapes, 3)
		assert.Equal(t, "Switch", shapes[1].Name)
		assert.Nil(t, shapes[1].Geometry)
	})

	t.Run("unresolvable master part yields a name-only shape", func(t *testing.T) {
		t.Parallel()

		path := writeStencil(t, "network.vssx", map[string]string{
			"visio/masters/masters.xml":            mastersXML,
			"visio/masters/_rels/masters.xml.rels": mastersRelsXML,
		})

		shapes, err := etree.NewExtractor().Extract(context.Background(), path)
		require.NoError(t, err)
		require.Len(t, shapes, 3)
		cloud := shapes[2]
		assert.Equal(t, "Cloud", cloud.Name)
		assert.Nil(t, cloud.Width)
		assert.Nil(t, cloud.Geometry)
		assert.Nil(t, cloud.Properties)
	})

	t.Run("container without a master list has no shapes", func(t *testing.T) {
		t.Parallel()

		path := writeStencil(t, "empty.vssx", map[string]string{
			"[Content_Types].xml": `<?xml version="1.0"?><Types/>`,
		})

		shapes, err := etree.NewExtractor().Extract(context.Background(), path)
		require.NoError(t, err)
		assert.Empty(t, shapes)
	})

	t.Run("returns EUNSUPPORTED for legacy binary formats", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "old.vss")
		require.NoError(t, os.WriteFile(path, []byte("binary gunk"), 0o644))

		_, err := etree.NewExtractor().Extract(context.Background(), path)
		assert.Equal(t, vsx.EUNSUPPORTED, vsx.ErrorCode(err))
	})

	t.Run("returns EUNSUPPORTED for unknown extensions", func(t *testing.T) {
		t.Parallel()

		_, err := etree.NewExtractor().Extract(context.Background(), "/tmp/notes.txt")
		assert.Equal(t, vsx.EUNSUPPORTED, vsx.ErrorCode(err))
	})

	t.Run("returns ECORRUPT when the container cannot be opened", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "broken.vssx")
		require.NoError(t, os.WriteFile(path, []byte("not a zip archive"), 0o644))

		_, err := etree.NewExtractor().Extract(context.Background(), path)
		assert.Equal(t, vsx.ECORRUPT, vsx.ErrorCode(err))
	})

	t.Run("returns ECORRUPT for an unparseable master list", func(t *testing.T) {
		t.Parallel()

		path := writeStencil(t, "bad.vssx", map[string]string{
			"visio/masters/masters.xml": "<Masters><Master",
		})

		_, err := etree.NewExtractor().Extract(context.Background(), path)
		assert.Equal(t, vsx.ECORRUPT, vsx.ErrorCode(err))
	})

	t.Run("honors context cancellation", func(t *testing.T) {
		t.Parallel()

		path := writeStencil(t, "network.vssx", map[string]string{
			"visio/masters/masters.xml": mastersXML,
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := etree.NewExtractor().Extract(ctx, path)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
