package reader

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeDOCX assembles a minimal OOXML container with the given parts and
// returns its path.
func writeDOCX(t *testing.T, parts map[string]string) string {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range parts {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	path := filepath.Join(t.TempDir(), "sample.docx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

const docxParagraphsXML = `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph.</w:t></w:r></w:p>
    <w:p></w:p>
  </w:body>
</w:document>`

const docxTableXML = `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Intro.</w:t></w:r></w:p>
    <w:tbl>
      <w:tr>
        <w:tc><w:p><w:r><w:t>Name</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>Age</w:t></w:r></w:p></w:tc>
      </w:tr>
      <w:tr>
        <w:tc><w:p><w:r><w:t>Alice</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>30</w:t></w:r></w:p></w:tc>
      </w:tr>
    </w:tbl>
  </w:body>
</w:document>`

const docxCoreXML = `<?xml version="1.0"?>
<cp:coreProperties
  xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
  xmlns:dc="http://purl.org/dc/elements/1.1/">
  <dc:title>Quarterly Report</dc:title>
  <dc:subject>Finance</dc:subject>
  <dc:creator>Jane Doe</dc:creator>
  <cp:keywords>q3,finance</cp:keywords>
</cp:coreProperties>`

// ============================================================
// DOCXReader Tests
// ============================================================

func TestDOCXReader_Read_Paragraphs(t *testing.T) {
	t.Parallel()

	path := writeDOCX(t, map[string]string{"word/document.xml": docxParagraphsXML})

	r := NewDOCXReader(DOCXConfig{})
	doc, err := r.Read(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "First paragraph.\nSecond paragraph.", doc.Content)
	// The empty paragraph still counts; it just emits no block.
	assert.Equal(t, 3, doc.Metadata["paragraphs_count"])
	assert.Equal(t, 0, doc.Metadata["tables_count"])
	assert.Equal(t, "DOCXReader", doc.Metadata["reader_type"])
}

func TestDOCXReader_Read_Table(t *testing.T) {
	t.Parallel()

	path := writeDOCX(t, map[string]string{"word/document.xml": docxTableXML})

	r := NewDOCXReader(DOCXConfig{})
	doc, err := r.Read(context.Background(), path)

	require.NoError(t, err)
	assert.Contains(t, doc.Content, "Intro.")
	assert.Contains(t, doc.Content, "[Table 1]")
	assert.Contains(t, doc.Content, "Name | Age")
	assert.Contains(t, doc.Content, "Alice | 30")
	assert.Equal(t, 1, doc.Metadata["paragraphs_count"])
	assert.Equal(t, 1, doc.Metadata["tables_count"])
}

func TestDOCXReader_Read_ExcludeTables(t *testing.T) {
	t.Parallel()

	path := writeDOCX(t, map[string]string{"word/document.xml": docxTableXML})

	r := NewDOCXReader(DOCXConfig{ExcludeTables: true})
	doc, err := r.Read(context.Background(), path)

	require.NoError(t, err)
	assert.Contains(t, doc.Content, "Intro.")
	assert.NotContains(t, doc.Content, "Alice")
	// The table is still counted even when its text is excluded.
	assert.Equal(t, 1, doc.Metadata["tables_count"])
}

func TestDOCXReader_Read_CoreProperties(t *testing.T) {
	t.Parallel()

	path := writeDOCX(t, map[string]string{
		"word/document.xml": docxParagraphsXML,
		"docProps/core.xml": docxCoreXML,
	})

	r := NewDOCXReader(DOCXConfig{})
	doc, err := r.Read(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "Quarterly Report", doc.Metadata["docx_title"])
	assert.Equal(t, "Jane Doe", doc.Metadata["docx_author"])
	assert.Equal(t, "Finance", doc.Metadata["docx_subject"])
	assert.Equal(t, "q3,finance", doc.Metadata["docx_keywords"])
}

func TestDOCXReader_Read_MissingCoreProperties(t *testing.T) {
	t.Parallel()

	path := writeDOCX(t, map[string]string{"word/document.xml": docxParagraphsXML})

	r := NewDOCXReader(DOCXConfig{})
	doc, err := r.Read(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "", doc.Metadata["docx_title"])
	assert.Equal(t, "", doc.Metadata["docx_author"])
}

func TestDOCXReader_Read_MissingDocumentXML(t *testing.T) {
	t.Parallel()

	path := writeDOCX(t, map[string]string{"other.xml": "<x/>"})

	r := NewDOCXReader(DOCXConfig{})
	_, err := r.Read(context.Background(), path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "word/document.xml")
}

func TestDOCXReader_Read_NotAZip(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "broken.docx", []byte("this is not a zip archive"))

	r := NewDOCXReader(DOCXConfig{})
	_, err := r.Read(context.Background(), path)

	assert.Error(t, err)
}

func TestDOCXReader_Read_EmptyBody(t *testing.T) {
	t.Parallel()

	emptyXML := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body></w:body>
</w:document>`
	path := writeDOCX(t, map[string]string{"word/document.xml": emptyXML})

	r := NewDOCXReader(DOCXConfig{})
	doc, err := r.Read(context.Background(), path)

	require.NoError(t, err)
	assert.True(t, doc.IsEmpty())
	assert.Equal(t, true, doc.Metadata["is_empty"])
}
