package extract

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parafile/parafile/internal/common"
)

// writeTestDOCX writes a minimal valid DOCX file to dir and returns its path.
func writeTestDOCX(t *testing.T, dir, name, documentXML string) string {
	t.Helper()

	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	contentTypes, err := w.Create("[Content_Types].xml")
	require.NoError(t, err)
	_, err = contentTypes.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="xml" ContentType="application/xml"/>
</Types>`))
	require.NoError(t, err)

	if documentXML != "" {
		doc, err := w.Create("word/document.xml")
		require.NoError(t, err)
		_, err = doc.Write([]byte(documentXML))
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func TestDOCXExtract(t *testing.T) {
	docXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Invoice from Acme Corp</w:t></w:r></w:p>
<w:p><w:r><w:t>Total due: </w:t></w:r><w:r><w:t>$1,204.00</w:t></w:r></w:p>
</w:body>
</w:document>`
	path := writeTestDOCX(t, t.TempDir(), "invoice.docx", docXML)

	got, err := DOCXExtractor{}.Extract(path)
	require.NoError(t, err)
	assert.Equal(t, "Invoice from Acme Corp\nTotal due: $1,204.00", got.Text)
	assert.Zero(t, got.PageCount)
}

func TestDOCXExtractMissingDocumentXML(t *testing.T) {
	path := writeTestDOCX(t, t.TempDir(), "empty.docx", "")

	_, err := DOCXExtractor{}.Extract(path)
	require.ErrorIs(t, err, common.ErrExtraction)
}

func TestDOCXExtractCorruptArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.docx")
	require.NoError(t, os.WriteFile(path, []byte("this is not a zip archive"), 0o600))

	_, err := DOCXExtractor{}.Extract(path)
	require.ErrorIs(t, err, common.ErrExtraction)
}

func TestDOCXExtractMissingFile(t *testing.T) {
	_, err := DOCXExtractor{}.Extract(filepath.Join(t.TempDir(), "gone.docx"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrExtraction)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	assert.True(t, r.Supported(".pdf"))
	assert.True(t, r.Supported(".PDF"))
	assert.True(t, r.Supported("docx"))
	assert.False(t, r.Supported(".txt"))
	assert.False(t, r.Supported(""))

	assert.Equal(t, []string{".docx", ".pdf"}, r.Extensions())

	_, err := r.Extract("/tmp/notes.txt")
	require.ErrorIs(t, err, common.ErrUnsupportedFile)
}

func TestRegistryDispatch(t *testing.T) {
	docXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body><w:p><w:r><w:t>dispatched</w:t></w:r></w:p></w:body>
</w:document>`
	path := writeTestDOCX(t, t.TempDir(), "Report.DOCX", docXML)

	r := NewRegistry()
	got, err := r.Extract(path)
	require.NoError(t, err)
	assert.Equal(t, "dispatched", got.Text)
}

func TestPDFExtractCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-not really"), 0o600))

	_, err := PDFExtractor{}.Extract(path)
	require.ErrorIs(t, err, common.ErrExtraction)
}

func TestPDFExtractMissingFile(t *testing.T) {
	_, err := PDFExtractor{}.Extract(filepath.Join(t.TempDir(), "gone.pdf"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrExtraction)
}
