package document

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/utils"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func buildDocx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var body strings.Builder
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body.String() + `</w:body></w:document>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
	}
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestInspectDOCXCountsWords(t *testing.T) {
	data := buildDocx(t, "Ada Lovelace", "Senior Go engineer building compilers")

	rep, err := NewInspector(quietLogger()).Inspect(utils.MimeDOCX, data)
	require.NoError(t, err)
	assert.Equal(t, 7, rep.Words)
	assert.True(t, rep.LowText())
}

func TestInspectRejectsGarbage(t *testing.T) {
	i := NewInspector(quietLogger())

	_, err := i.Inspect(utils.MimeDOCX, []byte("not a zip"))
	assert.Error(t, err)

	_, err = i.Inspect(utils.MimePDF, []byte("%PDF-garbage"))
	assert.Error(t, err)
}

func TestInspectLegacyDocIsUnsupported(t *testing.T) {
	_, err := NewInspector(quietLogger()).Inspect(utils.MimeDOC, []byte{0xD0, 0xCF})
	assert.ErrorIs(t, err, ErrUnsupported)
}
