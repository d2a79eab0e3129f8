// Package document inspects resume files locally: page count and extractable text.
// The result is advisory; a file that cannot be inspected is still uploaded.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
	"github.com/sirupsen/logrus"
	"github.com/unidoc/unipdf/v3/common/license"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"

	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/utils"
)

var ErrUnsupported = errors.New("document type cannot be inspected")

type Report struct {
	MimeType  string `json:"mimeType"`
	Pages     int    `json:"pages,omitempty"`
	TextChars int    `json:"textChars"`
	Words     int    `json:"words"`
}

// LowText reports whether the document carries too little text for an ATS to
// parse, typically a scanned image.
func (r Report) LowText() bool { return r.Words < 50 }

type Inspector struct {
	log *logrus.Logger
}

func NewInspector(log *logrus.Logger) *Inspector {
	if log == nil {
		log = logrus.New()
	}
	return &Inspector{log: log}
}

// SetLicenseKey registers a UniDoc metered key. PDF extraction needs one.
func SetLicenseKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return nil
	}
	return license.SetMeteredKey(key)
}

func (i *Inspector) Inspect(mimeType string, data []byte) (Report, error) {
	switch mimeType {
	case utils.MimePDF:
		return i.inspectPDF(data)
	case utils.MimeDOCX:
		return inspectDOCX(data)
	default:
		return Report{MimeType: mimeType}, ErrUnsupported
	}
}

// PDFPages returns the page count of a PDF.
func PDFPages(data []byte) (int, error) {
	r, err := model.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("read pdf: %w", err)
	}
	n, err := r.GetNumPages()
	if err != nil {
		return 0, fmt.Errorf("count pages: %w", err)
	}
	return n, nil
}

func (i *Inspector) inspectPDF(data []byte) (Report, error) {
	rep := Report{MimeType: utils.MimePDF}

	r, err := model.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return rep, fmt.Errorf("read pdf: %w", err)
	}
	n, err := r.GetNumPages()
	if err != nil {
		return rep, fmt.Errorf("count pages: %w", err)
	}
	rep.Pages = n

	var sb strings.Builder
	for p := 1; p <= n; p++ {
		page, err := r.GetPage(p)
		if err != nil {
			i.log.WithError(err).WithField("page", p).Debug("skip pdf page")
			continue
		}
		ex, err := extractor.New(page)
		if err != nil {
			i.log.WithError(err).WithField("page", p).Debug("skip pdf page")
			continue
		}
		text, err := ex.ExtractText()
		if err != nil {
			i.log.WithError(err).WithField("page", p).Debug("skip pdf page")
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	countText(&rep, sb.String())
	return rep, nil
}

var xmlTag = regexp.MustCompile(`<[^>]+>`)

func inspectDOCX(data []byte) (Report, error) {
	rep := Report{MimeType: utils.MimeDOCX}

	r, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return rep, fmt.Errorf("read docx: %w", err)
	}
	defer r.Close()

	// paragraphs end with </w:p>; keep them apart when stripping markup
	content := strings.ReplaceAll(r.Editable().GetContent(), "</w:p>", "\n")
	countText(&rep, xmlTag.ReplaceAllString(content, " "))
	return rep, nil
}

func countText(rep *Report, text string) {
	fields := strings.Fields(text)
	rep.Words = len(fields)
	rep.TextChars = len([]rune(strings.Join(fields, " ")))
}
