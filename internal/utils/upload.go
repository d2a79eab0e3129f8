package utils

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
)

const (
	MimePDF  = "application/pdf"
	MimeDOC  = "application/msword"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	// MaxUploadBytes is the largest resume accepted for ATS scoring.
	MaxUploadBytes int64 = 5 << 20
)

var uploadTypes = map[string]string{
	".pdf":  MimePDF,
	".doc":  MimeDOC,
	".docx": MimeDOCX,
}

// UploadMimeType returns the MIME type for an allowed resume file name, or "".
func UploadMimeType(filename string) string {
	return uploadTypes[strings.ToLower(filepath.Ext(filename))]
}

// ValidateUpload runs the client-side checks for an ATS upload and returns the MIME
// type to send. head holds the first bytes of the file (up to 512) for sniffing.
func ValidateUpload(filename string, size int64, head []byte) (string, error) {
	const op = "ValidateUpload"

	mimeType := UploadMimeType(filename)
	if mimeType == "" {
		return "", E(CodeInvalidArgument, op, "You can only upload PDF or Word documents!", nil)
	}
	if size <= 0 {
		return "", E(CodeInvalidArgument, op, "file is empty", nil)
	}
	if size > MaxUploadBytes {
		return "", E(CodeInvalidArgument, op, "File must be smaller than 5MB!",
			fmt.Errorf("size %d exceeds %d bytes", size, MaxUploadBytes))
	}

	// sniff content type; browsers trust the extension, pdf is cheap to confirm
	if mimeType == MimePDF && len(head) > 0 {
		if ct := http.DetectContentType(head); ct != MimePDF {
			return "", E(CodeInvalidArgument, op, "invalid content type (must be pdf)", fmt.Errorf("sniffed %q", ct))
		}
	}
	return mimeType, nil
}
