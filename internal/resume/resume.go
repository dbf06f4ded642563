// Package resume loads user-selected resume files and inspects them before
// upload.
package resume

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/ledongthuc/pdf"

	"github.com/amishk599/careerlens/internal/model"
)

// MaxSize bounds the files Load accepts.
const MaxSize = 20 << 20

// ErrUnreadable is returned when the path is not a regular readable file.
var ErrUnreadable = errors.New("resume file is not readable")

var contentTypes = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".doc":  "application/msword",
	".txt":  "text/plain",
}

// Load reads the file at path into a ResumeFile. The content type comes from
// the extension, falling back to content sniffing. PDFs get a page count;
// an unparseable PDF still loads with Pages == 0 and the service decides.
func Load(path string) (model.ResumeFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return model.ResumeFile{}, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	if !info.Mode().IsRegular() {
		return model.ResumeFile{}, fmt.Errorf("%w: %s is not a regular file", ErrUnreadable, path)
	}
	if info.Size() > MaxSize {
		return model.ResumeFile{}, fmt.Errorf("%w: %s is %s, limit is %s",
			ErrUnreadable, path, humanize.Bytes(uint64(info.Size())), humanize.Bytes(MaxSize))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return model.ResumeFile{}, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}

	f := model.ResumeFile{
		Name:        filepath.Base(path),
		ContentType: DetectContentType(path, data),
		Data:        data,
		ModTime:     info.ModTime(),
	}
	if f.ContentType == "application/pdf" {
		f.Pages = PageCount(data)
	}
	return f, nil
}

// DetectContentType maps known resume extensions to their MIME type and
// sniffs everything else.
func DetectContentType(name string, data []byte) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	ct := http.DetectContentType(data)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return ct
}

// PageCount returns the number of pages in a PDF, or 0 when the data cannot
// be parsed.
func PageCount(data []byte) (n int) {
	// The PDF parser panics on some malformed inputs.
	defer func() {
		if recover() != nil {
			n = 0
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0
	}
	return r.NumPage()
}

// Describe renders a one-line summary such as "cv.pdf · 2 pages · 48 kB".
func Describe(f model.ResumeFile) string {
	parts := []string{f.Name}
	switch f.Pages {
	case 0:
	case 1:
		parts = append(parts, "1 page")
	default:
		parts = append(parts, fmt.Sprintf("%d pages", f.Pages))
	}
	parts = append(parts, humanize.Bytes(uint64(f.Size())))
	if !f.ModTime.IsZero() {
		parts = append(parts, "modified "+humanize.Time(f.ModTime))
	}
	return strings.Join(parts, " · ")
}
