package analysis

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"

	serr "billtrack/internal/errors"
	log "billtrack/internal/log"
)

// Kinds of bill files.
const (
	KindDocument    = "document"
	KindImage       = "image"
	KindSpreadsheet = "spreadsheet"
	KindText        = "text"
	KindOther       = "other"
)

// Info is what the engine learned about one file.
type Info struct {
	Path        string
	ContentType string
	Kind        string
	// CapturedAt is when a photographed bill was taken, if the image says so.
	CapturedAt time.Time
	Metadata   map[string]string
}

// Analyzer defines the interface for file type specific analyzers
type Analyzer interface {
	// CanHandle checks if this analyzer is suitable for the given content type
	CanHandle(contentType string) bool
	// Analyze performs the specific analysis and updates info
	Analyze(path string, info *Info) error
}

// --- Concrete Analyzer Implementations ---

// ImageAnalyzer reads EXIF data from photographed or scanned bills.
type ImageAnalyzer struct{}

// CanHandle accepts JPEG and TIFF images, the formats that carry EXIF.
func (a *ImageAnalyzer) CanHandle(contentType string) bool {
	return strings.HasPrefix(contentType, "image/jpeg") || strings.HasPrefix(contentType, "image/tiff")
}

// Analyze extracts the capture time and camera model.
func (a *ImageAnalyzer) Analyze(path string, info *Info) error {
	logger := log.LogWithFields(log.F("path", path))

	file, err := os.Open(path)
	if err != nil {
		return serr.NewFileError("failed to open image", path, serr.FileAccessDenied, err)
	}
	defer file.Close()

	x, err := exif.Decode(file)
	if err != nil {
		logger.Debugf("No EXIF data found: %v", err)
		return nil
	}

	if dt, err := x.DateTime(); err == nil {
		info.CapturedAt = dt
		info.Metadata["DateTimeOriginal"] = dt.Format(time.RFC3339)
	}
	if model, err := x.Get(exif.Model); err == nil {
		if s, err := model.StringVal(); err == nil && s != "" {
			info.Metadata["CameraModel"] = s
		}
	}
	return nil
}

// --- Engine Implementation ---

// Engine detects content types and delegates to registered analyzers.
type Engine struct {
	analyzers []Analyzer
}

// New creates an engine with the image analyzer registered.
func New() *Engine {
	exif.RegisterParsers(mknote.All...)
	e := &Engine{}
	e.Register(&ImageAnalyzer{})
	return e
}

// Register adds an analyzer. The first analyzer that can handle a content
// type wins.
func (e *Engine) Register(a Analyzer) {
	e.analyzers = append(e.analyzers, a)
}

// Inspect detects the content type of path and runs the matching analyzer.
// Analyzer failures are logged and the partial result returned.
func (e *Engine) Inspect(path string) (*Info, error) {
	mime, err := mimetype.DetectFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, serr.NewFileError("failed to detect MIME type", path, serr.FileNotFound, err)
		}
		return nil, serr.NewFileError("failed to detect MIME type", path, serr.FileOperationFailed, err)
	}

	info := &Info{
		Path:        path,
		ContentType: mime.String(),
		Kind:        KindOf(mime.String()),
		Metadata:    make(map[string]string),
	}

	for _, a := range e.analyzers {
		if !a.CanHandle(info.ContentType) {
			continue
		}
		if err := a.Analyze(path, info); err != nil {
			log.LogWithError(err).With(log.F("analyzer", fmt.Sprintf("%T", a))).Warn("Analyzer failed, returning partial info")
		}
		break
	}

	return info, nil
}

// KindOf buckets a MIME type into the kinds bills come in.
func KindOf(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return KindImage
	case strings.Contains(contentType, "pdf"),
		strings.Contains(contentType, "msword"),
		strings.Contains(contentType, "wordprocessingml"),
		strings.Contains(contentType, "opendocument.text"):
		return KindDocument
	case strings.Contains(contentType, "spreadsheet"),
		strings.Contains(contentType, "ms-excel"),
		strings.HasPrefix(contentType, "text/csv"):
		return KindSpreadsheet
	case strings.HasPrefix(contentType, "text/"):
		return KindText
	default:
		return KindOther
	}
}
