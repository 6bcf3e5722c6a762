package upload

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
)

// FormField is the multipart field name carrying the file.
const FormField = "file"

// sniffLen is the number of bytes http.DetectContentType considers.
const sniffLen = 512

// Config holds configuration for the upload handler.
type Config struct {
	// MaxFileSize is the maximum allowed request body size in bytes.
	// Default: 10MB.
	MaxFileSize int64

	// AllowedTypes is a list of allowed MIME types. Entries may be exact
	// ("image/png") or wildcards ("image/*"). If empty, all types are allowed.
	AllowedTypes []string

	// Redirect is where browsers without JavaScript are sent after a
	// successful post. Empty means the Referer, falling back to 204.
	Redirect string

	// Logger receives upload failures. Default: slog.Default().
	Logger *slog.Logger

	// OnResult, if set, is called once per request with the outcome
	// (nil on success). Used for metrics.
	OnResult func(mimeType string, err error)
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxFileSize: 10 * 1024 * 1024, // 10MB
	}
}

// Lookup resolves the Upload widget a request targets, typically through
// the caller's session.
type Lookup func(r *http.Request) (*Upload, error)

// Handler returns an http.Handler that feeds multipart uploads into the
// widget returned by lookup.
//
// The handler expects a multipart form with a "file" field. Clients that
// accept application/json get the received file's metadata back:
//
//	{"file_name": "cat.png", "mime_type": "image/png", "size": 1234}
//
// Other clients are redirected with 303 See Other.
func Handler(lookup Lookup, config *Config) http.Handler {
	if config == nil {
		config = DefaultConfig()
	}
	maxSize := config.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultConfig().MaxFileSize
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "upload")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		up, err := lookup(r)
		if err != nil || up == nil {
			http.Error(w, "Upload target not found", http.StatusNotFound)
			return
		}

		// Limit request body size before parsing
		r.Body = http.MaxBytesReader(w, r.Body, maxSize)

		report := func(fileName, mimeType string, err error) {
			if config.OnResult != nil {
				config.OnResult(mimeType, err)
			}
			if err == nil {
				return
			}
			logger.Warn("upload failed", "file", fileName, "mime", mimeType, "error", err)
		}

		mr, err := r.MultipartReader()
		if err != nil {
			report("", "", err)
			http.Error(w, "Failed to parse form", http.StatusBadRequest)
			return
		}

		part, err := nextFilePart(mr)
		if err != nil {
			if isTooLarge(err) {
				err = ErrTooLarge
				up.Fail(r.Context(), FailedEvent{Err: err})
				report("", "", err)
				http.Error(w, "File too large", http.StatusRequestEntityTooLarge)
				return
			}
			report("", "", err)
			http.Error(w, "No file provided", http.StatusBadRequest)
			return
		}
		defer part.Close()

		fileName := path.Base(strings.ReplaceAll(part.FileName(), `\`, "/"))
		body := bufio.NewReaderSize(part, sniffLen)
		mimeType := detectType(part.Header.Get("Content-Type"), body)

		if !allowed(config.AllowedTypes, mimeType) {
			up.Fail(r.Context(), FailedEvent{FileName: fileName, MIMEType: mimeType, Err: ErrTypeNotAllowed})
			report(fileName, mimeType, ErrTypeNotAllowed)
			http.Error(w, "File type not allowed", http.StatusUnsupportedMediaType)
			return
		}

		size, err := up.Receive(r.Context(), fileName, mimeType, body)
		if err != nil {
			switch {
			case isTooLarge(err):
				report(fileName, mimeType, ErrTooLarge)
				http.Error(w, "File too large", http.StatusRequestEntityTooLarge)
			case errors.Is(err, ErrBusy):
				report(fileName, mimeType, err)
				http.Error(w, "Another upload is in progress", http.StatusConflict)
			default:
				report(fileName, mimeType, err)
				http.Error(w, "Upload failed", http.StatusInternalServerError)
			}
			return
		}
		report(fileName, mimeType, nil)

		if wantsJSON(r) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"file_name": fileName,
				"mime_type": mimeType,
				"size":      size,
			})
			return
		}

		target := config.Redirect
		if target == "" {
			target = r.Referer()
		}
		if target == "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
	})
}

// nextFilePart skips non-file fields until the file part is found.
func nextFilePart(mr *multipart.Reader) (*multipart.Part, error) {
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return nil, ErrNoFile
		}
		if err != nil {
			return nil, err
		}
		if part.FormName() == FormField && part.FileName() != "" {
			return part, nil
		}
		part.Close()
	}
}

// detectType returns the declared media type, or a sniffed one when the
// client sent nothing useful.
func detectType(declared string, body *bufio.Reader) string {
	if declared != "" {
		if mediaType, _, err := mime.ParseMediaType(declared); err == nil && mediaType != "application/octet-stream" {
			return mediaType
		}
	}
	head, _ := body.Peek(sniffLen)
	mediaType, _, err := mime.ParseMediaType(http.DetectContentType(head))
	if err != nil {
		return "application/octet-stream"
	}
	return mediaType
}

// allowed matches mimeType against exact and wildcard patterns.
func allowed(patterns []string, mimeType string) bool {
	if len(patterns) == 0 {
		return true
	}
	mimeType = strings.ToLower(mimeType)
	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if mediaType, _, err := mime.ParseMediaType(p); err == nil {
			p = mediaType
		}
		if p == "*/*" || p == mimeType {
			return true
		}
		if prefix, ok := strings.CutSuffix(p, "/*"); ok && strings.HasPrefix(mimeType, prefix+"/") {
			return true
		}
	}
	return false
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) || errors.Is(err, ErrTooLarge) {
		return true
	}
	// multipart does not always wrap the body error
	return strings.Contains(err.Error(), "request body too large")
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
