package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/vango-go/recipes/pkg/vdom"
)

// ErrTooLarge is returned when a file exceeds the size limit.
var ErrTooLarge = errors.New("upload: file too large")

// ErrNoFile is returned when the request carries no file part.
var ErrNoFile = errors.New("upload: no file provided")

// ErrTypeNotAllowed is returned when a file's MIME type fails Config.AllowedTypes.
var ErrTypeNotAllowed = errors.New("upload: file type not allowed")

// ErrBusy is returned when the receiver is held by another upload.
var ErrBusy = errors.New("upload: receiver busy")

// SucceededEvent describes a completed upload.
type SucceededEvent struct {
	// FileName is the original filename from the client.
	FileName string

	// MIMEType is the media type of the file, without parameters.
	MIMEType string

	// ContentLength is the number of bytes received.
	ContentLength int64

	receiver Receiver
}

// Open returns a reader over the uploaded bytes. The reader is only valid
// until the listener returns.
func (e SucceededEvent) Open() io.Reader {
	return e.receiver.Open()
}

// FailedEvent describes an upload that did not complete.
type FailedEvent struct {
	FileName string
	MIMEType string
	Err      error
}

// SucceededListener is called after the file has been fully received.
type SucceededListener func(ctx context.Context, ev SucceededEvent)

// FailedListener is called when receiving a file fails.
type FailedListener func(ctx context.Context, ev FailedEvent)

// Upload is a file upload widget bound to a Receiver.
type Upload struct {
	receiver Receiver
	endpoint string

	mu        sync.RWMutex
	accept    string
	capture   string
	succeeded []SucceededListener
	failed    []FailedListener
}

// New creates an Upload that posts to endpoint and stores files in receiver.
func New(receiver Receiver, endpoint string) *Upload {
	return &Upload{
		receiver: receiver,
		endpoint: endpoint,
	}
}

// SetAcceptedFileTypes sets the client-side accept filter (e.g. "image/*").
func (u *Upload) SetAcceptedFileTypes(types string) {
	u.mu.Lock()
	u.accept = types
	u.mu.Unlock()
}

// SetCapture sets the HTML capture hint ("environment" or "user").
func (u *Upload) SetCapture(facing string) {
	u.mu.Lock()
	u.capture = facing
	u.mu.Unlock()
}

// AddSucceededListener registers a listener for completed uploads.
func (u *Upload) AddSucceededListener(fn SucceededListener) {
	u.mu.Lock()
	u.succeeded = append(u.succeeded, fn)
	u.mu.Unlock()
}

// AddFailedListener registers a listener for failed uploads.
func (u *Upload) AddFailedListener(fn FailedListener) {
	u.mu.Lock()
	u.failed = append(u.failed, fn)
	u.mu.Unlock()
}

// Endpoint returns the URL the widget posts to.
func (u *Upload) Endpoint() string {
	return u.endpoint
}

// Render implements vdom.Component.
//
// The form works without JavaScript; the page's client script submits it
// on change and suppresses the navigation.
func (u *Upload) Render() *vdom.VNode {
	u.mu.RLock()
	accept, capture := u.accept, u.capture
	u.mu.RUnlock()

	attrs := []vdom.Attr{vdom.Type("file"), vdom.Name(FormField), vdom.ID("upload-file")}
	if accept != "" {
		attrs = append(attrs, vdom.Accept(accept))
	}
	if capture != "" {
		attrs = append(attrs, vdom.Capture(capture))
	}

	return vdom.Form(
		vdom.Class("upload"),
		vdom.Data("upload", "true"),
		vdom.Method("post"),
		vdom.Action(u.endpoint),
		vdom.EncType("multipart/form-data"),
		vdom.Label(vdom.For("upload-file"), vdom.Text("Upload file...")),
		vdom.Input(attrs),
		vdom.Noscript(vdom.Button(vdom.Type("submit"), vdom.Text("Upload"))),
	)
}

// Receive copies one file into the receiver and dispatches listeners.
// The receiver is held for the duration of the succeeded listeners and
// released before Receive returns.
func (u *Upload) Receive(ctx context.Context, fileName, mimeType string, r io.Reader) (int64, error) {
	w, err := u.receiver.Acquire(fileName, mimeType)
	if err != nil {
		u.fail(ctx, FailedEvent{FileName: fileName, MIMEType: mimeType, Err: err})
		return 0, err
	}
	defer u.receiver.Release()

	n, err := io.Copy(w, r)
	if err != nil {
		if isTooLarge(err) {
			err = ErrTooLarge
		}
		err = fmt.Errorf("upload: receive %q: %w", fileName, err)
		u.fail(ctx, FailedEvent{FileName: fileName, MIMEType: mimeType, Err: err})
		return n, err
	}

	ev := SucceededEvent{
		FileName:      fileName,
		MIMEType:      mimeType,
		ContentLength: n,
		receiver:      u.receiver,
	}

	u.mu.RLock()
	listeners := append([]SucceededListener(nil), u.succeeded...)
	u.mu.RUnlock()
	for _, fn := range listeners {
		fn(ctx, ev)
	}

	return n, nil
}

// Fail dispatches the failed listeners for an upload that never reached
// the receiver (e.g. rejected by size or type).
func (u *Upload) Fail(ctx context.Context, ev FailedEvent) {
	u.fail(ctx, ev)
}

func (u *Upload) fail(ctx context.Context, ev FailedEvent) {
	u.mu.RLock()
	listeners := append([]FailedListener(nil), u.failed...)
	u.mu.RUnlock()
	for _, fn := range listeners {
		fn(ctx, ev)
	}
}
