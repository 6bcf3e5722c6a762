// Package upload provides the upload widget and its HTTP receiver.
//
// An Upload renders a file input and owns a Receiver. When a browser posts a
// file, Handler streams the multipart part into the receiver, fires the
// widget's succeeded listeners while the receiver is held, and releases it
// afterwards:
//
//	buffer := upload.NewMemoryBuffer()
//	up := upload.New(buffer, "/camera/upload")
//	up.SetAcceptedFileTypes("image/*")
//	up.SetCapture("environment")
//	up.AddSucceededListener(func(ctx context.Context, ev upload.SucceededEvent) {
//	    data, _ := io.ReadAll(ev.Open())
//	    // ...
//	})
//
//	r.Post("/camera/upload", upload.Handler(lookup, upload.DefaultConfig()))
//
// # Receivers
//
// MemoryBuffer is a single-slot receiver: one upload at a time, reset on
// release. Bytes read through SucceededEvent.Open are only valid until the
// listener returns; copy them if they must outlive the event.
//
// # Accepted types
//
// SetAcceptedFileTypes is a client-side hint. Config.AllowedTypes is the
// server-side filter and is empty by default, so listeners must cope with
// any MIME type.
//
// # Size limits
//
// Config.MaxFileSize bounds the request body. Exceeding it fires the failed
// listeners with ErrTooLarge and answers 413.
package upload
