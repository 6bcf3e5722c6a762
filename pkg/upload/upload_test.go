package upload

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/vango-go/recipes/pkg/vdom"
)

func TestUploadRender(t *testing.T) {
	up := New(NewMemoryBuffer(), "/camera/upload")
	up.SetAcceptedFileTypes("image/*")
	up.SetCapture("environment")

	form := up.Render()
	if form.Tag != "form" {
		t.Fatalf("root tag = %q, want form", form.Tag)
	}
	if got, _ := form.Attr("action"); got != "/camera/upload" {
		t.Errorf("action = %q", got)
	}
	if got, _ := form.Attr("enctype"); got != "multipart/form-data" {
		t.Errorf("enctype = %q", got)
	}

	input := form.Find(vdom.ByTag("input"))
	if input == nil {
		t.Fatal("file input missing")
	}
	for k, want := range map[string]string{"type": "file", "name": "file", "accept": "image/*", "capture": "environment"} {
		if got, _ := input.Attr(k); got != want {
			t.Errorf("input %s = %q, want %q", k, got, want)
		}
	}
}

func TestUploadRenderWithoutHints(t *testing.T) {
	up := New(NewMemoryBuffer(), "/u")
	input := up.Render().Find(vdom.ByTag("input"))
	if input.HasAttr("accept") || input.HasAttr("capture") {
		t.Errorf("unexpected hints on %+v", input.Props)
	}
}

func TestUploadReceiveDispatchesWhileHeld(t *testing.T) {
	buf := NewMemoryBuffer()
	up := New(buf, "/u")

	var got []string
	up.AddSucceededListener(func(ctx context.Context, ev SucceededEvent) {
		if !buf.Held() {
			t.Error("buffer should be held during listener")
		}
		data, _ := io.ReadAll(ev.Open())
		got = append(got, ev.FileName+":"+ev.MIMEType+":"+string(data))
		if ev.ContentLength != int64(len(data)) {
			t.Errorf("ContentLength = %d, want %d", ev.ContentLength, len(data))
		}
	})

	if _, err := up.Receive(context.Background(), "a.txt", "text/plain", strings.NewReader("one")); err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if _, err := up.Receive(context.Background(), "b.txt", "text/plain", strings.NewReader("two")); err != nil {
		t.Fatalf("Receive: %v", err)
	}

	if buf.Held() {
		t.Error("buffer should be released after Receive")
	}
	want := []string{"a.txt:text/plain:one", "b.txt:text/plain:two"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("events = %v, want %v", got, want)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestUploadReceiveFailure(t *testing.T) {
	up := New(NewMemoryBuffer(), "/u")

	var failed []FailedEvent
	up.AddFailedListener(func(ctx context.Context, ev FailedEvent) {
		failed = append(failed, ev)
	})
	up.AddSucceededListener(func(context.Context, SucceededEvent) {
		t.Error("succeeded listener must not run")
	})

	if _, err := up.Receive(context.Background(), "x.bin", "application/octet-stream", failingReader{}); err == nil {
		t.Fatal("expected error")
	}
	if len(failed) != 1 || failed[0].FileName != "x.bin" {
		t.Errorf("failed events = %+v", failed)
	}
}

func TestUploadReceiveBusy(t *testing.T) {
	buf := NewMemoryBuffer()
	up := New(buf, "/u")

	if _, err := buf.Acquire("held", "text/plain"); err != nil {
		t.Fatal(err)
	}
	_, err := up.Receive(context.Background(), "a", "text/plain", strings.NewReader("x"))
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("err = %v, want ErrBusy", err)
	}
	if !buf.Held() {
		t.Error("a failed Acquire must not release the other holder")
	}
}
