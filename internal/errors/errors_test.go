package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{"upload", "E100", "Invalid upload size limit", CategoryUpload},
		{"config", "E202", "Invalid log level", CategoryConfig},
		{"server", "E301", "Duplicate recipe route", CategoryServer},
		{"invalid route", "E304", "Invalid recipe route", CategoryServer},
		{"unknown", "E999", "Unknown error", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryCLI, "unknown recipe %q", "lasers")
	if err.Code != "" {
		t.Errorf("Code = %q, want empty", err.Code)
	}
	if err.Error() != `unknown recipe "lasers"` {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestError_String(t *testing.T) {
	cause := fmt.Errorf("address already in use")
	err := New("E302").WithField("server.addr").Wrap(cause)

	want := "E302: Listen failed (server.addr): address already in use"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestUnwrap(t *testing.T) {
	err := New("E200").Wrap(fs.ErrPermission)

	if !stderrors.Is(err, fs.ErrPermission) {
		t.Error("errors.Is does not see the wrapped error")
	}

	var wrapped error = fmt.Errorf("load: %w", err)
	var ae *AppError
	if !stderrors.As(wrapped, &ae) || ae.Code != "E200" {
		t.Errorf("errors.As = %v", ae)
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E200") != nil {
		t.Error("FromError(nil) should be nil")
	}

	plain := stderrors.New("boom")
	got := FromError(plain, "E302")
	if got.Code != "E302" || got.Wrapped != plain {
		t.Errorf("FromError(plain) = %+v", got)
	}

	coded := New("E301")
	if FromError(fmt.Errorf("mount: %w", coded), "E302") != coded {
		t.Error("FromError re-wrapped an AppError")
	}
}

func TestHasCode(t *testing.T) {
	inner := New("E201").WithField("session.idle_timeout")
	outer := New("E200").Wrap(inner)

	tests := []struct {
		name string
		err  error
		code string
		want bool
	}{
		{"direct", inner, "E201", true},
		{"nested", outer, "E201", true},
		{"outer", outer, "E200", true},
		{"absent", outer, "E300", false},
		{"plain error", stderrors.New("x"), "E200", false},
		{"nil", nil, "E200", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasCode(tt.err, tt.code); got != tt.want {
				t.Errorf("HasCode(%v, %s) = %v, want %v", tt.err, tt.code, got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("E100").
		WithField("upload.max_file_size").
		WithSuggestion("Set a positive size in bytes, e.g. 10485760").
		Wrap(stderrors.New("got -1"))

	out := err.Format()
	for _, want := range []string{
		"ERROR E100: Invalid upload size limit",
		"  upload.max_file_size\n",
		"  The maximum upload size must be a positive number of bytes.\n",
		"  Cause: got -1\n",
		"  Hint: Set a positive size in bytes, e.g. 10485760\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("Format() emitted ANSI codes with colors disabled")
	}
}

func TestFormat_Colors(t *testing.T) {
	EnableColors()
	out := New("E301").Format()
	if !strings.Contains(out, colorRed) || !strings.Contains(out, colorReset) {
		t.Errorf("Format() has no color codes: %q", out)
	}
}

func TestFormatCompact(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{"coded", New("E203"), "E203: Invalid log format"},
		{"with field", New("E203").WithField("log.format"), "log.format: E203: Invalid log format"},
		{"uncoded", Newf(CategoryCLI, "no recipes"), "no recipes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.FormatCompact(); got != tt.want {
				t.Errorf("FormatCompact() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	Print(&buf, fmt.Errorf("serve: %w", New("E302")))
	if !strings.Contains(buf.String(), "ERROR E302: Listen failed") {
		t.Errorf("Print(AppError) = %q", buf.String())
	}

	buf.Reset()
	Print(&buf, stderrors.New("plain"))
	if !strings.Contains(buf.String(), "ERROR: plain") {
		t.Errorf("Print(plain) = %q", buf.String())
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{"empty", "", 10, nil},
		{"short", "fits", 10, []string{"fits"}},
		{"wraps", "one two three four", 9, []string{"one two", "three", "four"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapText(tt.text, tt.width)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
				t.Errorf("wrapText = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) == 0 {
		t.Fatal("no registered codes")
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Errorf("codes not sorted: %s before %s", codes[i-1], codes[i])
		}
	}
	for _, code := range codes {
		tmpl, ok := GetTemplate(code)
		if !ok {
			t.Errorf("GetTemplate(%s) missing", code)
			continue
		}
		if tmpl.Message == "" || tmpl.Detail == "" {
			t.Errorf("%s has an empty message or detail", code)
		}
		var prefix Category
		switch code[1] {
		case '1':
			prefix = CategoryUpload
		case '2':
			prefix = CategoryConfig
		case '3':
			prefix = CategoryServer
		}
		if tmpl.Category != prefix {
			t.Errorf("%s category = %s, want %s", code, tmpl.Category, prefix)
		}
	}

	Register("E398", ErrorTemplate{Category: CategoryServer, Message: "Test", Detail: "Registered by a test."})
	if got := New("E398"); got.Message != "Test" {
		t.Errorf("registered template not used: %+v", got)
	}
}
