package main

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"
)

func newUpload(t *testing.T, id, contentType string, iconFirst bool) (*bytes.Buffer, string) {
	t.Helper()

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)

	writeIcon := func() {
		mh := textproto.MIMEHeader{}
		mh.Set("Content-Disposition", `form-data; name="icon"; filename="icon.png"`)
		mh.Set("Content-Type", contentType)
		w, err := mw.CreatePart(mh)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte("\x89PNG fake icon")); err != nil {
			t.Fatal(err)
		}
	}

	if iconFirst {
		writeIcon()
	}
	if err := mw.WriteField("id", id); err != nil {
		t.Fatal(err)
	}
	if !iconFirst {
		writeIcon()
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	return buf, mw.FormDataContentType()
}

func TestSubmit(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	router := newRouter(dir)

	tests := []struct {
		name        string
		id          string
		contentType string
		iconFirst   bool
		status      int
	}{
		{name: "created", id: "alice", contentType: "image/png", status: http.StatusCreated},
		{name: "icon before id", id: "bob", contentType: "image/png", iconFirst: true, status: http.StatusCreated},
		{name: "conflict", id: "alice", contentType: "image/png", status: http.StatusConflict},
		{name: "unsupported type", id: "carol", contentType: "image/gif", status: http.StatusBadRequest},
	}

	// cases share the icon directory
	for _, tt := range tests {
		body, contentType := newUpload(t, tt.id, tt.contentType, tt.iconFirst)

		req := httptest.NewRequest(http.MethodPost, "/submit", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		if rec.Code != tt.status {
			t.Errorf("%s: unexpected status: %d %s", tt.name, rec.Code, rec.Body.String())
		}
	}

	b, err := os.ReadFile(filepath.Join(dir, "bob"))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "\x89PNG fake icon" {
		t.Errorf("unexpected icon: %q", b)
	}

	req := httptest.NewRequest(http.MethodGet, "/icons/alice", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("unexpected status serving icon: %d", rec.Code)
	}
}

func TestSubmit_NotMultipart(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/submit", bytes.NewBufferString("id=alice"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	newRouter(t.TempDir()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("unexpected status: %d", rec.Code)
	}
}
