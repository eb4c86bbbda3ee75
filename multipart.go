package fetchkit

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// MultipartBody is a multipart/form-data request payload. Pass it as the
// data argument of a call with a multipart content type; the boundary-bearing
// Content-Type header is set automatically.
type MultipartBody struct {
	// Fields are plain key-value form fields.
	Fields map[string]string
	// Files are file upload fields.
	Files []FileField
}

// FileField is a single file part of a multipart payload.
type FileField struct {
	// FieldName is the form field name.
	FieldName string
	// FileName is the file name presented to the server.
	FileName string
	// ContentType is the part MIME type. Empty means application/octet-stream.
	ContentType string
	// Reader streams the file content for large uploads. Takes precedence
	// over Data.
	Reader io.Reader
	// Data is the file content, used when Reader is nil.
	Data []byte
}

// content returns the reader the part body is copied from.
func (f *FileField) content() io.Reader {
	if f.Reader != nil {
		return f.Reader
	}
	return bytes.NewReader(f.Data)
}

// appendTo writes the file as one part of w, with its disposition and
// MIME type headers.
func (f *FileField) appendTo(w *multipart.Writer) error {
	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := textproto.MIMEHeader{
		"Content-Disposition": {fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			escapeDisposition(f.FieldName), escapeDisposition(f.FileName))},
		"Content-Type": {contentType},
	}
	part, err := w.CreatePart(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, f.content())
	return err
}

// encode builds the multipart body and returns the reader together with the
// boundary-bearing content type.
func (m *MultipartBody) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range m.Fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("write multipart field %q: %w", k, err)
		}
	}
	for i := range m.Files {
		if err := m.Files[i].appendTo(w); err != nil {
			return nil, "", fmt.Errorf("write multipart file %q: %w", m.Files[i].FieldName, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

var dispositionEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// escapeDisposition escapes quotes and backslashes in Content-Disposition
// parameter values.
func escapeDisposition(s string) string {
	return dispositionEscaper.Replace(s)
}
