package extract

import (
	"bytes"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
)

// Kind is the format of a submitted schedule document.
type Kind string

const (
	KindText  Kind = "text"
	KindPDF   Kind = "pdf"
	KindICS   Kind = "ics"
	KindImage Kind = "image"
)

// ErrUnsupportedDocument is returned for documents that cannot be turned into a course list.
var ErrUnsupportedDocument = errors.New("unsupported document type")

// ErrUnreadableDocument is returned when a PDF or calendar file cannot be parsed.
var ErrUnreadableDocument = errors.New("unreadable document")

// Document is a schedule submitted as free text, a file or an image.
type Document struct {
	Kind        Kind
	Name        string
	ContentType string
	Data        []byte
}

// NewTextDocument wraps free-form text.
func NewTextDocument(text string) Document {
	return Document{Kind: KindText, ContentType: "text/plain", Data: []byte(text)}
}

// NewFileDocument detects the kind of an uploaded file and wraps it.
func NewFileDocument(name, contentType string, data []byte) (Document, error) {
	kind, detected, err := DetectKind(name, contentType, data)
	if err != nil {
		return Document{}, err
	}
	return Document{Kind: kind, Name: name, ContentType: detected, Data: data}, nil
}

// DetectKind chooses the document kind from the content, the file extension and the
// declared content type, in that order. It also returns the MIME type to use.
func DetectKind(name, contentType string, data []byte) (Kind, string, error) {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("BEGIN:VCALENDAR")) {
		return KindICS, "text/calendar", nil
	}

	sniffed := http.DetectContentType(data)
	switch {
	case sniffed == "application/pdf":
		return KindPDF, sniffed, nil
	case strings.HasPrefix(sniffed, "image/"):
		return KindImage, sniffed, nil
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return KindPDF, "application/pdf", nil
	case ".ics":
		return KindICS, "text/calendar", nil
	case ".png":
		return KindImage, "image/png", nil
	case ".jpg", ".jpeg":
		return KindImage, "image/jpeg", nil
	case ".webp":
		return KindImage, "image/webp", nil
	case ".txt", ".csv", ".md":
		return KindText, "text/plain", nil
	}

	declared, _, _ := strings.Cut(contentType, ";")
	declared = strings.TrimSpace(strings.ToLower(declared))
	switch {
	case declared == "application/pdf":
		return KindPDF, declared, nil
	case declared == "text/calendar":
		return KindICS, declared, nil
	case strings.HasPrefix(declared, "image/"):
		return KindImage, declared, nil
	case strings.HasPrefix(sniffed, "text/plain"):
		return KindText, "text/plain", nil
	}

	return "", "", ErrUnsupportedDocument
}
