package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gen2brain/go-fitz"
)

// Document is a source file handed to the extraction collaborator.
type Document struct {
	Name string
	MIME string
	Data []byte
}

// LoadDocument reads path and detects its media type from content.
func LoadDocument(path string) (*Document, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("document path cannot be empty")
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot access document: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return NewDocument(filepath.Base(path), data), nil
}

// NewDocument wraps in-memory bytes.
func NewDocument(name string, data []byte) *Document {
	mt := mimetype.Detect(data)
	mime := mt.String()
	if idx := strings.Index(mime, ";"); idx >= 0 {
		mime = mime[:idx]
	}
	// json is detected as text/plain when it starts with whitespace
	if mime == "text/plain" && json.Valid(bytes.TrimSpace(data)) {
		mime = "application/json"
	}
	return &Document{Name: name, MIME: mime, Data: data}
}

// IsPDF reports whether the document is a PDF.
func (d *Document) IsPDF() bool { return d.MIME == "application/pdf" }

// IsImage reports whether the document is a raster image.
func (d *Document) IsImage() bool { return strings.HasPrefix(d.MIME, "image/") }

// IsJSON reports whether the document already is JSON data.
func (d *Document) IsJSON() bool { return d.MIME == "application/json" }

// IsText reports whether the document is plain text.
func (d *Document) IsText() bool { return strings.HasPrefix(d.MIME, "text/") }

func (d *Document) dataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// parts renders the document as message content. PDFs are rasterized page
// by page; JSON and text travel inline; anything else is sent as a file.
func (d *Document) parts(ctx context.Context, quality int) ([]ContentPart, error) {
	switch {
	case d.IsPDF():
		return d.pdfPages(ctx, quality)
	case d.IsImage():
		return []ContentPart{{Type: "image_url", ImageURL: &ImageURL{URL: d.dataURL(d.MIME, d.Data)}}}, nil
	case d.IsJSON(), d.IsText():
		return []ContentPart{textPart(fmt.Sprintf("Document %q:\n%s", d.Name, d.Data))}, nil
	default:
		return []ContentPart{{Type: "file", File: &FilePart{Filename: d.Name, FileData: d.dataURL(d.MIME, d.Data)}}}, nil
	}
}

func (d *Document) pdfPages(ctx context.Context, quality int) ([]ContentPart, error) {
	doc, err := fitz.NewFromMemory(d.Data)
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	if pageCount == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	parts := make([]ContentPart, 0, pageCount)
	for pageNum := 0; pageNum < pageCount; pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		img, err := doc.Image(pageNum)
		if err != nil {
			return nil, fmt.Errorf("render page %d: %w", pageNum+1, err)
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("encode page %d as JPG: %w", pageNum+1, err)
		}
		parts = append(parts, ContentPart{
			Type:     "image_url",
			ImageURL: &ImageURL{URL: d.dataURL("image/jpeg", buf.Bytes())},
		})
	}
	return parts, nil
}
