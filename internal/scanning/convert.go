package scanning

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
)

// toPNG normalizes any supported upload (PDF, HEIC, JPEG, PNG, GIF) to PNG
// bytes so the vision backends only ever see one format.
func toPNG(data []byte, contentType string) ([]byte, error) {
	mimeType := normalizeMIME(contentType)

	if mimeType == "application/pdf" {
		return renderPDF(data)
	}
	if mimeType == "image/png" && !isHEIC(data) {
		return data, nil
	}
	return decodeToPNG(data, mimeType)
}

// renderPDF rasterizes the first page of a PDF; receipts are single page.
func renderPDF(pdfData []byte) ([]byte, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF page: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// decodeToPNG decodes any supported raster format and re-encodes it as PNG.
// HEIC needs its own decoder; phones love it, the stdlib does not.
func decodeToPNG(data []byte, mimeType string) ([]byte, error) {
	var img image.Image
	var err error

	if isHEIC(data) || isHEICMime(mimeType) {
		img, err = heic.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding HEIC/HEIF image: %w", err)
		}
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding image: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// ValidateDocument rejects payloads the pipeline cannot read: empty bytes,
// unsupported content types, corrupt image data. Called at the HTTP boundary
// before any model call so garbage never reaches the core.
func ValidateDocument(data []byte, contentType string) error {
	if len(data) == 0 {
		return fmt.Errorf("empty file")
	}
	mimeType := normalizeMIME(contentType)
	switch {
	case mimeType == "application/pdf":
		if !bytes.HasPrefix(data, []byte("%PDF-")) {
			return fmt.Errorf("corrupt PDF file")
		}
	case isHEICMime(mimeType):
		if !isHEIC(data) {
			return fmt.Errorf("corrupt HEIC/HEIF image")
		}
	case strings.HasPrefix(mimeType, "image/"):
		if isHEIC(data) {
			return nil
		}
		if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
			return fmt.Errorf("invalid image file: %w", err)
		}
	default:
		return fmt.Errorf("unsupported content type %q: file must be an image or PDF", contentType)
	}
	return nil
}

func normalizeMIME(contentType string) string {
	mimeType := strings.ToLower(strings.TrimSpace(contentType))
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return mimeType
}

// isHEIC sniffs the ftyp box brands phones write into HEIC/HEIF files.
func isHEIC(data []byte) bool {
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return false
	}
	switch string(data[8:12]) {
	case "heic", "heif", "mif1", "msf1":
		return true
	}
	return false
}

func isHEICMime(mimeType string) bool {
	return strings.Contains(mimeType, "heic") || strings.Contains(mimeType, "heif")
}
