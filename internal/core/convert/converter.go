// Package convert defines the document-to-text converter capability.
package convert

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	domainerrors "github.com/unifiedui/docchat-service/internal/domain/errors"
)

// Converter turns the file at path into markdown text.
type Converter interface {
	Convert(ctx context.Context, path string) (string, error)
}

// Type represents the type of the default converter backend.
type Type string

const (
	// TypeDocling converts through a docling-serve endpoint.
	TypeDocling Type = "docling"
	// TypeHTML only converts HTML documents locally.
	TypeHTML Type = "html"
)

// Dispatch routes conversions by file extension.
type Dispatch struct {
	byExt    map[string]Converter
	fallback Converter
}

// NewDispatch creates a Dispatch with an optional fallback for unregistered extensions.
func NewDispatch(fallback Converter) *Dispatch {
	return &Dispatch{
		byExt:    make(map[string]Converter),
		fallback: fallback,
	}
}

// Register routes the given extensions to c. Extensions are matched case-insensitively.
func (d *Dispatch) Register(c Converter, exts ...string) *Dispatch {
	for _, ext := range exts {
		d.byExt[normalizeExt(ext)] = c
	}
	return d
}

// Convert implements Converter.
func (d *Dispatch) Convert(ctx context.Context, path string) (string, error) {
	ext := normalizeExt(filepath.Ext(path))
	if c, ok := d.byExt[ext]; ok {
		return c.Convert(ctx, path)
	}
	if d.fallback != nil {
		return d.fallback.Convert(ctx, path)
	}
	return "", domainerrors.NewConversionError(filepath.Base(path), fmt.Errorf("no converter for %q", ext))
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
