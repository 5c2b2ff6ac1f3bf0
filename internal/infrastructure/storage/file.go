// Package storage obtiene la planilla de gastos desde disco o desde un bucket S3.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileSource planilla en el sistema de archivos local (EXPENSES_PATH).
type FileSource struct {
	Path string
}

// NewFileSource crea la fuente.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Open abre el archivo. El nombre devuelto conserva la extensión para elegir el formato.
func (s *FileSource) Open(_ context.Context) (io.ReadCloser, string, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, "", fmt.Errorf("abrir planilla %s: %w", s.Path, err)
	}
	return f, filepath.Base(s.Path), nil
}
