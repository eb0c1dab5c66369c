// Package uploads validates IFC uploads, archives them and keeps a receipt
// of every attempt.
package uploads

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/carbonview/dashboard/internal/domain"
)

const ifcExt = ".ifc"

// RejectedError explains why an upload was refused before reaching the
// backend. It matches domain.ErrInvalidUpload.
type RejectedError struct {
	Reason string
}

func reject(reason string) error { return &RejectedError{Reason: reason} }

func (e *RejectedError) Error() string      { return "invalid upload: " + e.Reason }
func (e *RejectedError) UserDetail() string { return e.Reason }
func (e *RejectedError) Unwrap() error      { return domain.ErrInvalidUpload }

// File is a validated, fully buffered upload.
type File struct {
	Name    string
	Content []byte
	SHA256  string
}

func (f *File) Size() int64 { return int64(len(f.Content)) }

// Read buffers r, hashing it on the way, and validates the result. maxBytes
// <= 0 disables the size limit.
func Read(name string, r io.Reader, maxBytes int64) (*File, error) {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == string(filepath.Separator) || name == "" {
		return nil, reject("file name is required")
	}
	if !strings.EqualFold(filepath.Ext(name), ifcExt) {
		return nil, reject("only .ifc files are accepted")
	}

	if maxBytes > 0 {
		r = io.LimitReader(r, maxBytes+1)
	}
	h := sha256.New()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.TeeReader(r, h)); err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	if buf.Len() == 0 {
		return nil, reject("file is empty")
	}
	if maxBytes > 0 && int64(buf.Len()) > maxBytes {
		return nil, reject(fmt.Sprintf("file exceeds %d MB", maxBytes>>20))
	}

	return &File{Name: name, Content: buf.Bytes(), SHA256: hex.EncodeToString(h.Sum(nil))}, nil
}
