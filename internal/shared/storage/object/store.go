package object

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// sniffLen matches mimetype's default read limit.
const sniffLen = 3072

// ObjectStore defines the contract for saving and retrieving binary objects.
type ObjectStore interface {
	// Save stores an upload under UploadKey(owner, resumeID, fileName).
	Save(ctx context.Context, owner, resumeID, fileName string, r io.Reader) (Object, error)
	// SaveWithKey stores data at an exact key.
	SaveWithKey(ctx context.Context, storageKey, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}

// Object describes a stored upload.
type Object struct {
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimeType"`
}

// UploadKey builds uploads/<hash(owner)>/<resumeID>_<fileName>.
func UploadKey(owner, resumeID, fileName string) (string, error) {
	name, err := safeFileName(fileName)
	if err != nil {
		return "", err
	}
	if resumeID == "" || strings.ContainsAny(resumeID, `/\.`) {
		return "", ErrInvalidKey
	}
	if owner == "" {
		owner = "anonymous"
	}
	return path.Join("uploads", ownerKey(owner), resumeID+"_"+name), nil
}

// ErrInvalidKey is returned for file names or IDs that cannot form a safe key.
var ErrInvalidKey = errors.New("invalid object key")

// ownerKey hides user and guest IDs behind a stable hex digest.
func ownerKey(owner string) string {
	sum := sha256.Sum256([]byte(owner))
	return hex.EncodeToString(sum[:16])
}

// safeFileName flattens path separators and rejects traversal.
func safeFileName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.Contains(name, "..") {
		return "", fmt.Errorf("%w: file name %q", ErrInvalidKey, name)
	}
	name = strings.NewReplacer("/", "_", "\\", "_").Replace(name)
	return name, nil
}

// ExtractedKey is where the extracted text of an upload is kept.
func ExtractedKey(uploadKey string) string {
	return uploadKey + ".extracted.txt"
}

// Sniff reads the head of r to detect its MIME type and returns a reader that replays it.
func Sniff(r io.Reader) (string, io.Reader, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", nil, fmt.Errorf("read sniff: %w", err)
	}
	head = head[:n]
	return mimetype.Detect(head).String(), io.MultiReader(bytes.NewReader(head), r), nil
}
