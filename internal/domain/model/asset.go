package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Extension is a normalized (lowercase, no leading dot) image file extension.
type Extension string

const (
	ExtJPG  Extension = "jpg"
	ExtJPEG Extension = "jpeg"
	ExtPNG  Extension = "png"
	ExtGIF  Extension = "gif"
	ExtBMP  Extension = "bmp"
	ExtWEBP Extension = "webp"
)

// contentTypes is the closed extension -> MIME mapping. Anything outside
// this table resolves to application/octet-stream and is rejected at
// write time.
var contentTypes = map[Extension]string{
	ExtJPG:  "image/jpeg",
	ExtJPEG: "image/jpeg",
	ExtPNG:  "image/png",
	ExtGIF:  "image/gif",
	ExtBMP:  "image/bmp",
	ExtWEBP: "image/webp",
}

const DefaultContentType = "application/octet-stream"

// NormalizeExtension lowercases ext and strips a leading dot.
func NormalizeExtension(ext string) Extension {
	return Extension(strings.ToLower(strings.TrimPrefix(ext, ".")))
}

// ExtensionOf extracts the normalized extension from a file name or
// storage key. Returns "" if the name has no extension.
func ExtensionOf(name string) Extension {
	idx := strings.LastIndex(name, ".")
	if idx < 0 || idx == len(name)-1 {
		return ""
	}
	return NormalizeExtension(name[idx+1:])
}

func (e Extension) IsAllowed() bool {
	_, ok := contentTypes[e]
	return ok
}

// ContentType returns the MIME type for the extension, falling back to
// application/octet-stream for anything outside the allow-list.
func (e Extension) ContentType() string {
	if ct, ok := contentTypes[e]; ok {
		return ct
	}
	return DefaultContentType
}

func (e Extension) String() string {
	return string(e)
}

// Asset represents one stored image: the bytes live in the object store
// under StorageKey, the metadata lives in the asset index.
type Asset struct {
	ID               uuid.UUID
	Name             string
	OriginalFileName string
	Location         LocationPath
	StorageKey       string
	SizeBytes        int64
	ContentType      string
	Extension        Extension
	Description      string
	Tags             string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

var (
	ErrEmptyName           = errors.New("asset name cannot be empty")
	ErrEmptyFile           = errors.New("file content cannot be empty")
	ErrExtensionNotAllowed = errors.New("file extension is not allowed")
	ErrNameTooLong         = errors.New("asset name exceeds maximum length of 255 characters")
)

const maxNameLength = 255

// NewAsset creates a new Asset with its storage key derived from the
// location path and name. The extension is taken from fileName, never
// from name: a caller-supplied stem with a trailing extension has it
// stripped during key derivation.
func NewAsset(name string, loc LocationPath, fileName string, sizeBytes int64) (*Asset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if len(name) > maxNameLength {
		return nil, ErrNameTooLong
	}
	if sizeBytes <= 0 {
		return nil, ErrEmptyFile
	}
	ext := ExtensionOf(fileName)
	if !ext.IsAllowed() {
		return nil, ErrExtensionNotAllowed
	}
	if err := loc.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Asset{
		Name:             name,
		OriginalFileName: fileName,
		Location:         loc,
		StorageKey:       loc.StorageKey(name, ext),
		SizeBytes:        sizeBytes,
		ContentType:      ext.ContentType(),
		Extension:        ext,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// Rename moves the asset to a new name and/or location, recomputing the
// storage key. The extension is preserved.
func (a *Asset) Rename(name string, loc LocationPath) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > maxNameLength {
		return ErrNameTooLong
	}
	if err := loc.Validate(); err != nil {
		return err
	}
	a.Name = name
	a.Location = loc
	a.StorageKey = loc.StorageKey(name, a.Extension)
	a.UpdatedAt = time.Now()
	return nil
}

// ReplaceContent records a new uploaded file for the asset. The storage
// key is recomputed because the extension may change with the new file.
func (a *Asset) ReplaceContent(fileName string, sizeBytes int64) error {
	if sizeBytes <= 0 {
		return ErrEmptyFile
	}
	ext := ExtensionOf(fileName)
	if !ext.IsAllowed() {
		return ErrExtensionNotAllowed
	}
	a.OriginalFileName = fileName
	a.Extension = ext
	a.ContentType = ext.ContentType()
	a.SizeBytes = sizeBytes
	a.StorageKey = a.Location.StorageKey(a.Name, ext)
	a.UpdatedAt = time.Now()
	return nil
}
