package storage

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ErrAssetNotFound reports a reference whose file is absent from the asset root.
var ErrAssetNotFound = errors.New("branding asset not found")

// BrandingFile is the transport form of a branding asset.
type BrandingFile struct {
	Fname string `json:"fname"`
	Data  string `json:"data"`
}

type blobStore interface {
	Save(name string, data []byte) (string, error)
	Read(name string) ([]byte, error)
	Delete(name string) error
}

// BrandingStore keeps branding blobs under "<uuid>_<name>" references.
type BrandingStore struct {
	files   blobStore
	newUUID func() string
}

// NewBrandingStore wraps a blob store.
func NewBrandingStore(files blobStore) *BrandingStore {
	return &BrandingStore{files: files, newUUID: uuid.NewString}
}

// Save decodes the base64 payload and writes it under a fresh reference which it returns.
func (s *BrandingStore) Save(name, payload string) (string, error) {
	data, err := DecodeBase64(payload)
	if err != nil {
		return "", fmt.Errorf("decode branding payload: %w", err)
	}
	ref := fmt.Sprintf("%s_%s", s.newUUID(), CleanName(name))
	if _, err := s.files.Save(ref, data); err != nil {
		return "", fmt.Errorf("save branding asset: %w", err)
	}
	return ref, nil
}

// Load reads the referenced asset and returns its display name and base64 content.
func (s *BrandingStore) Load(ref string) (*BrandingFile, error) {
	data, err := s.files.Read(ref)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, ref)
		}
		return nil, fmt.Errorf("load branding asset: %w", err)
	}
	return &BrandingFile{
		Fname: DisplayName(ref),
		Data:  base64.StdEncoding.EncodeToString(data),
	}, nil
}

// Read returns the raw bytes of a referenced asset.
func (s *BrandingStore) Read(ref string) ([]byte, error) {
	data, err := s.files.Read(ref)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, ref)
		}
		return nil, fmt.Errorf("read branding asset: %w", err)
	}
	return data, nil
}

// Delete removes a referenced asset; missing files are not an error.
func (s *BrandingStore) Delete(ref string) error {
	return s.files.Delete(ref)
}

// DisplayName recovers the original filename of a reference.
// References written by Save carry a UUID prefix which is stripped as a whole,
// so they keep inner underscores and are not last-underscore compatible;
// anything else keeps only what follows the last underscore.
func DisplayName(ref string) string {
	base := path.Base(ref)
	if len(base) > 37 && base[36] == '_' {
		if _, err := uuid.Parse(base[:36]); err == nil {
			return base[37:]
		}
	}
	if idx := strings.LastIndex(base, "_"); idx >= 0 {
		return base[idx+1:]
	}
	return base
}

// DecodeBase64 accepts padded and unpadded standard encodings.
func DecodeBase64(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if data, err := base64.StdEncoding.DecodeString(payload); err == nil {
		return data, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
}

// CleanName reduces name to the base name an asset is stored under.
func CleanName(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = path.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == "/" || name == ".." {
		return "asset"
	}
	return name
}
