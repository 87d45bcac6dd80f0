package actor

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"

	"github.com/kubiyabot/actor-sdk/apiclient"
	"github.com/kubiyabot/actor-sdk/apiclient/entities"
)

var recordKeyPattern = regexp.MustCompile(`^[a-zA-Z0-9!\-_.'()]{1,256}$`)

// Store reads and writes the records of one key-value store
type Store interface {
	// GetValue returns the record stored under key, or nil if there is none.
	GetValue(ctx context.Context, key string) (*entities.Record, error)

	// SetValue stores value under key; a nil value deletes the record.
	// Strings and []byte need a contentType, other values are stored as JSON.
	SetValue(ctx context.Context, key string, value interface{}, contentType string) error
}

// recordAPI is the part of *apiclient.Client used by the remote store
type recordAPI interface {
	GetRecord(ctx context.Context, req *entities.GetRecordRequest) (*entities.Record, error)
	PutRecord(ctx context.Context, req *entities.PutRecordRequest) error
	DeleteRecord(ctx context.Context, storeID, key, token string) error
}

// OpenDefaultStore opens the run's default key-value store. On the platform
// (APIFY_TOKEN and APIFY_DEFAULT_KEY_VALUE_STORE_ID set) it uses the API,
// otherwise it uses files under APIFY_LOCAL_STORAGE_DIR.
func OpenDefaultStore(lookup LookupFunc, fs afero.Fs) (Store, error) {
	env := GetEnvFrom(lookup)

	if env.Token != nil && env.DefaultKeyValueStoreID != nil {
		return NewRemoteStore(apiclient.New(*env.Token), *env.DefaultKeyValueStoreID), nil
	}

	dir, ok := lookup(EnvLocalStorageDir)
	if !ok || dir == "" {
		return nil, fmt.Errorf("cannot open the default key-value store: set %s, or both %s and %s",
			EnvLocalStorageDir, EnvToken, EnvDefaultKeyValueStoreID)
	}

	storeID := "default"
	if env.DefaultKeyValueStoreID != nil {
		storeID = *env.DefaultKeyValueStoreID
	}
	return NewLocalStore(fs, filepath.Join(dir, "key_value_stores", storeID)), nil
}

// GetValue reads key from the default key-value store
func GetValue(ctx context.Context, key string) (*entities.Record, error) {
	store, err := OpenDefaultStore(os.LookupEnv, afero.NewOsFs())
	if err != nil {
		return nil, err
	}
	return store.GetValue(ctx, key)
}

// SetValue writes key to the default key-value store
func SetValue(ctx context.Context, key string, value interface{}, contentType string) error {
	store, err := OpenDefaultStore(os.LookupEnv, afero.NewOsFs())
	if err != nil {
		return err
	}
	return store.SetValue(ctx, key, value, contentType)
}

func validateRecordKey(key string) error {
	if !recordKeyPattern.MatchString(key) {
		return invalid("key", "%q must be 1-256 characters of letters, digits and !-_.'()", key)
	}
	return nil
}

// RemoteStore is a key-value store accessed through the platform API
type RemoteStore struct {
	api     recordAPI
	storeID string
}

// NewRemoteStore returns a Store for storeID
func NewRemoteStore(api recordAPI, storeID string) *RemoteStore {
	return &RemoteStore{api: api, storeID: storeID}
}

// GetValue implements Store
func (s *RemoteStore) GetValue(ctx context.Context, key string) (*entities.Record, error) {
	if err := validateRecordKey(key); err != nil {
		return nil, err
	}
	return s.api.GetRecord(ctx, &entities.GetRecordRequest{StoreID: s.storeID, Key: key})
}

// SetValue implements Store
func (s *RemoteStore) SetValue(ctx context.Context, key string, value interface{}, contentType string) error {
	if err := validateRecordKey(key); err != nil {
		return err
	}
	if value == nil {
		return s.api.DeleteRecord(ctx, s.storeID, key, "")
	}

	body, ct, err := encodeValue(value, contentType)
	if err != nil {
		return err
	}
	return s.api.PutRecord(ctx, &entities.PutRecordRequest{
		StoreID:     s.storeID,
		Key:         key,
		ContentType: ct,
		Body:        body,
	})
}

// LocalStore keeps records as files named <key>.<extension> in one directory
type LocalStore struct {
	fs  afero.Fs
	dir string
}

// NewLocalStore returns a Store backed by dir on fs
func NewLocalStore(fs afero.Fs, dir string) *LocalStore {
	return &LocalStore{fs: fs, dir: dir}
}

// GetValue implements Store
func (s *LocalStore) GetValue(_ context.Context, key string) (*entities.Record, error) {
	if err := validateRecordKey(key); err != nil {
		return nil, err
	}

	matches, err := s.files(key)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}

	path := matches[0]
	raw, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read record %s: %w", key, err)
	}

	contentType := contentTypeForExtension(filepath.Ext(path))
	body, err := entities.ParseRecordBody(contentType, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse record %s: %w", key, err)
	}

	return &entities.Record{Key: key, ContentType: contentType, Body: body}, nil
}

// SetValue implements Store
func (s *LocalStore) SetValue(_ context.Context, key string, value interface{}, contentType string) error {
	if err := validateRecordKey(key); err != nil {
		return err
	}

	var body []byte
	var ct string
	if value != nil {
		var err error
		body, ct, err = encodeValue(value, contentType)
		if err != nil {
			return err
		}
	}

	existing, err := s.files(key)
	if err != nil {
		return err
	}
	for _, path := range existing {
		if err := s.fs.Remove(path); err != nil {
			return fmt.Errorf("failed to remove record %s: %w", key, err)
		}
	}
	if value == nil {
		return nil
	}

	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	path := filepath.Join(s.dir, key+"."+extensionForContentType(ct))
	if err := afero.WriteFile(s.fs, path, body, 0o644); err != nil {
		return fmt.Errorf("failed to write record %s: %w", key, err)
	}
	return nil
}

func (s *LocalStore) files(key string) ([]string, error) {
	matches, err := afero.Glob(s.fs, filepath.Join(s.dir, key+".*"))
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	// "a.*" also matches the files of key "a.b"
	files := matches[:0]
	for _, m := range matches {
		if strings.TrimSuffix(filepath.Base(m), filepath.Ext(m)) == key {
			files = append(files, m)
		}
	}
	return files, nil
}

var extensionsByMediaType = map[string]string{
	"application/json":         "json",
	"text/plain":               "txt",
	"text/html":                "html",
	"text/csv":                 "csv",
	"application/xml":          "xml",
	"image/png":                "png",
	"image/jpeg":               "jpg",
	"application/pdf":          "pdf",
	"application/octet-stream": "bin",
}

func extensionForContentType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "bin"
	}
	if ext, ok := extensionsByMediaType[strings.ToLower(mediaType)]; ok {
		return ext
	}
	return "bin"
}

func contentTypeForExtension(ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	for mediaType, e := range extensionsByMediaType {
		if e == ext {
			if mediaType == "application/json" || strings.HasPrefix(mediaType, "text/") {
				return mediaType + charsetSuffix
			}
			return mediaType
		}
	}
	return "application/octet-stream"
}
