package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

type Storer[T ValidatingSpec] interface {
	Get(string) T
	GetAll() map[string]T
	Ids() []string
}

// FileStore loads every asset found under a directory tree. Files may be JSON
// (.json) or YAML (.yaml, .yml); both decode into the same Asset envelope.
type FileStore[T ValidatingSpec] struct {
	path    string
	schema  *jsonschema.Schema
	records map[string]T

	mu sync.RWMutex
}

type FileStoreOpt[T ValidatingSpec] func(*FileStore[T])

// WithSchema checks each asset document against schema before decoding it.
func WithSchema[T ValidatingSpec](schema *jsonschema.Schema) FileStoreOpt[T] {
	return func(s *FileStore[T]) {
		s.schema = schema
	}
}

func NewFileStore[T ValidatingSpec](path string, opts ...FileStoreOpt[T]) (*FileStore[T], error) {
	s := &FileStore[T]{
		path:    path,
		records: map[string]T{},
	}

	for _, opt := range opts {
		opt(s)
	}

	err := s.load()
	if err != nil {
		return nil, err
	}

	return s, nil
}

// CompileSchema compiles a JSON schema held in memory.
func CompileSchema(name, src string) (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(name, strings.NewReader(src)); err != nil {
		return nil, fmt.Errorf("adding schema %s: %w", name, err)
	}
	schema, err := c.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compiling schema %s: %w", name, err)
	}
	return schema, nil
}

func (s *FileStore[T]) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = map[string]T{}

	return filepath.Walk(s.path, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if info.IsDir() || !isAssetFile(path) {
			return nil
		}

		asset, err := s.loadAsset(path)
		if err != nil {
			return fmt.Errorf("loading %s: %w", filepath.Base(path), err)
		}

		err = asset.Validate()
		if err != nil {
			return fmt.Errorf("validating %s: %w", filepath.Base(path), err)
		}

		if _, ok := s.records[asset.Id()]; ok {
			return fmt.Errorf("duplicate key detected: %s", asset.Id())
		}

		s.records[asset.Id()] = asset.Spec
		return nil
	})
}

func isAssetFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func (s *FileStore[T]) Get(id string) T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.records[id]
	if !ok {
		var nilVal T
		return nilVal
	}

	return val
}

func (s *FileStore[T]) GetAll() map[string]T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vals := make(map[string]T, len(s.records))
	for id, v := range s.records {
		vals[id] = v
	}

	return vals
}

// Ids returns the loaded asset ids in sorted order.
func (s *FileStore[T]) Ids() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (s *FileStore[T]) loadAsset(path string) (*Asset[T], error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}

	// Ignoring close error - file is read-only, error is not actionable
	defer func() { _ = file.Close() }()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	jsonData, err := toJSON(path, raw)
	if err != nil {
		return nil, err
	}

	if s.schema != nil {
		var doc any
		if err := json.Unmarshal(jsonData, &doc); err != nil {
			return nil, fmt.Errorf("unmarshalling asset: %w", err)
		}
		if err := s.schema.Validate(doc); err != nil {
			return nil, fmt.Errorf("schema: %w", err)
		}
	}

	var spec T
	asset := &Asset[T]{
		Spec: spec,
	}
	err = json.Unmarshal(jsonData, asset)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling asset: %w", err)
	}

	return asset, nil
}

// toJSON normalizes YAML input to JSON so one decoder and one schema serve
// both formats.
func toJSON(path string, raw []byte) ([]byte, error) {
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return raw, nil
	}

	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("converting yaml to json: %w", err)
	}
	return data, nil
}
