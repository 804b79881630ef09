package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pixil98/go-testutil"
)

type mockStoreSpec struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

func (s *mockStoreSpec) Validate() error {
	return nil
}

const mockSchema = `{
  "type": "object",
  "required": ["version", "id", "spec"],
  "properties": {
    "spec": {
      "type": "object",
      "required": ["name"],
      "properties": {
        "name": {"type": "string"},
        "value": {"type": "integer", "minimum": 0}
      }
    }
  }
}`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644)
	if err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
}

func TestNewFileStore(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewFileStore[*mockStoreSpec](tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "path", store.path, tmpDir)
	testutil.AssertEqual(t, "records length", len(store.records), 0)
}

func TestNewFileStore_NonExistentDirectory(t *testing.T) {
	_, err := NewFileStore[*mockStoreSpec]("/nonexistent/path/that/does/not/exist")
	if err == nil {
		t.Error("expected error for non-existent directory")
	}
}

func TestNewFileStore_Formats(t *testing.T) {
	tests := map[string]struct {
		file    string
		content string
		expErr  string
	}{
		"json": {
			file:    "spawn.json",
			content: `{"version": 1, "id": "spawn", "spec": {"name": "First", "value": 1}}`,
		},
		"yaml": {
			file:    "spawn.yaml",
			content: "version: 1\nid: spawn\nspec:\n  name: First\n  value: 1\n",
		},
		"yml": {
			file:    "spawn.yml",
			content: "version: 1\nid: spawn\nspec:\n  name: First\n  value: 1\n",
		},
		"invalid json": {
			file:    "bad.json",
			content: `{invalid json`,
			expErr:  "unmarshalling asset",
		},
		"invalid yaml": {
			file:    "bad.yaml",
			content: "version: [1\n",
			expErr:  "unmarshalling yaml",
		},
		"failed validation": {
			file:    "spawn.json",
			content: `{"version": 0, "id": "spawn", "spec": {"name": "First"}}`,
			expErr:  "version must be set",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tmpDir := t.TempDir()
			writeFile(t, tmpDir, tt.file, tt.content)

			store, err := NewFileStore[*mockStoreSpec](tmpDir)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			spec := store.Get("spawn")
			if spec == nil {
				t.Fatal("expected spawn to be loaded")
			}
			testutil.AssertEqual(t, "name", spec.Name, "First")
			testutil.AssertEqual(t, "value", spec.Value, 1)
		})
	}
}

func TestNewFileStore_Schema(t *testing.T) {
	schema, err := CompileSchema("mock.schema.json", mockSchema)
	if err != nil {
		t.Fatalf("compiling schema: %v", err)
	}

	tests := map[string]struct {
		content string
		expErr  string
	}{
		"conforming": {
			content: `{"version": 1, "id": "spawn", "spec": {"name": "First", "value": 1}}`,
		},
		"missing name": {
			content: `{"version": 1, "id": "spawn", "spec": {"value": 1}}`,
			expErr:  "schema",
		},
		"negative value": {
			content: `{"version": 1, "id": "spawn", "spec": {"name": "First", "value": -1}}`,
			expErr:  "schema",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tmpDir := t.TempDir()
			writeFile(t, tmpDir, "spawn.json", tt.content)

			_, err := NewFileStore(tmpDir, WithSchema[*mockStoreSpec](schema))
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCompileSchema_Invalid(t *testing.T) {
	_, err := CompileSchema("bad.schema.json", `{"type": `)
	if err == nil {
		t.Error("expected error for invalid schema")
	}
}

func TestNewFileStore_DuplicateKey(t *testing.T) {
	tmpDir := t.TempDir()

	subDir := filepath.Join(tmpDir, "subdir")
	err := os.Mkdir(subDir, 0755)
	if err != nil {
		t.Fatalf("failed to create subdir: %v", err)
	}

	writeFile(t, tmpDir, "file1.json", `{"version": 1, "id": "duplicate-id", "spec": {"name": "A"}}`)
	writeFile(t, subDir, "file2.yaml", "version: 1\nid: duplicate-id\nspec:\n  name: B\n")

	_, err = NewFileStore[*mockStoreSpec](tmpDir)
	testutil.AssertErrorContains(t, err, "duplicate key detected")
}

func TestNewFileStore_IgnoresOtherFiles(t *testing.T) {
	tmpDir := t.TempDir()

	writeFile(t, tmpDir, "valid.json", `{"version": 1, "id": "valid", "spec": {"name": "Valid"}}`)
	writeFile(t, tmpDir, "readme.txt", "ignore me")
	writeFile(t, tmpDir, "notes.md", "# ignore me")

	store, err := NewFileStore[*mockStoreSpec](tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "record count", len(store.records), 1)
}

func TestFileStore_Get(t *testing.T) {
	store, err := NewFileStore[*mockStoreSpec](t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}
	store.records = map[string]*mockStoreSpec{
		"existing": {Name: "Test", Value: 42},
	}

	tests := map[string]struct {
		id       string
		expNil   bool
		expName  string
		expValue int
	}{
		"get existing record": {
			id:       "existing",
			expName:  "Test",
			expValue: 42,
		},
		"get non-existing record": {
			id:     "nonexistent",
			expNil: true,
		},
		"get empty id": {
			id:     "",
			expNil: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			result := store.Get(tt.id)

			if tt.expNil {
				if result != nil {
					t.Errorf("expected nil, got %v", result)
				}
				return
			}
			if result == nil {
				t.Fatal("expected non-nil result")
			}
			testutil.AssertEqual(t, "name", result.Name, tt.expName)
			testutil.AssertEqual(t, "value", result.Value, tt.expValue)
		})
	}
}

func TestFileStore_GetAllAndIds(t *testing.T) {
	store, err := NewFileStore[*mockStoreSpec](t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}
	store.records = map[string]*mockStoreSpec{
		"street1": {Name: "Two"},
		"spawn":   {Name: "Zero"},
		"street0": {Name: "One"},
	}

	all := store.GetAll()
	testutil.AssertEqual(t, "count", len(all), 3)

	delete(all, "spawn")
	testutil.AssertEqual(t, "copy", len(store.records), 3)

	ids := store.Ids()
	testutil.AssertEqual(t, "id count", len(ids), 3)
	testutil.AssertEqual(t, "first", ids[0], "spawn")
	testutil.AssertEqual(t, "second", ids[1], "street0")
	testutil.AssertEqual(t, "third", ids[2], "street1")
}
