package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBuildFolderStructure tests folder tree derivation from FolderID paths
func TestBuildFolderStructure(t *testing.T) {
	tests := []struct {
		name        string
		docs        []*Document
		wantRoots   []string
		wantFiles   map[string][]string
		wantNesting map[string][]string
	}{
		{
			name: "two sibling folders",
			docs: []*Document{
				{ID: "a/x.txt", FolderID: "a"},
				{ID: "b/y.txt", FolderID: "b"},
			},
			wantRoots: []string{"a", "b"},
			wantFiles: map[string][]string{
				"a": {"a/x.txt"},
				"b": {"b/y.txt"},
			},
		},
		{
			name: "nested folders",
			docs: []*Document{
				{ID: "a/b/x.txt", FolderID: "a/b"},
				{ID: "a/y.txt", FolderID: "a"},
			},
			wantRoots: []string{"a"},
			wantFiles: map[string][]string{
				"a/b": {"a/b/x.txt"},
				"a":   {"a/y.txt"},
			},
			wantNesting: map[string][]string{
				"a": {"a/b"},
			},
		},
		{
			name: "root documents produce no folders",
			docs: []*Document{
				{ID: "x.txt", FolderID: ""},
			},
			wantRoots: nil,
		},
		{
			name:      "empty document list",
			docs:      nil,
			wantRoots: nil,
		},
		{
			name: "folders in first-seen order",
			docs: []*Document{
				{ID: "z/1.txt", FolderID: "z"},
				{ID: "a/2.txt", FolderID: "a"},
				{ID: "z/3.txt", FolderID: "z"},
			},
			wantRoots: []string{"z", "a"},
			wantFiles: map[string][]string{
				"z": {"z/1.txt", "z/3.txt"},
				"a": {"a/2.txt"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roots := BuildFolderStructure(tt.docs)

			var rootIDs []string
			for _, f := range roots {
				rootIDs = append(rootIDs, f.ID)
			}
			assert.Equal(t, tt.wantRoots, rootIDs)

			byID := indexFolders(roots)
			for id, files := range tt.wantFiles {
				folder, ok := byID[id]
				require.True(t, ok, "folder %s missing", id)
				assert.Equal(t, files, folder.Files)
			}
			for id, children := range tt.wantNesting {
				folder, ok := byID[id]
				require.True(t, ok)
				var childIDs []string
				for _, c := range folder.Folders {
					childIDs = append(childIDs, c.ID)
				}
				assert.Equal(t, children, childIDs)
			}
		})
	}
}

// TestBuildFolderStructureIdempotent verifies rebuilding from the same list
// yields a structurally equal tree
func TestBuildFolderStructureIdempotent(t *testing.T) {
	docs := []*Document{
		{ID: "a/x.txt", FolderID: "a"},
		{ID: "a/b/y.txt", FolderID: "a/b"},
		{ID: "c/z.txt", FolderID: "c"},
		{ID: "root.txt", FolderID: ""},
	}

	first := BuildFolderStructure(docs)
	second := BuildFolderStructure(docs)
	assert.Equal(t, first, second)
}

// TestFolderNames verifies the folder name is the last path segment
func TestFolderNames(t *testing.T) {
	docs := []*Document{
		{ID: "docs/guides/intro.md", FolderID: "docs/guides"},
	}

	roots := BuildFolderStructure(docs)
	require.Len(t, roots, 1)
	assert.Equal(t, "docs", roots[0].Name)
	require.Len(t, roots[0].Folders, 1)
	assert.Equal(t, "guides", roots[0].Folders[0].Name)
	assert.Equal(t, "docs/guides", roots[0].Folders[0].ID)
}

func indexFolders(roots []*Folder) map[string]*Folder {
	byID := make(map[string]*Folder)
	var walk func([]*Folder)
	walk = func(folders []*Folder) {
		for _, f := range folders {
			byID[f.ID] = f
			walk(f.Folders)
		}
	}
	walk(roots)
	return byID
}
