package types

import "strings"

// BuildFolderStructure derives the folder tree for a document list from the
// forward-slash FolderID paths. Rebuilding from the same list yields a
// structurally equal tree: folders appear in first-seen order, files in
// document order.
func BuildFolderStructure(documents []*Document) []*Folder {
	folders := make(map[string]*Folder)
	var rootFolders []*Folder

	for _, doc := range documents {
		if doc.FolderID == "" {
			continue
		}

		parts := strings.Split(doc.FolderID, "/")
		currentPath := ""

		for _, part := range parts {
			if part == "" {
				continue
			}

			parentPath := currentPath
			if currentPath == "" {
				currentPath = part
			} else {
				currentPath = currentPath + "/" + part
			}

			if _, exists := folders[currentPath]; !exists {
				folder := &Folder{
					ID:      currentPath,
					Name:    part,
					Folders: []*Folder{},
					Files:   []string{},
				}
				folders[currentPath] = folder

				if parentPath != "" {
					if parent, ok := folders[parentPath]; ok {
						parent.Folders = append(parent.Folders, folder)
					}
				} else {
					rootFolders = append(rootFolders, folder)
				}
			}
		}
	}

	// Attach files after all folders exist
	for _, doc := range documents {
		if folder, ok := folders[doc.FolderID]; ok {
			folder.Files = append(folder.Files, doc.ID)
		}
	}

	return rootFolders
}
