package config

import (
	"bytes"
	"fmt"

	"github.com/prettymuchbryce/autorename/internal/pathutil"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const folderValuesKey = "folder_values"

// FolderValue assigns the {custom} template value to notes under Folder.
type FolderValue struct {
	Folder string
	Value  string
}

// FolderValues is an ordered folder → value table.
// It decodes from a YAML mapping and keeps the document order, which decides
// ties between equally deep matches.
type FolderValues []FolderValue

// UnmarshalYAML decodes a mapping while preserving key order.
func (f *FolderValues) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*f = nil
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("folder_values must be a mapping, got %v", node.Kind)
	}

	values := make(FolderValues, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var fv FolderValue
		if err := node.Content[i].Decode(&fv.Folder); err != nil {
			return fmt.Errorf("failed to decode folder: %w", err)
		}
		if err := node.Content[i+1].Decode(&fv.Value); err != nil {
			return fmt.Errorf("failed to decode value for %q: %w", fv.Folder, err)
		}
		values.Set(fv.Folder, fv.Value)
	}

	*f = values
	return nil
}

// MarshalYAML encodes the table as a mapping in table order.
func (f FolderValues) MarshalYAML() (any, error) {
	return f.node(), nil
}

func (f FolderValues) node() *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, fv := range f {
		n.Content = append(n.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: fv.Folder},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: fv.Value},
		)
	}
	return n
}

// Get returns the value stored for folder.
func (f FolderValues) Get(folder string) (string, bool) {
	for _, fv := range f {
		if fv.Folder == folder {
			return fv.Value, true
		}
	}
	return "", false
}

// Set replaces the value for folder, or appends it when missing.
func (f *FolderValues) Set(folder, value string) {
	for i := range *f {
		if (*f)[i].Folder == folder {
			(*f)[i].Value = value
			return
		}
	}
	*f = append(*f, FolderValue{Folder: folder, Value: value})
}

// Delete removes folder from the table and reports whether it was present.
func (f *FolderValues) Delete(folder string) bool {
	for i := range *f {
		if (*f)[i].Folder == folder {
			*f = append((*f)[:i], (*f)[i+1:]...)
			return true
		}
	}
	return false
}

// SaveFolderValues rewrites only the folder_values section of the config file
// at path, keeping the rest of the document (comments included) as is.
func SaveFolderValues(afs afero.Fs, path string, values FolderValues) error {
	expanded := pathutil.ExpandTilde(path)

	data, err := afero.ReadFile(afs, expanded)
	if err != nil {
		return err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse %s: %w", expanded, err)
	}

	// An empty file decodes to a zero node
	if doc.Kind == 0 {
		doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("config %s is not a mapping", expanded)
	}

	root := doc.Content[0]
	replaced := false
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == folderValuesKey {
			root.Content[i+1] = values.node()
			replaced = true
			break
		}
	}
	if !replaced {
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: folderValuesKey},
			values.node(),
		)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}

	return afero.WriteFile(afs, expanded, buf.Bytes(), 0644)
}
