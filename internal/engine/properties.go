package engine

import (
	"encoding/json"
	"path"
	"strconv"
	"strings"

	"github.com/cortexfs/synthfs/internal/vfs"
)

// ItemProperties is the get_item_properties payload: a small
// sectioned property sheet, the shape a host renders directly in a
// properties dialog without knowing anything about synthfs internals.
type ItemProperties struct {
	Version  int               `json:"version"`
	Title    string            `json:"title"`
	Sections []PropertySection `json:"sections"`
}

type PropertySection struct {
	Title  string           `json:"title"`
	Fields []PropertyField `json:"fields"`
}

// PropertyField's Value is typically a string, except for the
// optional directory-only childCount field, which reports JSON null
// (a nil interface{}) when the directory's children have not been
// generated yet rather than paying to generate them.
type PropertyField struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// GetItemProperties implements get_item_properties.
func (e *Engine) GetItemProperties(itemPath string) ([]byte, error) {
	v := e.VFS()

	attr, err := v.GetAttributes(itemPath)
	if err != nil {
		return nil, err
	}
	size, err := v.GetSize(itemPath)
	if err != nil {
		return nil, err
	}

	isDir := attr.Has(vfs.AttrDirectory)
	itemType := "file"
	fields := []PropertyField{
		{Key: "name", Value: baseName(itemPath)},
		{Key: "path", Value: itemPath},
	}
	if isDir {
		itemType = "directory"
	}
	fields = append(fields,
		PropertyField{Key: "type", Value: itemType},
		PropertyField{Key: "sizeBytes", Value: strconv.FormatUint(size, 10)},
	)

	if isDir {
		var childCount interface{}
		if count, generated, cerr := v.DirectoryChildCount(itemPath); cerr == nil && generated {
			childCount = strconv.Itoa(count)
		}
		fields = append(fields, PropertyField{Key: "childCount", Value: childCount})
	}

	props := ItemProperties{
		Version: 1,
		Title:   "properties",
		Sections: []PropertySection{
			{Title: "general", Fields: fields},
		},
	}
	b, err := json.Marshal(props)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func baseName(itemPath string) string {
	normalized := strings.ReplaceAll(itemPath, `\`, "/")
	return path.Base(normalized)
}
