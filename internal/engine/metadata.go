package engine

import "encoding/json"

// PluginMetadata is the get_metadata payload.
type PluginMetadata struct {
	ID          string `json:"id"`
	ShortID     string `json:"shortId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Author      string `json:"author"`
	Version     string `json:"version"`
}

var fixedMetadata = PluginMetadata{
	ID:          "com.cortexfs.synthfs",
	ShortID:     "synthfs",
	Name:        "Synthetic File System",
	Description: "Deterministic, seed-driven virtual file system for testing and demos",
	Author:      "cortexfs",
	Version:     "1.0.0",
}

// GetMetadata implements get_metadata.
func (e *Engine) GetMetadata() []byte {
	b, _ := json.Marshal(fixedMetadata)
	return b
}
