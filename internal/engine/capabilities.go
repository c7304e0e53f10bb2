package engine

import "encoding/json"

// Capabilities is the get_capabilities payload: a fixed document
// describing which operations and cross-file-system transfers this
// plugin supports, plus its bulk-operation concurrency ceilings.
type Capabilities struct {
	Version         int                       `json:"version"`
	Operations      capabilityOperations      `json:"operations"`
	Concurrency     capabilityConcurrency     `json:"concurrency"`
	CrossFileSystem capabilityCrossFileSystem `json:"crossFileSystem"`
}

type capabilityOperations struct {
	Copy       bool `json:"copy"`
	Move       bool `json:"move"`
	Delete     bool `json:"delete"`
	Rename     bool `json:"rename"`
	Properties bool `json:"properties"`
	Read       bool `json:"read"`
	Write      bool `json:"write"`
}

type capabilityConcurrency struct {
	CopyMoveMax         int `json:"copyMoveMax"`
	DeleteMax           int `json:"deleteMax"`
	DeleteRecycleBinMax int `json:"deleteRecycleBinMax"`
}

type capabilityCrossFileSystem struct {
	Export capabilityTransferSet `json:"export"`
	Import capabilityTransferSet `json:"import"`
}

type capabilityTransferSet struct {
	Copy []string `json:"copy"`
	Move []string `json:"move"`
}

// fixedCapabilities is the only Capabilities value this plugin ever
// reports; concurrency ceilings here are descriptive of what the host
// may assume, not an enforced limit inside opengine.Engine itself.
var fixedCapabilities = Capabilities{
	Version: 1,
	Operations: capabilityOperations{
		Copy: true, Move: true, Delete: true, Rename: true,
		Properties: true, Read: true, Write: true,
	},
	Concurrency: capabilityConcurrency{
		CopyMoveMax:         4,
		DeleteMax:           8,
		DeleteRecycleBinMax: 2,
	},
	CrossFileSystem: capabilityCrossFileSystem{
		Export: capabilityTransferSet{Copy: []string{"*"}, Move: []string{"*"}},
		Import: capabilityTransferSet{Copy: []string{"*"}, Move: []string{"*"}},
	},
}

// GetCapabilities implements get_capabilities.
func (e *Engine) GetCapabilities() []byte {
	b, _ := json.Marshal(fixedCapabilities)
	return b
}
