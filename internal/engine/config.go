package engine

import (
	"github.com/cortexfs/synthfs/internal/opengine"
	"github.com/cortexfs/synthfs/internal/vfs"
	"github.com/cortexfs/synthfs/internal/vfsconfig"
)

// configSchema is the fixed JSON Schema document get_config_schema
// returns, describing the Configuration JSON shape.
const configSchema = `{
  "type": "object",
  "properties": {
    "maxChildrenPerDirectory": {"type": "integer", "minimum": 0, "maximum": 20000},
    "maxDepth": {"type": "integer", "minimum": 0, "maximum": 1024},
    "seed": {"type": "integer", "minimum": 0, "maximum": 4294967295},
    "latencyMs": {"type": "integer", "minimum": 0, "maximum": 1000},
    "virtualSpeedLimit": {"type": "string"}
  },
  "additionalProperties": false
}`

// GetConfigSchema implements get_config_schema.
func (e *Engine) GetConfigSchema() []byte {
	return []byte(configSchema)
}

// GetConfig implements get_config. Reading the configuration is
// assumed to be paired with persisting it host-side, so it clears the
// dirty bit SomethingToSave reports.
func (e *Engine) GetConfig() []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dirty = false
	return e.cfg.ToJSON()
}

// SetConfig implements set_config. A change to MaxChildrenPerDirectory,
// MaxDepth or Seed (vfsconfig.C.Changed) drops and recreates the whole
// VFS, since the generator and its per-node Mersenne-Twister streams
// capture those fields by value at construction and have no in-place
// setter; a change to only LatencyMs/VirtualSpeedLimit still rebuilds
// the operation engine (which likewise captures cfg by value) but
// leaves the tree and all already-materialized content untouched.
func (e *Engine) SetConfig(data []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	// Merge onto the live configuration, not Default(): a partial
	// payload (e.g. {"latencyMs":5}) must leave every field it doesn't
	// mention, such as VirtualSpeedLimit, exactly as it was.
	newCfg, err := vfsconfig.FromJSON(e.cfg, data)
	if err != nil {
		return err
	}

	if e.cfg.Changed(newCfg) {
		log.WithField("owner", e.owner).Info("configuration change forces tree drop and reseed")
		e.v = vfs.New(e.owner, newCfg, e.tick)
	}
	e.ops = opengine.New(e.v, newCfg)
	e.cfg = newCfg
	e.dirty = true
	return nil
}

// SomethingToSave implements something_to_save.
func (e *Engine) SomethingToSave() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dirty
}

// Config returns the live configuration snapshot, for callers
// (DriveInfo, bulk operation wiring) that need individual fields
// rather than the serialized document.
func (e *Engine) Config() vfsconfig.C {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}
