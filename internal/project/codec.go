package project

import (
	"encoding/json"
	"fmt"
)

// SchemaVersion is the current shape version of a persisted project.
// Bump it together with an entry in schemaMigrations whenever the
// serialized Project shape changes between tool runs.
const SchemaVersion = 1

// envelope wraps the serialized project with an explicit schema version so
// older payloads can be migrated forward instead of silently assumed
// compatible.
type envelope struct {
	SchemaVersion int             `json:"schemaVersion"`
	Project       json.RawMessage `json:"project"`
}

// schemaMigrations maps a payload version to the function that rewrites it
// to version+1. Empty today; version-2 work adds its entry here.
var schemaMigrations = map[int]func(json.RawMessage) (json.RawMessage, error){}

// Encode serializes a project inside the versioned envelope.
func Encode(p Project) ([]byte, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode project: %w", err)
	}
	return json.Marshal(envelope{SchemaVersion: SchemaVersion, Project: raw})
}

// Decode deserializes a project, migrating older schema versions forward.
// Unknown future versions are rejected by name rather than guessed at.
func Decode(data []byte) (Project, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Project{}, fmt.Errorf("decode project envelope: %w", err)
	}
	if env.SchemaVersion == 0 {
		return Project{}, fmt.Errorf("decode project: missing schemaVersion")
	}
	if env.SchemaVersion > SchemaVersion {
		return Project{}, fmt.Errorf("decode project: schema version %d is newer than supported version %d", env.SchemaVersion, SchemaVersion)
	}

	raw := env.Project
	for v := env.SchemaVersion; v < SchemaVersion; v++ {
		migrate, ok := schemaMigrations[v]
		if !ok {
			return Project{}, fmt.Errorf("decode project: no migration from schema version %d", v)
		}
		var err error
		raw, err = migrate(raw)
		if err != nil {
			return Project{}, fmt.Errorf("migrate project schema v%d: %w", v, err)
		}
	}

	var p Project
	if err := json.Unmarshal(raw, &p); err != nil {
		return Project{}, fmt.Errorf("decode project: %w", err)
	}
	return p, nil
}
