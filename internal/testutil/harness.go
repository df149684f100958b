// Package testutil provides small harness helpers shared by the package
// test suites: declaring schemas from inline HCL and converting inline JSON
// documents through a fresh engine.
package testutil

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/recast/internal/descriptor"
	"github.com/vk/recast/internal/engine"
	"github.com/vk/recast/internal/manifest"
	"github.com/vk/recast/internal/registry"
)

// LoadRegistry declares the records from inline HCL source into a fresh
// registry, failing the test on any declaration error.
func LoadRegistry(t *testing.T, src string) *registry.Registry {
	t.Helper()

	reg := registry.New()
	err := manifest.NewLoader().LoadSource(context.Background(), reg, "test.hcl", []byte(src))
	require.NoError(t, err, "schema declaration should succeed")
	return reg
}

// LoadRegistryErr declares the records from inline HCL source and returns
// the declaration error, for failure-path tests.
func LoadRegistryErr(t *testing.T, src string) error {
	t.Helper()

	reg := registry.New()
	return manifest.NewLoader().LoadSource(context.Background(), reg, "test.hcl", []byte(src))
}

// ConvertJSON decodes an inline JSON document and converts it against the
// named record type using an engine over reg.
func ConvertJSON(t *testing.T, reg *registry.Registry, recordID, jsonSrc string) (any, error) {
	t.Helper()

	var value any
	require.NoError(t, json.Unmarshal([]byte(jsonSrc), &value), "test input should be valid JSON")
	return engine.New(reg).Convert(value, descriptor.RecordOf(recordID))
}
