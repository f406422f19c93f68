package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func TestConfigCmds_AreSettingsOnly(t *testing.T) {
	cmds := map[string]*cobra.Command{
		"config":  configCmd,
		"show":    configShowCmd,
		"set":     configSetCmd,
		"keys":    configKeysCmd,
		"version": versionCmd,
	}

	for name, c := range cmds {
		assert.Equal(t, "true", c.Annotations[annotationSettingsOnly], name)
	}
}

func TestConfigShow_MasksSecrets(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "", "config", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "[LLM]")
	assert.Contains(t, out, "OpenAI (cloud)")
	assert.Contains(t, out, "sk-a...mnop")
	assert.NotContains(t, out, "sk-abcdefghijklmnop")
	assert.Contains(t, out, "Top K:              4")
	assert.Contains(t, out, "HTTP address: :8000")
}

func TestConfigShow_YAML(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "", "config", "show", "-o", "yaml")

	require.NoError(t, err)
	assert.Contains(t, out, "sk-a...mnop")
	assert.NotContains(t, out, "sk-abcdefghijklmnop")
}

func TestConfigSet(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "", "config", "set", "retrieval.top_k", "8")

	require.NoError(t, err)
	assert.Equal(t, "8", ts.settings.set["retrieval.top_k"])
	assert.Contains(t, out, "Set retrieval.top_k")
}

func TestConfigSet_Error(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.settings.err = domain.ErrInvalidInput

	_, err := execute(t, "", "config", "set", "nope", "1")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestConfigKeys(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "", "config", "keys")

	require.NoError(t, err)
	assert.Contains(t, out, "llm.provider\n")
	assert.Contains(t, out, "retrieval.top_k\n")
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"", ""},
		{"short", "****"},
		{"12345678", "****"},
		{"sk-abcdefghijklmnop", "sk-a...mnop"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, maskAPIKey(tt.key))
		})
	}
}
