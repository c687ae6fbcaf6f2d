package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keboola/pipeline-trigger/internal/pkg/model"
)

func TestMap(t *testing.T) {
	t.Parallel()
	m := FromPairs([]string{"b_key=1", "A_KEY=2=3", "invalid", "=empty"})
	assert.Equal(t, []string{"b_key", "A_KEY"}, m.Keys())

	// Lookup is case-insensitive
	assert.Equal(t, "1", m.Get("B_KEY"))
	assert.Equal(t, "2=3", m.Get("a_key"))
	_, found := m.Lookup("missing")
	assert.False(t, found)

	// Existing key keeps position
	m.Set("b_key", "4")
	assert.Equal(t, []string{"b_key=4", "A_KEY=2=3"}, m.ToSlice())

	m.Unset("B_KEY")
	assert.Equal(t, []string{"A_KEY"}, m.Keys())

	_, err := m.GetOrErr("missing")
	require.Error(t, err)
	assert.Equal(t, `missing ENV variable "MISSING"`, err.Error())
}

func TestExtractVariables(t *testing.T) {
	t.Parallel()
	envs := FromPairs([]string{"PREFIX_ENV=prod", "OTHER=x"})
	assert.Equal(t, model.Variables{{Key: "ENV", Value: "prod"}}, ExtractVariables(envs, "PREFIX_"))
}

func TestExtractVariables_OrderAndPrefixStrippedOnce(t *testing.T) {
	t.Parallel()
	envs := FromPairs([]string{
		"PTRIGGER_VAR_ZONE=eu",
		"PTRIGGER_HOST=gitlab.com",
		"PTRIGGER_VAR_PTRIGGER_VAR_NESTED=1",
		"PTRIGGER_VAR_=ignored",
		"PTRIGGER_VAR_app_name=demo",
	})
	assert.Equal(t, model.Variables{
		{Key: "ZONE", Value: "eu"},
		{Key: "PTRIGGER_VAR_NESTED", Value: "1"},
		{Key: "app_name", Value: "demo"},
	}, ExtractVariables(envs, DefaultVariablePrefix))
	assert.Empty(t, ExtractVariables(envs, ""))
}
