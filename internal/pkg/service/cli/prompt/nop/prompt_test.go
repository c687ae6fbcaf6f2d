package nop

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/keboola/pipeline-trigger/internal/pkg/service/cli/prompt"
)

func TestPrompt_Defaults(t *testing.T) {
	t.Parallel()
	p := New()
	assert.False(t, p.IsInteractive())

	value, ok := p.Select(&prompt.Select{Options: []string{"a", "b"}, Default: "b", UseDefault: true})
	assert.True(t, ok)
	assert.Equal(t, "b", value)

	_, ok = p.Select(&prompt.Select{Options: []string{"a", "b"}})
	assert.False(t, ok)

	index, ok := p.SelectIndex(&prompt.SelectIndex{Options: []string{"a", "b"}, Default: 1, UseDefault: true})
	assert.True(t, ok)
	assert.Equal(t, 1, index)

	indexes, ok := p.MultiSelectIndex(&prompt.MultiSelectIndex{Options: []string{"a", "b"}})
	assert.False(t, ok)
	assert.Empty(t, indexes)

	answer, ok := p.Ask(&prompt.Question{Label: "Ref", Default: "main"})
	assert.True(t, ok)
	assert.Equal(t, "main", answer)
}
