package testhelper

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripAnsiWriter(t *testing.T) {
	t.Parallel()

	c := color.New(color.FgGreen)
	c.EnableColor()

	out := &bytes.Buffer{}
	w := newStripAnsiWriter(out)

	_, err := w.Write([]byte(c.Sprint("foo")))
	require.NoError(t, err)
	assert.Empty(t, out.String())

	_, err = w.Write([]byte(c.Sprint("bar") + "\n"))
	require.NoError(t, err)
	assert.Equal(t, "foobar\n", out.String())

	_, err = w.Write([]byte(c.Sprint("baz")))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Equal(t, "foobar\nbaz", out.String())
}
