package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("  alice \n"))
	var out bytes.Buffer

	got, err := GetSimpleText(in, "Username", &out)

	require.NoError(t, err)
	assert.Equal(t, "alice", got)
	assert.Equal(t, "Username\n> ", out.String())
}

func TestGetSimpleText_EOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("lastline"))
	got, err := GetSimpleText(in, "x", &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(bufio.NewReader(strings.NewReader("")), "x", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestGetPassword(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })

	readPassword = func(int) ([]byte, error) { return []byte("s3cret"), nil }
	var out bytes.Buffer
	pw, err := GetPassword("Password", &out)
	require.NoError(t, err)
	assert.Equal(t, []byte("s3cret"), pw)
	assert.Equal(t, "Password: \n", out.String())

	readPassword = func(int) ([]byte, error) { return nil, errors.New("boom") }
	_, err = GetPassword("Password", &bytes.Buffer{})
	assert.EqualError(t, err, "boom")
}

func TestWipe(t *testing.T) {
	b := []byte("secret")
	wipe(b)
	assert.Equal(t, make([]byte, 6), b)
}
