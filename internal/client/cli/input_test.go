package cli

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("  hello world  \n"))

	text, err := GetSimpleText(reader, "Say something", &out)

	require.NoError(t, err)
	require.Equal(t, "hello world", text)
	require.Equal(t, "Say something\n> ", out.String())
}

func TestGetSimpleText_PartialLineBeforeEOF(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("no newline here"))

	text, err := GetSimpleText(reader, "Say something", &out)

	require.NoError(t, err)
	require.Equal(t, "no newline here", text)
}

func TestGetSimpleText_EOF(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader(""))

	_, err := GetSimpleText(reader, "Say something", &out)

	require.ErrorIs(t, err, io.EOF)
}

func TestGetPassword(t *testing.T) {
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })
	readPassword = func(fd int) ([]byte, error) { return []byte("s3cret"), nil }

	var out bytes.Buffer
	pw, err := GetPassword(&out)

	require.NoError(t, err)
	require.Equal(t, []byte("s3cret"), pw)
	require.Equal(t, "Enter password: \n", out.String())
}

func TestGetPassword_ReadError(t *testing.T) {
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })
	readPassword = func(fd int) ([]byte, error) { return nil, errors.New("no tty") }

	var out bytes.Buffer
	_, err := GetPassword(&out)

	require.EqualError(t, err, "no tty")
}
