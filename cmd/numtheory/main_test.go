package main

import (
	"bufio"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatFactorization(t *testing.T) {
	t.Parallel()

	got := formatFactorization(nil)
	require.Equal(t, "[]", got)
}

func TestReadBigIntRejectsGarbage(t *testing.T) {
	t.Parallel()

	r, w, err := os.Pipe()
	require.NoError(t, err)
	_, err = w.WriteString("not-a-number\n")
	require.NoError(t, err)
	w.Close()

	_, err = readBigInt(bufio.NewReader(r))
	require.Error(t, err)
}

func TestReadBigIntParsesDecimal(t *testing.T) {
	t.Parallel()

	r, w, err := os.Pipe()
	require.NoError(t, err)
	_, err = w.WriteString("12345\n")
	require.NoError(t, err)
	w.Close()

	n, err := readBigInt(bufio.NewReader(r))
	require.NoError(t, err)
	require.Equal(t, "12345", n.String())
}

func TestRunModeOneEndToEnd(t *testing.T) {
	t.Parallel()

	inR, inW, err := os.Pipe()
	require.NoError(t, err)
	outR, outW, err := os.Pipe()
	require.NoError(t, err)

	go func() {
		inW.WriteString("1\n8\n")
		inW.Close()
	}()

	code := run(inR, outW)
	outW.Close()
	require.Equal(t, 0, code)

	var sb strings.Builder
	buf := make([]byte, 4096)
	for {
		n, err := outR.Read(buf)
		sb.Write(buf[:n])
		if err != nil {
			break
		}
	}
	require.Contains(t, sb.String(), "(2, 3)")
}
