package shell

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const workDir = "/work"

func newTestShell(t *testing.T) (*Shell, afero.Fs, *bytes.Buffer) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(workDir, DirPermission))
	require.NoError(t, fs.MkdirAll("/home/user", DirPermission))
	var out bytes.Buffer
	return New(fs, workDir, &out, WithHome("/home/user")), fs, &out
}

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), FilePermission))
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}

func run(t *testing.T, s *Shell, lines ...string) {
	t.Helper()
	for _, line := range lines {
		require.NoError(t, s.Execute(line))
	}
}

func diagnostics(res Result) string {
	msgs := make([]string, 0, len(res.Diagnostics))
	for _, d := range res.Diagnostics {
		msgs = append(msgs, d.Error())
	}
	return strings.Join(msgs, "\n")
}
