package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// execute runs cmd with args and returns what it wrote to stdout and stderr.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// decodeResponse parses a single JSON CLIResponse, decoding Data into data
// when it is non-nil.
func decodeResponse(t *testing.T, out string, data any) CLIResponse {
	t.Helper()
	var resp CLIResponse
	if data != nil {
		resp.Data = data
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "output: %s", out)
	return resp
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const modernSession = `
xcode: "8.3"
device:
  name: iPhone 7
  udid: 5ED7E5A6
  version: "10.3"
bundle_id: com.example.app
`

const legacyDeviceSession = `
xcode: "8.3"
device:
  name: iPhone 5
  version: "8.4"
`
