package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/minvoice/minvoice/internal/adapters/inbound/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitCmd_CreatesConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	root := cli.NewRootCmdForTest()
	root.SetArgs([]string{"init", tmpDir})
	require.NoError(t, root.Execute())

	data, err := os.ReadFile(filepath.Join(tmpDir, ".minvoice.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "page_size: A4")
	assert.Contains(t, string(data), "default_template: invoice")
}

func TestInitCmd_PageSize(t *testing.T) {
	tmpDir := t.TempDir()

	root := cli.NewRootCmdForTest()
	root.SetArgs([]string{"init", tmpDir, "--page-size", "Letter"})
	require.NoError(t, root.Execute())

	data, err := os.ReadFile(filepath.Join(tmpDir, ".minvoice.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "page_size: Letter")
}

func TestInitCmd_FailsIfExists(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".minvoice.yaml"), []byte("existing"), 0644))

	root := cli.NewRootCmdForTest()
	root.SetArgs([]string{"init", tmpDir})
	err := root.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInitCmd_ForceOverwrites(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".minvoice.yaml"), []byte("old"), 0644))

	root := cli.NewRootCmdForTest()
	root.SetArgs([]string{"init", tmpDir, "--force"})
	require.NoError(t, root.Execute())

	data, err := os.ReadFile(filepath.Join(tmpDir, ".minvoice.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "currency_symbol:")
	assert.NotEqual(t, "old", string(data))
}

func TestInitCmd_InvalidPageSize(t *testing.T) {
	tmpDir := t.TempDir()

	root := cli.NewRootCmdForTest()
	root.SetArgs([]string{"init", tmpDir, "--page-size", "A3"})
	err := root.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown page_size")
	assert.NoFileExists(t, filepath.Join(tmpDir, ".minvoice.yaml"))
}
