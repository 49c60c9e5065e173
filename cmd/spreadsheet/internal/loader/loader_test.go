package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseScript(t *testing.T) {
	script, err := ParseScript([]byte(`
cells:
- address: A1
  contents: "2"
- address: B1
  contents: =A1*3
`))
	require.NoError(t, err)
	assert.Equal(t, []Assignment{
		{Address: "A1", Contents: "2"},
		{Address: "B1", Contents: "=A1*3"},
	}, script.Cells)
}

func TestParseScript_Errors(t *testing.T) {
	_, err := ParseScript([]byte("cells:\n- adress: A1\n  contents: \"1\"\n"))
	assert.ErrorContains(t, err, "failed to unmarshal script")

	_, err = ParseScript([]byte("cells:\n- contents: \"1\"\n"))
	assert.EqualError(t, err, "cells[0]: address is required")

	script, err := ParseScript([]byte(""))
	require.NoError(t, err)
	assert.Empty(t, script.Cells)
}

func TestLoadScripts_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.yml", "cells:\n- address: B1\n  contents: =A1+1\n")
	writeFile(t, dir, "a.yaml", "cells:\n- address: A1\n  contents: \"1\"\n")
	writeFile(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.yaml"), 0755))

	scripts, err := LoadScripts(dir)
	require.NoError(t, err)
	require.Len(t, scripts, 2)
	assert.Equal(t, "A1", scripts[0].Cells[0].Address)
	assert.Equal(t, "B1", scripts[1].Cells[0].Address)
}

func TestLoadScriptsDetailed_ContinuesOnError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "cells: [")
	writeFile(t, dir, "b.yaml", "cells:\n- address: A1\n  contents: \"1\"\n")

	results, err := LoadScriptsDetailed(dir)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	assert.NoError(t, results[1].Err)

	_, err = LoadScripts(dir)
	assert.ErrorContains(t, err, "a.yaml")
}

func TestLoadScript_BadPath(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadScripts(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "failed to access path")

	txt := writeFile(t, dir, "script.txt", "cells: []")
	_, err = LoadScripts(txt)
	assert.ErrorContains(t, err, "must have a .yaml or .yml extension")

	_, err = LoadScript(dir)
	assert.ErrorContains(t, err, "is a directory")
}
