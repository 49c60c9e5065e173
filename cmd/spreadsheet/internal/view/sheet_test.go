package view_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"

	"github.com/noel-yap/spreadsheet/cmd/spreadsheet/internal/view"
)

var sampleSheet = view.SheetResult{
	Cells: []view.CellResult{
		{Address: "A1", Contents: "2", Value: 2},
		{Address: "B10", Contents: "=A1*21", Value: 42},
	},
}

func render(vt view.ViewType, result view.SheetResult) string {
	buf := &bytes.Buffer{}
	v := view.NewViewer(vt, view.NewStream(buf), view.LogLevelSilent)
	view.NewSheetView(v).Render(result)
	return buf.String()
}

func TestSheetHumanView(t *testing.T) {
	assert.Equal(t, "A1   2       2\nB10  =A1*21  42\n", render(view.ViewHuman, sampleSheet))
	assert.Equal(t, "(empty sheet)\n", render(view.ViewHuman, view.SheetResult{}))
}

func TestSheetJSONView(t *testing.T) {
	var doc struct {
		Type  string            `json:"type"`
		Cells []view.CellResult `json:"cells"`
	}
	require.NoError(t, json.Unmarshal([]byte(render(view.ViewJSON, sampleSheet)), &doc))
	assert.Equal(t, "sheet", doc.Type)
	assert.Equal(t, sampleSheet.Cells, doc.Cells)

	assert.JSONEq(t, `{"type":"sheet","cells":[]}`, render(view.ViewJSON, view.SheetResult{}))
}

func TestSheetYAMLView(t *testing.T) {
	out := render(view.ViewYAML, sampleSheet)
	assert.Contains(t, out, "type: sheet\n")
	assert.Contains(t, out, "- address: B10\n")

	var doc struct {
		Type  string            `json:"type"`
		Cells []view.CellResult `json:"cells"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "sheet", doc.Type)
	assert.Equal(t, sampleSheet.Cells, doc.Cells)
}
