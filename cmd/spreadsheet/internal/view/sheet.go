package view

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"sigs.k8s.io/yaml"
)

type SheetView interface {
	Render(result SheetResult)
}

type SheetResult struct {
	Cells []CellResult `json:"cells"`
}

type CellResult struct {
	Address  string `json:"address"`
	Contents string `json:"contents,omitempty"`
	Value    int64  `json:"value"`
}

// sheetDocument is the json and yaml shape of a rendered sheet.
type sheetDocument struct {
	Type  string       `json:"type"`
	Cells []CellResult `json:"cells"`
}

func newSheetDocument(result SheetResult) sheetDocument {
	cells := result.Cells
	if cells == nil {
		cells = []CellResult{}
	}
	return sheetDocument{Type: "sheet", Cells: cells}
}

// Human view implementation.

type sheetHumanView struct {
	*HumanView
}

func newSheetHumanView(hv *HumanView) *sheetHumanView {
	return &sheetHumanView{HumanView: hv}
}

func (v *sheetHumanView) Render(result SheetResult) {
	if len(result.Cells) == 0 {
		v.Println("(empty sheet)")
		return
	}

	addrWidth, contentsWidth := 0, 0
	for _, c := range result.Cells {
		addrWidth = max(addrWidth, len(c.Address))
		contentsWidth = max(contentsWidth, len(c.Contents))
	}

	for _, c := range result.Cells {
		addr := color.RGB(50, 108, 229).Sprintf("%-*s", addrWidth, c.Address)
		v.Printf("%s  %-*s  %d\n", addr, contentsWidth, c.Contents, c.Value)
	}
}

// JSON view implementation.

type sheetJSONView struct {
	*JSONView
}

func newSheetJSONView(jv *JSONView) *sheetJSONView {
	return &sheetJSONView{JSONView: jv}
}

func (v *sheetJSONView) Render(result SheetResult) {
	data, err := json.Marshal(newSheetDocument(result))
	if err != nil {
		v.Logger().Error("rendering json", "error", err)
		return
	}
	v.Println(string(data))
}

// YAML view implementation.

type sheetYAMLView struct {
	*YAMLView
}

func newSheetYAMLView(yv *YAMLView) *sheetYAMLView {
	return &sheetYAMLView{YAMLView: yv}
}

func (v *sheetYAMLView) Render(result SheetResult) {
	data, err := yaml.Marshal(newSheetDocument(result))
	if err != nil {
		v.Logger().Error("rendering yaml", "error", err)
		return
	}
	v.Printf("%s", data)
}

func NewSheetView(v Viewer) SheetView {
	switch vt := v.(type) {
	case *HumanView:
		return newSheetHumanView(vt)
	case *JSONView:
		return newSheetJSONView(vt)
	case *YAMLView:
		return newSheetYAMLView(vt)
	default:
		panic(fmt.Sprintf("unknown view type %T", v))
	}
}
