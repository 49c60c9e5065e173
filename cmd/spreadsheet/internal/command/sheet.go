package command

import (
	"fmt"

	"github.com/noel-yap/spreadsheet/cmd/spreadsheet/internal/loader"
	"github.com/noel-yap/spreadsheet/cmd/spreadsheet/internal/view"
	"github.com/noel-yap/spreadsheet/packages/spreadsheet"
)

// newSheet creates a sheet whose engine logs go through the CLI logger
func newSheet(cli *CLI) *spreadsheet.Sheet {
	return spreadsheet.NewSheet(spreadsheet.WithLogger(cli.Logger().Logr()))
}

// applyAssignments installs each assignment in order and stops at the first
// rejected one. cells set before the failure keep their values.
func applyAssignments(cli *CLI, sheet *spreadsheet.Sheet, assignments []loader.Assignment) error {
	for _, a := range assignments {
		cli.Logger().Debug("setting cell", "address", a.Address, "contents", a.Contents)
		if err := sheet.SetContents(a.Address, a.Contents); err != nil {
			return fmt.Errorf("%s: %w", a.Address, err)
		}
	}
	return nil
}

func sheetResult(sheet *spreadsheet.Sheet) view.SheetResult {
	addrs := sheet.Addresses()
	result := view.SheetResult{Cells: make([]view.CellResult, 0, len(addrs))}
	for _, addr := range addrs {
		contents, _ := sheet.Contents(addr.String())
		result.Cells = append(result.Cells, view.CellResult{
			Address:  addr.String(),
			Contents: contents,
			Value:    sheet.ValueAt(addr),
		})
	}
	return result
}

func renderSheet(cli *CLI, sheet *spreadsheet.Sheet) {
	view.NewSheetView(cli.Viewer).Render(sheetResult(sheet))
}
