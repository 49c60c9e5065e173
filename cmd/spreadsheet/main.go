package main

import (
	"github.com/noel-yap/spreadsheet/cmd/spreadsheet/internal/command"
)

func main() {
	command.Execute()
}
