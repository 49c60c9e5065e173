// Package view provides output formatting and logging for the spreadsheet CLI.
//
// The package uses a layered architecture: CLI → Viewer → Stream → io.Writer.
// Viewers handle format-specific rendering (human/json/yaml), while Stream
// provides basic output operations. Logs go to the same stream and follow the
// output format: tinted text for human output, JSON records otherwise.
package view
