// Package ui provides the Bubble Tea interface for smartmix.
//
// # Views
//
//   - Mixes: saved Smart Mixes beside the tracks returned by the last save
//   - Logs: the smartmix log file, followed live through fsnotify
//
// The editor dialog and the delete confirmation draw over either view.
//
// # Event Flow
//
//  1. Run builds the Model and starts the program
//  2. tickMsg reads the state.Store snapshot filled by the app poller
//  3. Keys open the editor; editor.Editor calls run as tea.Cmds and report
//     back with editorOpenedMsg, editorSavedMsg and mixRemovedMsg
//  4. A delete asks for confirmation through confirmBridge, which turns the
//     blocking Confirmer call into a confirmRequestMsg and a modal
//
// # Key Bindings
//
//   - n: New Smart Mix
//   - enter/e: Edit the selected mix
//   - d: Delete the selected mix
//   - r: Refresh the saved mix list
//   - l / m / tab: Switch between logs and mixes
//   - T: Cycle theme
//   - ?: Help
//   - q: Quit
package ui
