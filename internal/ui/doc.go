// Package ui implements an interactive terminal client for the collection point registry using bubbletea's
// Elm architecture.
//
// The TUI follows the same flow as the mobile app:
//  1. [StateView] : Pick a state (UF)
//  2. [CityView] : Pick a city in that state
//  3. [ItemView] : Toggle the items to drop off; matching points refresh on every toggle
//  4. [PointListView] : Browse the points that collect every selected item
//  5. [DetailView] : Contact details and accepted items for one point
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg
// union type. All data comes through the [Browser] interface, so the model never touches the database or the
// network directly.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, space, esc, q) with contextual help displayed via
// charmbracelet/bubbles/help.
package ui
