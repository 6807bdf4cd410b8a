package session

import "github.com/UnknownOlympus/waypoint/internal/models"

// Command names, as posted by the browser in the "type" field.
const (
	CommandAuthenticate = "authenticate"
	CommandRestore      = "restore"
	CommandAddMarker    = "addMarker"
	CommandDeleteMarker = "deleteMarker"
	CommandSearch       = "search"
	CommandSort         = "sort"
	CommandSelectRow    = "selectRow"

	commandSnapshot = "snapshot"
)

// Authenticate sets the access code and loads its markers.
type Authenticate struct {
	Code string
}

// Restore reloads the access code remembered in local storage, if any.
type Restore struct{}

// AddMarker places a new marker. Name is the raw answer to the name prompt.
type AddMarker struct {
	Name     string
	Position models.Position
}

// DeleteMarker removes a marker. Confirmed carries the user's answer to the
// confirmation dialog when one is required.
type DeleteMarker struct {
	Name      string
	Confirmed bool
}

// Search filters the rendered list by name substring.
type Search struct {
	Query string
}

// Sort reorders the collection.
type Sort struct {
	Order models.SortOrder
}

// SelectRow focuses the map on a marker and highlights it.
type SelectRow struct {
	Name string
}

type snapshot struct{}

func (Authenticate) CommandName() string { return CommandAuthenticate }
func (Restore) CommandName() string      { return CommandRestore }
func (AddMarker) CommandName() string    { return CommandAddMarker }
func (DeleteMarker) CommandName() string { return CommandDeleteMarker }
func (Search) CommandName() string       { return CommandSearch }
func (Sort) CommandName() string         { return CommandSort }
func (SelectRow) CommandName() string    { return CommandSelectRow }
func (snapshot) CommandName() string     { return commandSnapshot }
