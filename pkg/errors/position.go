package errors

// Position represents a location in a scenario file.
// Line and column are 1-based; zero means unknown.
type Position struct {
	File   string
	Line   int
	Column int
}
