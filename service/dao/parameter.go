package dao

// Well-known List filter names understood by the entity stores.
const (
	ParamMapID  = "MapID"
	ParamStatus = "Status"
)

// Parameter is a named List filter. Value is either a single string or a
// string slice (any-of match).
type Parameter struct {
	Name  string
	Value interface{}
}

// NewParameter creates a filter; with a single value the parameter matches
// equality, with several values it matches any of them.
func NewParameter(name string, values ...string) *Parameter {
	if len(values) == 1 {
		return &Parameter{Name: name, Value: values[0]}
	}
	return &Parameter{Name: name, Value: values}
}
