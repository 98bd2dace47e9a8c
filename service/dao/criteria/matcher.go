// Package criteria evaluates dao.Parameter filters against entity field
// values extracted by the concrete stores.
package criteria

import (
	"github.com/agvsim/putaway/service/dao"
)

// Match reports whether every supplied parameter is satisfied by the entity
// field values. Unknown parameter names do not filter (permissive, matching
// the stores' read-mostly usage). An empty parameter list matches all.
func Match(fields map[string]string, parameters []*dao.Parameter) bool {
	for _, parameter := range parameters {
		if parameter == nil {
			continue
		}
		actual, ok := fields[parameter.Name]
		if !ok {
			continue
		}
		if !matchValue(actual, parameter.Value) {
			return false
		}
	}
	return true
}

func matchValue(actual string, expected interface{}) bool {
	switch value := expected.(type) {
	case string:
		return actual == value
	case []string:
		for _, candidate := range value {
			if actual == candidate {
				return true
			}
		}
		return false
	}
	return true
}
