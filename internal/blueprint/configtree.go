package blueprint

import "strings"

// ConfigTree is a nested string-keyed configuration value, addressed by
// dotted paths.
type ConfigTree map[string]interface{}

// Set stores value at the dotted path, creating intermediate subtrees as
// needed. An intermediate key holding a non-tree value is replaced.
func (t ConfigTree) Set(path string, value interface{}) {
	keys := strings.Split(path, ".")
	node := t
	for _, key := range keys[:len(keys)-1] {
		child, ok := node[key].(ConfigTree)
		if !ok {
			child = ConfigTree{}
			node[key] = child
		}
		node = child
	}
	node[keys[len(keys)-1]] = value
}

// Get returns the value at the dotted path.
func (t ConfigTree) Get(path string) (interface{}, bool) {
	keys := strings.Split(path, ".")
	node := t
	for _, key := range keys[:len(keys)-1] {
		child, ok := node[key].(ConfigTree)
		if !ok {
			return nil, false
		}
		node = child
	}
	value, ok := node[keys[len(keys)-1]]
	return value, ok
}
