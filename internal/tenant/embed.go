package tenant

import (
	"embed"
	"fmt"
	"sort"
	"strings"
)

//go:embed configs/*.yaml
var configsFS embed.FS

// Builtin returns one of the tenant configs shipped with the binary
// ("interior", "insurance").
func Builtin(name string) (*Config, error) {
	data, err := configsFS.ReadFile("configs/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("unknown tenant %q (have %s)", name, strings.Join(BuiltinNames(), ", "))
	}
	return parse(data)
}

// BuiltinNames lists the embedded tenant config names.
func BuiltinNames() []string {
	entries, err := configsFS.ReadDir("configs")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}
