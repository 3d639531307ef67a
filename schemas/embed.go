// Package schemas embeds the hbstree.yaml JSON Schema and registers it with
// the config package on import:
//
//	import _ "github.com/kjourdan1/hbstree/schemas"
package schemas

import (
	"embed"
	"fmt"

	"github.com/kjourdan1/hbstree/internal/config"
)

// Current is the schema file for config.APIVersion.
const Current = "hbstree-v1.schema.json"

//go:embed *.schema.json
var files embed.FS

// Load returns the content of the embedded schema file called name.
func Load(name string) ([]byte, error) {
	data, err := files.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("schemas: %s is not embedded: %w", name, err)
	}
	return data, nil
}

func init() {
	data, err := Load(Current)
	if err != nil {
		panic(err)
	}
	config.SetSchema(data)
}
