// Command mapschema writes the JSON schema for termcast map files
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"github.com/lixenwraith/termcast/world"
)

func main() {
	var outPath string
	flag.StringVar(&outPath, "out", "", "path to write the JSON schema (stdout when empty)")
	flag.Parse()

	schema := buildSchema()

	var err error
	if outPath == "" {
		err = encodeSchema(os.Stdout, schema)
	} else {
		err = writeSchema(outPath, schema)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "mapschema: %v\n", err)
		os.Exit(1)
	}
}

func buildSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}
	schema := reflector.Reflect(new(world.Document))
	schema.Title = "termcast map"
	schema.Description = "Tile grid walked by the termcast renderer. YAML files are validated against the JSON form"
	return schema
}

func encodeSchema(w io.Writer, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	f, err := os.Create(outPath + ".tmp")
	if err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}
	if err := encodeSchema(f, schema); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}

	if err := os.Rename(outPath+".tmp", outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}
	return nil
}
