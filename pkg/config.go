package ember

import (
	"bufio"
	"fmt"
	"os"
	"reflect"

	"github.com/naoina/toml"
	"github.com/pkg/errors"
)

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

type ParserConfig struct {
	// Precedence maps single character operators to their priority. A priority
	// of zero disables an operator. A table in a config file replaces the
	// defaults instead of being merged into them.
	Precedence map[string]int
}

type CodegenConfig struct {
	ModuleName string

	// KeepTopLevel keeps the functions generated for top-level expressions in
	// the module instead of erasing them once they are reported.
	KeepTopLevel bool `toml:",omitempty"`

	// Builtins predefines printd.
	Builtins bool `toml:",omitempty"`
}

type Config struct {
	Parser  ParserConfig
	Codegen CodegenConfig
}

func DefaultConfig() *Config {
	return &Config{
		Parser: ParserConfig{
			Precedence: DefaultPrecedence().Strings(),
		},
		Codegen: CodegenConfig{
			ModuleName: "ember",
		},
	}
}

// LoadConfig decodes a TOML file on top of the values already in cfg.
func LoadConfig(file string, cfg *Config) error {
	f, err := os.Open(file)
	if err != nil {
		return errors.Wrap(err, "cannot open config")
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

// Precedence validates and converts the configured operator table.
func (c *Config) Precedence() (PrecedenceTable, error) {
	table, err := ParsePrecedence(c.Parser.Precedence)
	if err != nil {
		return nil, errors.Wrap(err, "invalid operator table")
	}

	return table, nil
}

func (c *Config) Marshal() ([]byte, error) {
	return tomlSettings.Marshal(c)
}
