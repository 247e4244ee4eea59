package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/tackweld/internal/config"
	"github.com/conneroisu/tackweld/internal/errors"
)

// globalFlagKeys maps persistent flag names to configuration keys.
var globalFlagKeys = map[string]string{
	"root":               "extract.root",
	"pattern":            "extract.patterns",
	"out":                "extract.out_dir",
	"allow-redefinition": "extract.allow_redefinition",
	"prefix":             "extract.prefix",
	"preserve-newlines":  "extract.preserve_newlines",
	"log-level":          "log.level",
	"log-format":         "log.format",
}

func addGlobalFlags(flags *pflag.FlagSet) {
	def := config.Default()

	flags.StringP("root", "r", def.Extract.Root, "directory scanned for template files")
	// StringArray keeps commas, so "*.{html,htm}" stays one pattern.
	flags.StringArrayP("pattern", "p", def.Extract.Patterns, "glob pattern selecting template files, relative to --root (repeatable)")
	flags.StringP("out", "o", def.Extract.OutDir, "directory receiving component artifacts")
	flags.Bool("allow-redefinition", def.Extract.AllowRedefinition, "keep the last definition of a component defined more than once")
	flags.String("prefix", def.Extract.Prefix, "artifact file name prefix")
	flags.Bool("preserve-newlines", def.Extract.PreserveNewlines, "keep a newline after every component body line")
	flags.StringP("log-level", "l", def.Log.Level, "log level (debug, info, warn, error)")
	flags.String("log-format", def.Log.Format, "log format (text, json)")
}

// bindFlags binds every flag in keys to its configuration key.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) {
	for name, key := range keys {
		if flag := flags.Lookup(name); flag != nil {
			// BindPFlag only fails for a nil flag.
			_ = v.BindPFlag(key, flag)
		}
	}
}

// Output formats accepted by commands with a --format flag.
const (
	formatTable = "table"
	formatText  = "text"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func validateFormat(format string, allowed ...string) error {
	for _, f := range allowed {
		if format == f {
			return nil
		}
	}
	return errors.ErrConfigInvalid(fmt.Sprintf("invalid output format %q, must be one of: %s",
		format, strings.Join(allowed, ", ")))
}

// writeStructured encodes v as JSON or YAML.
func writeStructured(w io.Writer, format string, v interface{}) error {
	switch format {
	case formatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	case formatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return errors.ErrConfigInvalid("unsupported structured format: " + format)
	}
}

// assignments is a repeatable name=value flag.
type assignments struct {
	values map[string]string
	order  []string
}

var _ pflag.Value = (*assignments)(nil)

func newAssignments() *assignments {
	return &assignments{values: make(map[string]string)}
}

func (a *assignments) String() string {
	parts := make([]string, 0, len(a.order))
	for _, name := range a.order {
		parts = append(parts, name+"="+a.values[name])
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func (a *assignments) Set(s string) error {
	name, value, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return fmt.Errorf("expected name=value, got %q", s)
	}
	if _, seen := a.values[name]; !seen {
		a.order = append(a.order, name)
	}
	a.values[name] = value
	return nil
}

func (a *assignments) Type() string {
	return "name=value"
}

// names is a repeatable flag of bare slot names.
type names []string

var _ pflag.Value = (*names)(nil)

func (n *names) String() string {
	return "[" + strings.Join(*n, ",") + "]"
}

func (n *names) Set(s string) error {
	if s == "" {
		return fmt.Errorf("name must not be empty")
	}
	*n = append(*n, s)
	return nil
}

func (n *names) Type() string {
	return "name"
}
