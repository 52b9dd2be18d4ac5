package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve returns a [kong.ConfigurationLoader] that reads flag values from
// the top-level mapping called name in a YAML document.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve("gwbasic"), "/path/to/config.yaml")
//
// Nested mappings are flattened by joining keys with hyphens, so both of
// these set --log-level:
//
//	gwbasic:
//	  log-level: debug
//
//	gwbasic:
//	  log:
//	    level: debug
//
// Keys may use underscores in place of hyphens ("log_level"). Numbers are
// passed to kong as strings. Command-line flags override config file values.
//
// A document that is empty, malformed, or lacks the section yields an empty
// configuration rather than an error.
func resolve(name string) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		err := yaml.NewDecoder(r).Decode(&doc)
		if err != nil {
			// Empty or unparseable file - return empty config
			return config{}, nil
		}

		section, ok := doc[name].(map[string]any)
		if !ok {
			return config{}, nil
		}

		cfg := config{}
		cfg.flatten("", section)

		return cfg, nil
	}
}

// config implements [kong.Resolver] over a flattened YAML section.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	if value, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	// Not found - return nil to let kong use defaults
	return nil, nil
}

// flatten copies m into c, joining nested keys to prefix with hyphens.
func (c config) flatten(prefix string, m map[string]any) {
	for key, value := range m {
		if prefix != "" {
			key = prefix + "-" + key
		}

		switch v := value.(type) {
		case map[string]any:
			c.flatten(key, v)
		case []any:
			list := make([]any, len(v))
			for i, elem := range v {
				list[i] = scalar(elem)
			}

			c[key] = list
		default:
			c[key] = scalar(v)
		}
	}
}

// scalar converts numbers to the string form kong parses flag values from.
func scalar(v any) any {
	switch n := v.(type) {
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	case uint64:
		return strconv.FormatUint(n, 10)
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case nil:
		return nil
	case bool, string:
		return n
	}

	return fmt.Sprint(v)
}
