// Package schema validates and normalizes the options a user passes to a plugin.
//
// A Schema maps option names to Field declarations. Each field has a Type
// (string, int, float, bool, slices, maps, enumerations or custom checks),
// and may be required or carry a default:
//
//	opts := schema.Schema{
//	    "callees": schema.Optional(schema.Slice(schema.String())),
//	    "strict":  schema.WithDefault(schema.Bool(), false),
//	    "env":     schema.Required(schema.Map(schema.String())),
//	}
//
//	normalized, err := schema.Normalize(opts, map[string]any{"env": map[string]any{}})
//	// normalized["strict"] == false
//
// Validation is exhaustive: an *InvalidOptionsError lists every failing key,
// not just the first one, so users can fix a configuration in one pass.
//
// Schemas can also be parsed from type strings, e.g. "[string]" or "{int}":
//
//	s, err := schema.ParseTypeMap(map[string]string{"tags": "[string]"})
//
// Normalized options can be decoded into a typed struct with Decode.
package schema
