// Package unicfg reads and writes hierarchical configuration files through one
// interface, whatever format backs them.
//
// A Config wraps exactly one adapter, picked when the file is loaded:
//   - by extension: .xml, .ini, .json, .yaml and .yml map directly to their adapter
//   - otherwise by Type Inference: every registered adapter is tried in order
//     and the first that parses the file wins
//
// Values are addressed in one of two ways. Get and Set take a query string in
// the adapter's own dialect (an XPath subset for XML, "section:key" for INI,
// gjson paths for JSON, YAMLPath for YAML). GetValue and SetValue take a
// plain key sequence understood by every adapter:
//
//	cfg, err := unicfg.New("config.json")
//	if err != nil {
//	    return err
//	}
//
//	master, ok := cfg.GetValue("config", "master")
//	cfg.SetValue("false", "config", "master")
//	err = cfg.Save()
//
// Changes stay in memory until Save or SaveAs.
//
// # Dependency Injection
//
// NewModule wraps New in an Fx module that supplies a named *Config.
package unicfg
