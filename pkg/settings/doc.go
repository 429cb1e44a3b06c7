// Package settings holds the session configuration of a batch run and its
// persistence.
//
// Two files are involved:
//   - api_config.json, the persisted {api_key, temperature} record, read with
//     [LoadAPIConfig] and written with [SaveAPIConfig]
//   - a session file holding every field of a [Session], written by
//     [ExportSession] and read by [ImportSession]; INI by default and YAML for
//     .yaml/.yml paths
//
// [Session.Validate] and [ValidateJob] run before any batch and return a
// [*ValidationError] naming the offending field.
package settings
