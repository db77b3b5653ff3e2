// Package config provides configuration loading, merging, and validation
// facilities for the quote sync client and the reference remote server.
//
// Configuration is assembled from multiple sources. A field keeps the value
// of the first source that sets it:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//  4. Built-in defaults
//
// The main entry points are [GetClientConfig] for the terminal client and
// [GetServerConfig] for the reference remote server. Both are views over
// [StructuredConfig].
package config
