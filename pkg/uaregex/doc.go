// Package uaregex classifies user agents with a ua-parser style pattern
// database (regexes.yaml).
//
// The database has three ordered rule lists: user_agent_parsers, os_parsers
// and device_parsers. For each list the first rule whose regex matches wins.
// Replacement templates may reference capture groups as $1..$9; a group that
// did not participate, or captured nothing, is treated as absent.
//
//	p, err := uaregex.Default()
//	if err != nil {
//		return err
//	}
//	m, err := p.Parse(ctx, ua)
//
// A Parser is immutable after Load and safe for concurrent use.
//
// # Sources
//
// Open loads a database from a reference:
//
//   - "" loads the embedded default database
//   - "s3://bucket/key" downloads it from S3 or an S3-compatible store
//   - anything else is read as a local file path
//
// Go regular expressions are RE2, so rules using lookaround are rejected by
// default. WithSkipInvalid drops them with a warning instead.
package uaregex
