// Package migrations embeds the SQL schema for every supported database
// driver and applies it with goose.
//
// Each driver has its own directory of numbered goose SQL files. The schema
// is identical in meaning across drivers; only column types differ.
package migrations
