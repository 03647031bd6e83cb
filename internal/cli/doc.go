// Package cli implements the command-line interface for ctx-theatre.
//
// The cli package provides the Cobra-based CLI: the interactive menu, the
// --sync-only mode, and the sync, list, search, add, export and serve
// subcommands. It coordinates the config, syncer, storage and filter packages
// and formats output as text or JSON. Listings go to stdout; logs go to stderr.
package cli
