// Package main hosts the picsort CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once, then hands off to the
// internal packages: sort drives the organizer, inspect previews a plan for
// single files, check runs preflight, and the config and history groups cover
// scaffolding and the placement journal. Keep the heavy lifting in internal/
// and surface it here through flags and rendering only.
package main
