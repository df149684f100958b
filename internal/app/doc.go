// Package app wires the schema loader, registry and conversion engine into
// a runnable application, decoupled from any specific entrypoint. The CLI
// hands it a validated Config; Run reads one JSON document, converts it
// against the requested record type and prints the typed result.
package app
