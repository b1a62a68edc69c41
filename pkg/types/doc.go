// Package types defines the shared vocabulary of the rowgate data-access
// core: schema metadata, fetch modes, the Conn collaborator interfaces,
// the error taxonomy, and the Config used to open a session.
package types
