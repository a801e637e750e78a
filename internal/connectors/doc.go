// Package connectors holds the clients of the content backends a rebuild
// reads from. Each subpackage implements driven.ContentBackend for one
// backend (payload: the Payload CMS REST API).
package connectors
