// Package normalisers turns backend-specific content formats into the
// plain text stored in search documents. Each subpackage implements
// driven.TextFormatter for one format (lexical: Payload rich text).
package normalisers
