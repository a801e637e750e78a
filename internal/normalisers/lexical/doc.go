// Package lexical flattens Lexical rich-text documents, as stored by the
// content backend, to plain text for full-text indexing.
//
// A document is a tree of nodes under a "root" node. Text nodes carry the
// words; element nodes (paragraphs, headings, lists, quotes, links) carry
// children. Flattening keeps the words and the block structure:
//
//   - root-level blocks are separated by a blank line
//   - list items are separated by a newline
//   - linebreak and tab nodes become "\n" and "\t"
//   - block nodes embedding further rich text in their fields are
//     flattened in place
//   - nodes of unknown type contribute their children, if any
package lexical
