// Package report renders analysis summaries.
//
// This package contains writers for different output formats:
//   - SimpleWriter: plain text tables for terminal display
//   - JSONWriter: structured JSON output for further processing
//   - MarkdownWriter: Markdown tables and a mermaid chart for sharing
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed with MultiWriter.
package report
