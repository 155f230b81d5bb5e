// Package source turns user-supplied references (file paths, article URLs,
// RSS/Atom feeds) into plain text ready for the podcast pipeline.
//
// Files are dispatched by extension: .pdf, .docx, .md/.markdown and
// everything else as plain text. URLs are dispatched by response content
// type: feeds yield their newest entry, PDFs are extracted, and HTML pages
// go through readability with a goquery title fallback.
package source
