// Package installtool implements the package-installation tool.
//
// Backends ("pip", "uv") shell out to the corresponding installer binary
// and are registered only when that binary is present on PATH, so a host
// with neither installer simply has an empty registry. Version
// constraints pass through unchanged when they already carry a
// comparison operator; bare versions are pinned exactly.
package installtool
