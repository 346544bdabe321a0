// Package diagfmt renders compiler diagnostics with source context and
// previews of the lines a fix run rewrote.
package diagfmt
