// Package extract pulls preview metadata and readable text out of HTML.
//
// Every function tolerates missing or malformed markup: absent fields come
// back empty and no call fails because a tag is missing.
package extract
