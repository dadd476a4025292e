package entity

// Page is a fetched document.
type Page struct {
	// HTML is the full markup decoded to UTF-8. It may be empty.
	HTML string
	// URL is the final URL after redirects.
	URL string
}
