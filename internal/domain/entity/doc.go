// Package entity defines the core domain types of the summarization service:
// requests, domain policies, page metadata, results, and the error taxonomy.
package entity
