// Package modrinth implements the Modrinth catalog client used for
// project search and version listings.
package modrinth
