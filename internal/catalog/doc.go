// Package catalog defines the typed boundary between lodestone and the remote
// content catalogs (Modrinth, CurseForge). Raw API payloads are validated and
// defaulted inside the per-platform client packages; everything downstream of
// this boundary sees only the types declared here.
package catalog
