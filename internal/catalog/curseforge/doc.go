// Package curseforge implements the CurseForge catalog client. The API
// only supports search here; version listings are not exposed, so update
// checks against CurseForge stay manual.
package curseforge
