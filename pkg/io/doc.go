// Package io reads declaration records and writes exported artifacts.
//
// # Artifacts
//
// [Package] turns a compression result into an [Artifact] named after the
// applicant:
//
//	Ghoshna_Patra_<name>.jpg
//
// where the name is trimmed and its whitespace runs become a single
// underscore. An empty name becomes "Document".
//
// [Save] writes an artifact through a transient temp file in the destination
// directory and publishes it with a single link or rename, so a reader never
// sees a partial file and a failed save leaves nothing behind. Existing files
// are kept: the artifact is saved as Name_2.jpg, Name_3.jpg and so on unless
// [SaveOptions.Overwrite] is set.
//
// # Records
//
// [ImportRecord] loads a record from a .json or .toml file; [ReadRecord]
// decodes one from any reader. [WriteRecord] writes the TOML form used by
// "ghoshna export --record".
package io
