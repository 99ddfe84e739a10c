// Package portfolio provides the content-management core for the retro
// portfolio site: media entries stored as flat JSON array files (one per
// category), upload routing to remote asset hosts, and the pile/gallery
// operations that reorganize images between entries.
//
// It exposes a single Service interface that orchestrates uploads, entry
// creation, edits, deletions and pile moves. Implementations of the
// repository (JSON files) and the asset-host uploaders (Cloudinary, GitHub
// release assets) are provided under subpackages.
//
// Text Fields
//
// Translatable fields (title, medium, genre, description) hold a fixed locale
// map where every locale carries the same source string until a translation
// exists. Legacy project entries store bare strings instead; both forms
// round-trip unchanged through the store.
package portfolio
