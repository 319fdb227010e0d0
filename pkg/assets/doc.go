// Package assets prepares and checks the layer images of a collection.
//
// Artists rarely deliver assets that match the configuration exactly. This
// package covers the usual fixes before a run:
//
//   - [Normalize] renames files to lower case with underscores instead of
//     spaces, the convention used for the "filename" entries of a config
//   - [Resize] scales PNGs that do not match the collection's canvas, using
//     Lanczos resampling
//   - [Check] verifies that every configured value has a decodable asset of
//     the same size as the others, so DIMENSION_MISMATCH and FILE_NOT_FOUND
//     surface before thousands of tokens are rendered
package assets
