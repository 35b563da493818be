// Package pkg provides the core libraries for the gangsheet builder.
//
// # Overview
//
// A gang sheet is a fixed-size print substrate onto which many small
// images are arranged and printed in one run. The pkg directory is
// organized into three main areas:
//
//  1. Domain model - units, sheet, project (items and their operations)
//  2. Arrangement - layout (automatic strategies), interact (pointer drags)
//  3. Edges - upload (decoding), export (artifacts), codec/store
//     (persistence and sharing), config, errors, buildinfo
//
// # Architecture
//
// The typical data flow:
//
//	Uploaded images
//	         ↓
//	upload (sniff, decode intrinsic size)
//	         ↓
//	project (placed items, manual edits via interact, automatic via layout)
//	         ↓
//	export (SVG scene, raster/document renderers)  codec+store (save/share)
//
// The domain model is single-writer and synchronous; concurrency lives at
// the edges (HTTP API, async export snapshots).
package pkg
