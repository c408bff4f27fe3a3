// Package storage persists recipe documents as one flat file per slug.
//
// Two drivers implement Backend: fs keeps <slug>.xml files in a directory and
// replaces them atomically under a lock file, while s3 keeps <prefix><slug>.xml
// objects in an S3-compatible bucket. Open picks the driver from config.
// Missing documents surface as recipe.ErrNotFound.
package storage
