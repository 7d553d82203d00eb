// Package mq evaluates MongoDB-style query definitions against in-memory
// documents.
//
// A query definition is a generic value tree (nil, bool, numbers, string,
// []any, map[string]any), typically obtained by unmarshaling JSON or YAML.
// A mapping condition is a conjunction of per-key checks; keys starting with
// '$' name operators, any other key is a dot-separated field path into the
// document. Non-mapping conditions are literal equality checks, or membership
// checks when the compared document value is a sequence.
//
// Supported operators:
//   - Comparison: $gt, $gte, $lt, $lte, $in, $nin, $ne
//   - Logical:    $and, $or, $nor, $not
//   - Element:    $exists, $type
//   - Evaluation: $mod, $regex
//   - Array:      $all, $elemMatch, $size
//   - Meta:       $comment
//
// Field paths distribute implicitly over sequences: querying "items.name"
// against a document whose "items" value is an array of objects matches when
// at least one element matches. The same existential distribution applies to
// every operator except $all, $elemMatch and $size, which operate on the
// sequence itself.
//
// Match never fails on document shape; it fails only when the condition tree
// itself is structurally invalid (see the Err* sentinel errors).
package mq
