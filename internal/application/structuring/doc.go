// Package structuring turns raw model text into a domain.StructuredResponse.
//
// Segmented actions go through Segmenter -> Extractor -> Assemble. Strict JSON
// actions are sliced out of the text and decoded. Whenever a stage cannot
// produce a usable result the fallback tiers take over, so Structure always
// returns at least one option:
//
//	tier 1  a segment's fields did not extract; the segment text becomes the option
//	tier 2  no numbered sections at all; the whole response becomes one option
//	tier 3  the pipeline itself failed; last-resort option, Success=false
//	tier 4  strict JSON did not parse; per-action defaults are substituted
//
// Tiers are consulted top-down and the first one that yields options wins.
package structuring
