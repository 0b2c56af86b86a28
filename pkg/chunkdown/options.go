package chunkdown

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

// SplitRuleKind enumerates the three shapes a node's split rule can take.
type SplitRuleKind string

const (
	// SplitNever marks a node as a protected range; no cut may land
	// strictly inside it.
	SplitNever SplitRuleKind = "never-split"
	// SplitAllow marks a node as carrying no special protection.
	SplitAllow SplitRuleKind = "allow-split"
	// SplitBySize marks a node as protected only while its content size
	// is at or below Size; past that it becomes splittable.
	SplitBySize SplitRuleKind = "size-split"
)

// SplitRule is the per-node split policy described in spec §3.
type SplitRule struct {
	Kind SplitRuleKind
	// Size is only meaningful when Kind == SplitBySize.
	Size int
}

// NeverSplit returns the never-split rule.
func NeverSplit() SplitRule { return SplitRule{Kind: SplitNever} }

// AllowSplit returns the allow-split rule.
func AllowSplit() SplitRule { return SplitRule{Kind: SplitAllow} }

// SizeSplit returns a size-split(n) rule: the node is protected while its
// content size is <= n, and splittable above it.
func SizeSplit(n int) SplitRule { return SplitRule{Kind: SplitBySize, Size: n} }

// LinkStyle controls reference normalization (spec §4.9).
type LinkStyle string

const (
	// StyleInline turns on normalizeReferences: a definition line that
	// no link or image in the document resolved to is re-appended
	// verbatim at the end of the document. The parser itself already
	// rewrites every reference-style link/image as an inline one.
	StyleInline LinkStyle = "inline"
	// StyleReference skips normalizeReferences. Reference-style
	// links/images are not kept in reference form: the parser resolves
	// them to inline links/images while parsing, and every definition
	// line, used or not, is absent from the output.
	StyleReference LinkStyle = "reference"
)

// NodeRule is the configuration attached to one node kind.
type NodeRule struct {
	Split *SplitRule
	Style LinkStyle
}

// ExperimentalOptions holds options gated behind the experimental flag.
type ExperimentalOptions struct {
	// PreserveTableHeaders names the "preserve_table_headers contract":
	// a split table re-emits its header row in every chunk that carries
	// a body row. DefaultOptions sets it to true. The table splitter does
	// not read this field; it always repeats the header, so setting it
	// to false does not change the output.
	PreserveTableHeaders bool
}

// SplitterOptions configures a Chunkdown instance (spec §3).
type SplitterOptions struct {
	// ChunkSize is the target visible size of a chunk.
	ChunkSize int `validate:"required,min=1"`
	// MaxOverflowRatio scales ChunkSize into MaxAllowed.
	MaxOverflowRatio float64 `validate:"omitempty,min=1.0"`
	// MaxRawSize, if non-nil, caps the serialized length of any chunk.
	MaxRawSize *int `validate:"omitempty,min=1"`
	// Rules maps a node-kind key (or the fallback key "formatting") to
	// its NodeRule. Keys follow the spec's lower-camel node-kind names:
	// "heading", "link", "image", "inlineCode", "emphasis", "strong",
	// "delete", "list", "table", "blockquote".
	Rules map[string]NodeRule
	// Experimental holds flags not yet part of the stable contract.
	Experimental ExperimentalOptions
}

// DefaultRules returns the table the library ships with: links, images
// and inline code are always protected since cutting them can never
// produce valid markdown on both sides, and headings are protected so a
// heading's text is never split away from its leading "#" markers. This
// is the "default rules table" spec §6 names as an exported helper.
func DefaultRules() map[string]NodeRule {
	never := NeverSplit()
	return map[string]NodeRule{
		"heading":    {Split: &never},
		"link":       {Split: &never},
		"image":      {Split: &never},
		"inlineCode": {Split: &never},
	}
}

// DefaultOptions returns a SplitterOptions with the library's defaults:
// a 1.0 overflow ratio, no raw-size cap, the default rules table, and
// table-header preservation on.
func DefaultOptions(chunkSize int) SplitterOptions {
	return SplitterOptions{
		ChunkSize:        chunkSize,
		MaxOverflowRatio: 1.0,
		Rules:            DefaultRules(),
		Experimental:     ExperimentalOptions{PreserveTableHeaders: true},
	}
}

var optionsValidator = validator.New()

// normalize fills in zero-valued fields with their defaults and runs
// struct-tag validation over the result.
func (o *SplitterOptions) normalize() error {
	if o.MaxOverflowRatio == 0 {
		o.MaxOverflowRatio = 1.0
	}
	if o.Rules == nil {
		o.Rules = map[string]NodeRule{}
	}
	if err := optionsValidator.Struct(o); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	if o.MaxOverflowRatio < 1.0 {
		return fmt.Errorf("%w: max_overflow_ratio must be >= 1.0", ErrInvalidOptions)
	}
	return nil
}

// MaxAllowed returns chunk_size * max_overflow_ratio, rounded to the
// nearest integer (spec §2, step 1).
func (o SplitterOptions) MaxAllowed() int {
	return int(math.Round(float64(o.ChunkSize) * o.MaxOverflowRatio))
}

// isWithinAllowed implements spec §4.1's is_within_allowed predicate.
func (o SplitterOptions) isWithinAllowed(content, raw int) bool {
	if content > o.MaxAllowed() {
		return false
	}
	if o.MaxRawSize != nil && raw > *o.MaxRawSize {
		return false
	}
	return true
}
