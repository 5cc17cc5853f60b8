// Package biquad implements second-order IIR sections in Direct Form I
// with explicit block-boundary history, matching the state model of the
// K-weighting cascade: process a block, then push the trailing two
// input/output samples as the next block's history.
package biquad
