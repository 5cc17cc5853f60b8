// Package kweight implements the ITU-R BS.1770 K-weighting filter: a
// high-shelf pre-filter followed by the RLB high-pass, realized as two
// biquad sections per channel with block-boundary state.
package kweight
