// Package conv implements streaming FFT-based block convolution using
// the overlap-add method: each block is zero-padded, multiplied with
// the kernel spectrum, transformed back, and the trailing half of the
// linear convolution is added into the head of the next block.
package conv
