// Package average implements the filtered average-level engine of a
// K-System meter. Two calibrated algorithms are offered: band-limited
// RMS (linear-phase low-pass plus peak-to-average correction) and
// ITU-R BS.1770 loudness (K-weighting plus channel-weighted
// mean-square summation to LKFS).
//
// The engine runs block-by-block on the host's audio thread: write the
// raw block to a ring buffer, pull it with the display pre-delay, read
// levels, optionally publish the filtered block for visualization.
package average
