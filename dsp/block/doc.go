// Package block provides an owned multichannel sample matrix used as the
// unit of exchange between the host, the ring buffer, and the metering
// engine. A Block has a fixed geometry for its lifetime; all per-block
// DSP mutates channel slices in place.
package block
