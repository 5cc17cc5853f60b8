// Package ringbuf provides the multichannel sample queue between the
// host callback and the metering engine. Reads accept a pre-delay
// offset so that average readings (which lag by the filter latency)
// line up with the raw peak path on the meter.
package ringbuf
