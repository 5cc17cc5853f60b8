// Package fir designs the band-limiting windowed-sinc kernel used by
// the average-level meter. The kernel is built once per sample rate and
// consumed in its frequency-domain form by the overlap-add convolver.
package fir
