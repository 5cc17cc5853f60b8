// Package window generates window function coefficients for FIR kernel
// design. Windows come in symmetric form (filter design) and periodic
// form (FFT framing); the average-level FIR taper uses the periodic
// Blackman form.
package window
