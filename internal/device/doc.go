// Package device defines the contract between the capture host and the
// per-sensor decode cores.
//
// Each decoder registers a Protocol: the modulation family and pulse
// timing parameters the host dispatcher uses to select which raw
// captures are even offered to it, plus the output fields it can emit.
// These values are configuration, not decode logic; the host's
// demodulator owns the timing.
//
// A decode attempt over one capture's rows produces either a Record or
// a Status classification. Decode failures are ordinary, expected
// outcomes of noisy radio reception, so they are status codes rather
// than Go errors.
package device
